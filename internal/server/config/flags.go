package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/heartlink/internal/flagx"
)

var knownFlags = []string{
	"-a", "-g", "-u", "-d", "-s", "-t", "-r", "-l",
	"-llm-provider", "-llm-key", "-llm-model",
	"-redis", "-amqp",
	"-s3-user", "-s3-password", "-s3-bucket", "-s3-region", "-s3-endpoint",
}

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-g string   gRPC bind address (e.g., ":50051")
//	-u string   public base URL used in share links
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-l string   log level
//	-llm-provider, -llm-key, -llm-model
//	-redis, -amqp
//	-s3-user, -s3-password, -s3-bucket, -s3-region, -s3-endpoint
//
// os.Args is first filtered with flagx.FilterArgs so the -c/-config flag
// handled by parseFile does not break parsing.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to serve HTTP on")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "address and port to serve gRPC on")
	fs.StringVar(&config.PublicBaseURL, "u", config.PublicBaseURL, "public base URL")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh_token_validity_duration (in minutes)")

	fs.StringVar(&config.LLMProvider, "llm-provider", config.LLMProvider, "LLM provider: gemini, openai or empty")
	fs.StringVar(&config.LLMAPIKey, "llm-key", config.LLMAPIKey, "LLM API key")
	fs.StringVar(&config.LLMModel, "llm-model", config.LLMModel, "LLM model name")
	fs.StringVar(&config.RedisAddr, "redis", config.RedisAddr, "Redis address for rate limiting")
	fs.StringVar(&config.AMQPURL, "amqp", config.AMQPURL, "AMQP URL for proposal events")

	fs.StringVar(&config.S3RootUser, "s3-user", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "s3-password", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "s3-bucket", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "s3-region", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "s3-endpoint", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
}
