package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// envPrefix namespaces every variable read by parseEnv.
const envPrefix = "HEARTLINK_"

// loadDotEnv is a test seam for godotenv.Load.
var loadDotEnv = func() error { return godotenv.Load() }

// parseEnv overlays HEARTLINK_* environment variables. A .env file in the
// working directory is loaded first; variables already set in the process
// environment win over it. Malformed numbers and durations are ignored.
func parseEnv(config *Config) {
	_ = loadDotEnv()

	strs := map[string]*string{
		"HTTP_ADDR":            &config.HTTPAddr,
		"GRPC_ADDR":            &config.GRPCAddr,
		"PUBLIC_BASE_URL":      &config.PublicBaseURL,
		"LOG_LEVEL":            &config.LogLevel,
		"ALLOW_ORIGINS":        &config.AllowOrigins,
		"DATABASE_DSN":         &config.DatabaseDSN,
		"SECRET_KEY":           &config.SecretKey,
		"S3_ROOT_USER":         &config.S3RootUser,
		"S3_ROOT_PASSWORD":     &config.S3RootPassword,
		"S3_BUCKET":            &config.S3Bucket,
		"S3_REGION":            &config.S3Region,
		"S3_BASE_ENDPOINT":     &config.S3BaseEndpoint,
		"RING_MODEL_KEY":       &config.RingModelKey,
		"LLM_PROVIDER":         &config.LLMProvider,
		"LLM_API_KEY":          &config.LLMAPIKey,
		"LLM_MODEL":            &config.LLMModel,
		"LLM_BASE_URL":         &config.LLMBaseURL,
		"REDIS_ADDR":           &config.RedisAddr,
		"AMQP_URL":             &config.AMQPURL,
		"AMQP_QUEUE":           &config.AMQPQueue,
		"GOOGLE_CLIENT_ID":     &config.GoogleClientID,
		"GOOGLE_CLIENT_SECRET": &config.GoogleClientSecret,
		"APPLE_CLIENT_ID":      &config.AppleClientID,
		"APPLE_TEAM_ID":        &config.AppleTeamID,
		"APPLE_KEY_ID":         &config.AppleKeyID,
		"APPLE_PRIVATE_KEY":    &config.ApplePrivateKey,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(envPrefix + name); ok && v != "" {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"ACCESS_TOKEN_VALIDITY_DURATION":  &config.AccessTokenValidityDuration,
		"REFRESH_TOKEN_VALIDITY_DURATION": &config.RefreshTokenValidityDuration,
		"LLM_TIMEOUT":                     &config.LLMTimeout,
		"PERSUADE_RATE_WINDOW":            &config.PersuadeRateWindow,
	}
	for name, dst := range durations {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}

	if v, ok := os.LookupEnv(envPrefix + "PERSUADE_RATE_LIMIT"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			config.PersuadeRateLimit = n
		}
	}
}
