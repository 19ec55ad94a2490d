package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/heartlink/internal/flagx"
	"github.com/dmitrijs2005/heartlink/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the config file. Durations accept both
// "15m" strings and integer nanoseconds. Only non-empty values override.
type FileConfig struct {
	HTTPAddr      string `json:"http_addr" yaml:"http_addr"`
	GRPCAddr      string `json:"grpc_addr" yaml:"grpc_addr"`
	PublicBaseURL string `json:"public_base_url" yaml:"public_base_url"`
	LogLevel      string `json:"log_level" yaml:"log_level"`
	AllowOrigins  string `json:"allow_origins" yaml:"allow_origins"`

	DatabaseDSN                  string         `json:"database_dsn" yaml:"database_dsn"`
	SecretKey                    string         `json:"secret_key" yaml:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration" yaml:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration" yaml:"refresh_token_validity_duration"`

	S3RootUser     string `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword string `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket       string `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region       string `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	RingModelKey   string `json:"ring_model_key" yaml:"ring_model_key"`

	LLMProvider string         `json:"llm_provider" yaml:"llm_provider"`
	LLMAPIKey   string         `json:"llm_api_key" yaml:"llm_api_key"`
	LLMModel    string         `json:"llm_model" yaml:"llm_model"`
	LLMBaseURL  string         `json:"llm_base_url" yaml:"llm_base_url"`
	LLMTimeout  timex.Duration `json:"llm_timeout" yaml:"llm_timeout"`

	RedisAddr          string         `json:"redis_addr" yaml:"redis_addr"`
	PersuadeRateLimit  int            `json:"persuade_rate_limit" yaml:"persuade_rate_limit"`
	PersuadeRateWindow timex.Duration `json:"persuade_rate_window" yaml:"persuade_rate_window"`

	AMQPURL   string `json:"amqp_url" yaml:"amqp_url"`
	AMQPQueue string `json:"amqp_queue" yaml:"amqp_queue"`

	GoogleClientID     string `json:"google_client_id" yaml:"google_client_id"`
	GoogleClientSecret string `json:"google_client_secret" yaml:"google_client_secret"`
	AppleClientID      string `json:"apple_client_id" yaml:"apple_client_id"`
	AppleTeamID        string `json:"apple_team_id" yaml:"apple_team_id"`
	AppleKeyID         string `json:"apple_key_id" yaml:"apple_key_id"`
	ApplePrivateKey    string `json:"apple_private_key" yaml:"apple_private_key"`
}

// parseFile loads the file named by -c/-config into config. Files ending in
// .yaml or .yml are decoded as YAML, everything else as JSON. A file that
// cannot be read or decoded panics, like a bad flag would.
func parseFile(config *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(config)
}

func (fc *FileConfig) apply(c *Config) {
	setString(&c.HTTPAddr, fc.HTTPAddr)
	setString(&c.GRPCAddr, fc.GRPCAddr)
	setString(&c.PublicBaseURL, fc.PublicBaseURL)
	setString(&c.LogLevel, fc.LogLevel)
	setString(&c.AllowOrigins, fc.AllowOrigins)
	setString(&c.DatabaseDSN, fc.DatabaseDSN)
	setString(&c.SecretKey, fc.SecretKey)
	setDuration(&c.AccessTokenValidityDuration, fc.AccessTokenValidityDuration)
	setDuration(&c.RefreshTokenValidityDuration, fc.RefreshTokenValidityDuration)
	setString(&c.S3RootUser, fc.S3RootUser)
	setString(&c.S3RootPassword, fc.S3RootPassword)
	setString(&c.S3Bucket, fc.S3Bucket)
	setString(&c.S3Region, fc.S3Region)
	setString(&c.S3BaseEndpoint, fc.S3BaseEndpoint)
	setString(&c.RingModelKey, fc.RingModelKey)
	setString(&c.LLMProvider, fc.LLMProvider)
	setString(&c.LLMAPIKey, fc.LLMAPIKey)
	setString(&c.LLMModel, fc.LLMModel)
	setString(&c.LLMBaseURL, fc.LLMBaseURL)
	setDuration(&c.LLMTimeout, fc.LLMTimeout)
	setString(&c.RedisAddr, fc.RedisAddr)
	if fc.PersuadeRateLimit != 0 {
		c.PersuadeRateLimit = fc.PersuadeRateLimit
	}
	setDuration(&c.PersuadeRateWindow, fc.PersuadeRateWindow)
	setString(&c.AMQPURL, fc.AMQPURL)
	setString(&c.AMQPQueue, fc.AMQPQueue)
	setString(&c.GoogleClientID, fc.GoogleClientID)
	setString(&c.GoogleClientSecret, fc.GoogleClientSecret)
	setString(&c.AppleClientID, fc.AppleClientID)
	setString(&c.AppleTeamID, fc.AppleTeamID)
	setString(&c.AppleKeyID, fc.AppleKeyID)
	setString(&c.ApplePrivateKey, fc.ApplePrivateKey)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
