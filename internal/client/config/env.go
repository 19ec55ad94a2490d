package config

import (
	"os"
	"time"
)

const envPrefix = "HEARTCTL_"

// parseEnv overlays HEARTCTL_* variables. A malformed timeout is ignored.
func parseEnv(cfg *Config) {
	if v := os.Getenv(envPrefix + "SERVER"); v != "" {
		cfg.ServerEndpointAddr = v
	}
	if v := os.Getenv(envPrefix + "SESSION_FILE"); v != "" {
		cfg.SessionFile = v
	}
	if v := os.Getenv(envPrefix + "PUBLIC_BASE_URL"); v != "" {
		cfg.PublicBaseURL = v
	}
	if v := os.Getenv(envPrefix + "TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.RequestTimeout = d
		}
	}
}
