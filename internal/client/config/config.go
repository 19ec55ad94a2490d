package config

import (
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/heartlink/internal/filex"
)

// AppName names the per-user configuration directory.
const AppName = "heartlink"

// Config holds runtime settings for heartctl.
//
// Fields:
//   - ServerEndpointAddr: host:port of the gRPC endpoint.
//   - SessionFile: where tokens are kept between invocations.
//   - RequestTimeout: bound on every command's server calls.
//   - PublicBaseURL: site origin used by "link" for personal links.
type Config struct {
	ServerEndpointAddr string
	SessionFile        string
	RequestTimeout     time.Duration
	PublicBaseURL      string
}

// ensureConfigDir is a test seam for filex.EnsureConfigDir.
var ensureConfigDir = filex.EnsureConfigDir

// LoadDefaults populates c with sensible defaults. SessionFile stays empty
// when no user config directory is available.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 15 * time.Second
	c.PublicBaseURL = "http://localhost:8080"
	c.SessionFile = ""
	if dir, err := ensureConfigDir(AppName); err == nil {
		c.SessionFile = filepath.Join(dir, "session.json")
	}
}

// LoadConfig applies defaults, then the config file at path (if any), then
// the environment.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg, path); err != nil {
		return nil, err
	}
	parseEnv(cfg)
	return cfg, nil
}
