package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the terminal client.
//
// Fields:
//   - ServerURL: origin of the server API, without the /api suffix.
//   - RequestTimeout: upper bound for a single API call.
//   - ExportDir: where `export` stores downloaded message archives.
type Config struct {
	ServerURL      string
	RequestTimeout time.Duration
	ExportDir      string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:3000"
	c.RequestTimeout = 10 * time.Second
	c.ExportDir = "exports"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
