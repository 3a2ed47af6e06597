package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/mysterymessage/internal/flagx"
	"github.com/dmitrijs2005/mysterymessage/internal/timex"
)

// JsonConfig mirrors Config for file-based configuration.
type JsonConfig struct {
	ServerURL      string         `json:"server_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	ExportDir      string         `json:"export_dir"`
}

// parseJson overlays the file given with -c/-config onto config.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if c.ServerURL != "" {
		config.ServerURL = c.ServerURL
	}
	if c.RequestTimeout.Duration > 0 {
		config.RequestTimeout = c.RequestTimeout.Duration
	}
	if c.ExportDir != "" {
		config.ExportDir = c.ExportDir
	}

	return nil
}
