package config

import (
	"flag"
	"fmt"

	"github.com/dmitrijs2005/mysterymessage/internal/flagx"
)

func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("client", flag.ContinueOnError)

	fs.StringVar(&config.ServerURL, "a", config.ServerURL, "server base URL")
	fs.DurationVar(&config.RequestTimeout, "t", config.RequestTimeout, "request timeout")
	fs.StringVar(&config.ExportDir, "o", config.ExportDir, "directory for downloaded exports")

	if err := fs.Parse(flagx.FilterArgs(args, "-a", "-t", "-o")); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
