package config

import (
	"flag"
	"fmt"

	"github.com/dmitrijs2005/mysterymessage/internal/flagx"
)

// parseFlags overrides config with command-line flags. Flags not registered
// here (for instance -c) are filtered out before parsing.
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP bind address")
	fs.StringVar(&config.BaseURL, "b", config.BaseURL, "public base URL for profile links")
	fs.StringVar(&config.DatabaseURI, "d", config.DatabaseURI, "database URI (mongodb://, postgres://, memory://)")
	fs.StringVar(&config.DatabaseName, "n", config.DatabaseName, "MongoDB database name")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "session token signing secret")
	fs.DurationVar(&config.SessionValidityDuration, "t", config.SessionValidityDuration, "session validity duration")
	fs.DurationVar(&config.VerifyCodeValidityDuration, "v", config.VerifyCodeValidityDuration, "verification code validity duration")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&config.OpenAIAPIKey, "k", config.OpenAIAPIKey, "OpenAI API key")
	fs.StringVar(&config.S3Bucket, "bucket", config.S3Bucket, "S3 bucket for message exports")

	allowed := []string{"-a", "-b", "-d", "-n", "-s", "-t", "-v", "-l", "-k", "-bucket"}
	if err := fs.Parse(flagx.FilterArgs(args, allowed...)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
