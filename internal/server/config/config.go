// Package config handles configuration for the server component: defaults,
// an optional JSON file, environment variables and command-line flags, applied
// in that order so that later sources win.
package config

import (
	"os"
	"strings"
	"time"
)

// DefaultSecretKey is the development session secret set by LoadDefaults.
const DefaultSecretKey = "secretKey"

// Config holds runtime settings for the Mystery Message server.
//
// Fields:
//   - EndpointAddrHTTP: bind address of the JSON API.
//   - BaseURL: public origin used to build shareable profile links.
//   - DatabaseURI: store URI; the scheme selects the backend
//     (mongodb://, mongodb+srv://, postgres://, postgresql://, memory://).
//   - DatabaseName: MongoDB database name (ignored by other backends).
//   - SecretKey: HMAC secret for signing session tokens. Do not use defaults in prod.
//   - SessionValidityDuration: session token lifetime.
//   - VerifyCodeValidityDuration: how long a sign-up verification code stays valid.
//   - OpenAI*: suggestion provider; an empty key switches to the static fallback.
//   - S3*: object storage for message exports; an empty bucket disables exports.
//   - SendGridAPIKey / MailFrom: verification mail delivery; an empty key logs codes instead.
type Config struct {
	EndpointAddrHTTP           string
	BaseURL                    string
	DatabaseURI                string
	DatabaseName               string
	SecretKey                  string
	SessionValidityDuration    time.Duration
	VerifyCodeValidityDuration time.Duration
	ShutdownTimeout            time.Duration
	LogLevel                   string
	OpenAIAPIKey               string
	OpenAIBaseURL              string
	OpenAIModel                string
	S3RootUser                 string
	S3RootPassword             string
	S3Bucket                   string
	S3Region                   string
	S3BaseEndpoint             string
	SendGridAPIKey             string
	MailFrom                   string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":3000"
	c.BaseURL = "http://localhost:3000"
	c.DatabaseURI = "mongodb://localhost:27017"
	c.DatabaseName = "mysterymessage"
	c.SecretKey = DefaultSecretKey
	c.SessionValidityDuration = 30 * 24 * time.Hour
	c.VerifyCodeValidityDuration = time.Hour
	c.ShutdownTimeout = 10 * time.Second
	c.LogLevel = "info"
	c.OpenAIModel = "gpt-3.5-turbo"
	c.S3Region = "us-east-1"
	c.MailFrom = "no-reply@mysterymessage.local"
}

// InsecureSecret reports whether the development secret is used against a
// persistent store.
func (c *Config) InsecureSecret() bool {
	return c.SecretKey == DefaultSecretKey && !strings.HasPrefix(c.DatabaseURI, "memory:")
}

// LoadConfig builds a Config from defaults, the JSON file named by -c/-config,
// the environment and finally the command-line flags in os.Args.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
