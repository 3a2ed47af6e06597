package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/mysterymessage/internal/flagx"
	"github.com/dmitrijs2005/mysterymessage/internal/timex"
)

// JsonConfig is the on-disk shape of the optional config file. Durations
// accept Go duration strings ("30m", "720h"). Absent or empty fields leave the
// current value untouched.
type JsonConfig struct {
	EndpointAddrHTTP           string         `json:"endpoint_addr_http"`
	BaseURL                    string         `json:"base_url"`
	DatabaseURI                string         `json:"database_uri"`
	DatabaseName               string         `json:"database_name"`
	SecretKey                  string         `json:"secret_key"`
	SessionValidityDuration    timex.Duration `json:"session_validity_duration"`
	VerifyCodeValidityDuration timex.Duration `json:"verify_code_validity_duration"`
	ShutdownTimeout            timex.Duration `json:"shutdown_timeout"`
	LogLevel                   string         `json:"log_level"`
	OpenAIAPIKey               string         `json:"openai_api_key"`
	OpenAIBaseURL              string         `json:"openai_base_url"`
	OpenAIModel                string         `json:"openai_model"`
	S3RootUser                 string         `json:"s3_root_user"`
	S3RootPassword             string         `json:"s3_root_password"`
	S3Bucket                   string         `json:"s3_bucket"`
	S3Region                   string         `json:"s3_region"`
	S3BaseEndpoint             string         `json:"s3_base_endpoint"`
	SendGridAPIKey             string         `json:"sendgrid_api_key"`
	MailFrom                   string         `json:"mail_from"`
}

// parseJson overlays the file given with -c/-config onto config. Without the
// flag nothing happens; an unreadable or invalid file is an error.
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

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.BaseURL, c.BaseURL)
	setString(&config.DatabaseURI, c.DatabaseURI)
	setString(&config.DatabaseName, c.DatabaseName)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.OpenAIAPIKey, c.OpenAIAPIKey)
	setString(&config.OpenAIBaseURL, c.OpenAIBaseURL)
	setString(&config.OpenAIModel, c.OpenAIModel)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.SendGridAPIKey, c.SendGridAPIKey)
	setString(&config.MailFrom, c.MailFrom)

	if c.SessionValidityDuration.Duration > 0 {
		config.SessionValidityDuration = c.SessionValidityDuration.Duration
	}
	if c.VerifyCodeValidityDuration.Duration > 0 {
		config.VerifyCodeValidityDuration = c.VerifyCodeValidityDuration.Duration
	}
	if c.ShutdownTimeout.Duration > 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
