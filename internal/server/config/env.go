package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// envBindings maps config keys to environment variables. When a key lists
// several variables the first one that is set wins, so the names used by the
// original deployment (MONGODB_URI, MONGO_URI, NEXTAUTH_SECRET) keep working.
var envBindings = map[string][]string{
	"endpoint_addr_http":            {"HTTP_ADDR"},
	"base_url":                      {"BASE_URL", "NEXTAUTH_URL"},
	"database_uri":                  {"DATABASE_URI", "MONGODB_URI", "MONGO_URI"},
	"database_name":                 {"DATABASE_NAME"},
	"secret_key":                    {"NEXTAUTH_SECRET", "SECRET_KEY"},
	"session_validity_duration":     {"SESSION_VALIDITY"},
	"verify_code_validity_duration": {"VERIFY_CODE_VALIDITY"},
	"shutdown_timeout":              {"SHUTDOWN_TIMEOUT"},
	"log_level":                     {"LOG_LEVEL"},
	"openai_api_key":                {"OPENAI_API_KEY"},
	"openai_base_url":               {"OPENAI_BASE_URL"},
	"openai_model":                  {"OPENAI_MODEL"},
	"s3_root_user":                  {"S3_ROOT_USER"},
	"s3_root_password":              {"S3_ROOT_PASSWORD"},
	"s3_bucket":                     {"S3_BUCKET"},
	"s3_region":                     {"S3_REGION"},
	"s3_base_endpoint":              {"S3_BASE_ENDPOINT"},
	"sendgrid_api_key":              {"SENDGRID_API_KEY"},
	"mail_from":                     {"MAIL_FROM"},
}

// parseEnv overlays environment variables onto config.
func parseEnv(config *Config) error {
	v := viper.New()
	for key, names := range envBindings {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	texts := map[string]*string{
		"endpoint_addr_http": &config.EndpointAddrHTTP,
		"base_url":           &config.BaseURL,
		"database_uri":       &config.DatabaseURI,
		"database_name":      &config.DatabaseName,
		"secret_key":         &config.SecretKey,
		"log_level":          &config.LogLevel,
		"openai_api_key":     &config.OpenAIAPIKey,
		"openai_base_url":    &config.OpenAIBaseURL,
		"openai_model":       &config.OpenAIModel,
		"s3_root_user":       &config.S3RootUser,
		"s3_root_password":   &config.S3RootPassword,
		"s3_bucket":          &config.S3Bucket,
		"s3_region":          &config.S3Region,
		"s3_base_endpoint":   &config.S3BaseEndpoint,
		"sendgrid_api_key":   &config.SendGridAPIKey,
		"mail_from":          &config.MailFrom,
	}
	for key, dst := range texts {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}

	durations := map[string]*time.Duration{
		"session_validity_duration":     &config.SessionValidityDuration,
		"verify_code_validity_duration": &config.VerifyCodeValidityDuration,
		"shutdown_timeout":              &config.ShutdownTimeout,
	}
	for key, dst := range durations {
		if !v.IsSet(key) {
			continue
		}
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return fmt.Errorf("env %s: %w", key, err)
		}
		*dst = d
	}

	return nil
}
