package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJson_NoFlag(t *testing.T) {
	var c Config
	c.LoadDefaults()

	require.NoError(t, parseJson(&c, []string{"-a", ":1"}))
	assert.Equal(t, ":3000", c.EndpointAddrHTTP)
}

func TestParseJson_Overlay(t *testing.T) {
	path := writeConfig(t, `{
		"base_url": "https://mm.example",
		"verify_code_validity_duration": "30m",
		"s3_bucket": "exports",
		"s3_base_endpoint": "http://127.0.0.1:9000/"
	}`)

	var c Config
	c.LoadDefaults()
	require.NoError(t, parseJson(&c, []string{"-config=" + path}))

	assert.Equal(t, "https://mm.example", c.BaseURL)
	assert.Equal(t, 30*time.Minute, c.VerifyCodeValidityDuration)
	assert.Equal(t, "exports", c.S3Bucket)
	assert.Equal(t, "http://127.0.0.1:9000/", c.S3BaseEndpoint)
	assert.Equal(t, "secretKey", c.SecretKey)
}

func TestParseJson_Errors(t *testing.T) {
	var c Config
	c.LoadDefaults()

	err := parseJson(&c, []string{"-c", filepath.Join(t.TempDir(), "missing.json")})
	assert.Error(t, err)

	path := writeConfig(t, `{"database_uri": 42`)
	err = parseJson(&c, []string{"-c", path})
	assert.Error(t, err)
}
