// Package config loads runtime configuration for the Mystery Message
// terminal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string     base URL of the Mystery Message server
//	-t duration   per-request timeout
//	-o string     directory that downloaded exports are written to
//
// # JSON schema
//
//	{
//	  "server_url": "http://localhost:3000",
//	  "request_timeout": "10s",
//	  "export_dir": "exports"
//	}
package config
