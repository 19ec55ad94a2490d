// Package config loads runtime configuration for the heartctl CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file, JSON or YAML by extension, given with -c/--config.
//  3. HEARTCTL_* environment variables.
//  4. Command-line flags, bound by the cli package on top of the result.
//
// # File schema
//
// Durations are timex.Duration, so "15s" and integer nanoseconds both work:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "session_file": "/home/me/.config/heartlink/session.json",
//	  "request_timeout": "15s",
//	  "public_base_url": "https://heartlink.example"
//	}
package config
