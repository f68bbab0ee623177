// Package config loads runtime configuration for the registo client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c / -config or REGISTO_CONFIG.
//  3. Environment variables prefixed with REGISTO_ (see the envconfig tags
//     on Config).
//  4. Command-line flags, which override everything else.
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "10s" or integer
// nanoseconds:
//
//	{
//	  "database_path": "registo.db",
//	  "remote_backend": "grpc",
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "auth_secret": "change-me",
//	  "subscribe_timeout": "10s",
//	  "token_ttl": "5m",
//	  "export_dir": "exports",
//	  "s3_bucket": "registo"
//	}
package config
