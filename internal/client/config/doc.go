// Package config loads runtime configuration for the recipekeeper client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the remote API
//	-i int      online status check interval (seconds)
//	-t int      request timeout (seconds)
//	-store      sqlite | redis | memory
//	-db string  sqlite database file
//	-redis      redis address
//	-rps float  outbound request rate limit
//	-feed int   reconciliation feed size
//	-log        log level
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "3s"
// or integer nanoseconds:
//
//	{
//	  "server_base_url": "https://recipes.example.com/api",
//	  "request_timeout": "15s",
//	  "upload_timeout": "1m",
//	  "online_check_interval": "3s",
//	  "store_backend": "sqlite",
//	  "storage_path": "recipekeeper.db"
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
