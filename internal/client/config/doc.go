// Package config loads runtime configuration for the CareKeeper client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables prefixed CAREKEEPER_, after loading an optional
//     .env file with godotenv (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string   local database path
//	-D string   profile directory DSN
//	-m int      session max age (minutes)
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "12h" or
// integer nanoseconds:
//
//	{
//	  "database_dsn": "carekeeper.db",
//	  "directory_dsn": "postgres://carekeeper@db.clinic.lan/carekeeper",
//	  "session_max_age": "24h",
//	  "log_level": "info",
//	  "log_format": "json",
//	  "seed_demo_users": false
//	}
package config
