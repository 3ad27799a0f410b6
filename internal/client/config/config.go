package config

import (
	"time"
)

// Config holds runtime settings for the CareKeeper client.
//
// Fields:
//   - DatabaseDSN: path of the local SQLite database.
//   - DirectoryDSN: profile directory backend; empty means the local
//     database, a postgres:// URL selects a shared PostgreSQL directory.
//   - SessionMaxAge: idle time after which a session expires.
//   - LogLevel, LogFormat: see logging.New.
//   - SeedDemoUsers: create the demo profiles on startup.
type Config struct {
	DatabaseDSN   string
	DirectoryDSN  string
	SessionMaxAge time.Duration
	LogLevel      string
	LogFormat     string
	SeedDemoUsers bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "carekeeper.db"
	c.DirectoryDSN = ""
	c.SessionMaxAge = 24 * time.Hour
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.SeedDemoUsers = true
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (and .env), JSON (if present) and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
