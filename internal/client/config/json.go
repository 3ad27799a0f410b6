package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/carekeeper/internal/flagx"
	"github.com/dmitrijs2005/carekeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent keys
// leave the corresponding Config field untouched.
type JsonConfig struct {
	DatabaseDSN   string          `json:"database_dsn"`
	DirectoryDSN  string          `json:"directory_dsn"`
	SessionMaxAge *timex.Duration `json:"session_max_age"`
	LogLevel      string          `json:"log_level"`
	LogFormat     string          `json:"log_format"`
	SeedDemoUsers *bool           `json:"seed_demo_users"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without either flag nothing is loaded. Read and unmarshal
// errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.DirectoryDSN != "" {
		cfg.DirectoryDSN = jc.DirectoryDSN
	}
	if jc.SessionMaxAge != nil {
		cfg.SessionMaxAge = jc.SessionMaxAge.Duration
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	if jc.LogFormat != "" {
		cfg.LogFormat = jc.LogFormat
	}
	if jc.SeedDemoUsers != nil {
		cfg.SeedDemoUsers = *jc.SeedDemoUsers
	}
}
