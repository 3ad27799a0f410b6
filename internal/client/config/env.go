package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "CAREKEEPER_"

// envFile is loaded before the environment is read. Variables already set
// in the process environment win over the file.
var envFile = ".env"

func lookupEnv(name string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// parseEnv overlays Config with CAREKEEPER_* variables.
//
//	CAREKEEPER_DATABASE_DSN
//	CAREKEEPER_DIRECTORY_DSN
//	CAREKEEPER_SESSION_MAX_AGE   duration, e.g. "12h"
//	CAREKEEPER_LOG_LEVEL
//	CAREKEEPER_LOG_FORMAT
//	CAREKEEPER_SEED_DEMO_USERS   bool
//
// A missing .env file is ignored; a malformed one or a bad value panics.
func parseEnv(cfg *Config) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if v, ok := lookupEnv("DATABASE_DSN"); ok {
		cfg.DatabaseDSN = v
	}
	if v, ok := lookupEnv("DIRECTORY_DSN"); ok {
		cfg.DirectoryDSN = v
	}
	if v, ok := lookupEnv("SESSION_MAX_AGE"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		cfg.SessionMaxAge = d
	}
	if v, ok := lookupEnv("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := lookupEnv("LOG_FORMAT"); ok {
		cfg.LogFormat = v
	}
	if v, ok := lookupEnv("SEED_DEMO_USERS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		cfg.SeedDemoUsers = b
	}
}
