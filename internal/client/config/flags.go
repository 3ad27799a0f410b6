package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/carekeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-d string   local database path
//	-D string   profile directory DSN
//	-m int      session max age (in minutes)
//	-l string   log level
//
// os.Args is filtered with flagx.FilterArgs so the config file flags do not
// interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-D", "-m", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "local database path")
	fs.StringVar(&cfg.DirectoryDSN, "D", cfg.DirectoryDSN, "profile directory DSN (empty for local, postgres://... for shared)")
	maxAge := fs.Int("m", int(cfg.SessionMaxAge.Minutes()), "session max age (in minutes)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// -m applies only when given; earlier layers may hold sub-minute values
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "m" {
			cfg.SessionMaxAge = time.Duration(*maxAge) * time.Minute
		}
	})
}
