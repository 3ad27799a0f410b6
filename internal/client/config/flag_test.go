package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd", "-d", "x.db", "-D", "postgres://h/db", "-m", "30", "-l", "debug"},
			expected: &Config{DatabaseDSN: "x.db", DirectoryDSN: "postgres://h/db", SessionMaxAge: 30 * time.Minute, LogLevel: "debug"}},
		{name: "config flag is ignored", args: []string{"cmd", "-c", "cfg.json", "-m", "5"},
			expected: &Config{SessionMaxAge: 5 * time.Minute}},
		{name: "incorrect max age", args: []string{"cmd", "-m", "abc"}, expectPanic: true, expected: &Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}

func TestParseFlags_KeepsEarlierValues(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"cmd"}

	cfg := &Config{DatabaseDSN: "env.db", SessionMaxAge: 2 * time.Hour, LogLevel: "warn"}
	parseFlags(cfg)

	assert.Equal(t, "env.db", cfg.DatabaseDSN)
	assert.Equal(t, 2*time.Hour, cfg.SessionMaxAge)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestParseFlags_SubMinuteMaxAgeWithoutFlag(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"cmd", "-d", "x.db"}

	cfg := &Config{SessionMaxAge: 90 * time.Second}
	parseFlags(cfg)

	assert.Equal(t, 90*time.Second, cfg.SessionMaxAge)
}
