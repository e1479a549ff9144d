package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(t *testing.T, args ...string) *viper.Viper {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)
	require.NoError(t, flags.Parse(args))

	v := viper.New()
	require.NoError(t, Bind(v, flags))
	return v
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newViper(t))
	require.NoError(t, err)

	assert.Equal(t, DefaultSeason, cfg.Season)
	assert.Equal(t, "nba", cfg.Provider)
	assert.Equal(t, "nba", cfg.Directory)
	assert.Equal(t, DefaultNBAAPIBase, cfg.NBAAPIBase)
	assert.Equal(t, DefaultHTTPTimeout, cfg.HTTPTimeout)
	assert.Equal(t, DefaultDirectoryTTL, cfg.DirectoryTTL)
	assert.Equal(t, 8080, cfg.RESTPort)
	assert.Equal(t, 8081, cfg.WSPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.RedisURL)
	assert.False(t, cfg.UsesAtlas())
}

func TestLoadFlags(t *testing.T) {
	cfg, err := Load(newViper(t,
		"--season", "2023-24",
		"--provider", "BBREF",
		"--http-timeout", "5s",
		"--redis-url", "redis://localhost:6379/0",
	))
	require.NoError(t, err)
	assert.Equal(t, "2023-24", cfg.Season)
	assert.Equal(t, "bbref", cfg.Provider)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("COURTSIDE_SEASON", "1999-00")
	t.Setenv("COURTSIDE_LOG_LEVEL", "debug")

	cfg, err := Load(newViper(t))
	require.NoError(t, err)
	assert.Equal(t, "1999-00", cfg.Season)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"season", []string{"--season", "2024-26"}, "Season must look like 2024-25"},
		{"provider", []string{"--provider", "espn"}, "Provider"},
		{"timeout", []string{"--http-timeout", "0s"}, "HTTPTimeout"},
		{"port", []string{"--rest-port", "70000"}, "RESTPort"},
		{"atlas", []string{"--directory", "atlas"}, "atlas-dsn is required"},
		{"atlas provider", []string{"--provider", "atlas", "--atlas-dsn", "postgres://localhost/atlas"}, "requires the atlas directory"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(newViper(t, tt.args...))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadAtlas(t *testing.T) {
	cfg, err := Load(newViper(t, "--provider", "atlas", "--directory", "atlas", "--atlas-dsn", "postgres://localhost/atlas"))
	require.NoError(t, err)
	assert.True(t, cfg.UsesAtlas())
}

func TestValidSeason(t *testing.T) {
	assert.True(t, validSeason("2024-25"))
	assert.True(t, validSeason("1999-00"))
	assert.False(t, validSeason("2024"))
	assert.False(t, validSeason("2024-2025"))
	assert.False(t, validSeason("24-25"))
	assert.False(t, validSeason("abcd-ef"))
}
