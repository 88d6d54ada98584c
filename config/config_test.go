// ABOUTME: Tests for config defaults, YAML loading, env overrides, and validation.
// ABOUTME: Env vars are isolated per test with t.Setenv.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389-research/playpen/playpen"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "playpen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, playpen.DefaultOptions(), cfg.PlaypenOptions())
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
runner:
  endpoint: https://runner.example.com/run
  timeout: 5s
playpen:
  max_length: 200
  annotate_warnings: true
  languages: [java, kotlin]
store:
  ttl: 10m
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "https://runner.example.com/run", cfg.Runner.Endpoint)
	assert.Equal(t, 5*time.Second, cfg.Runner.Timeout)
	assert.Equal(t, 200, cfg.Playpen.MaxLength)
	assert.True(t, cfg.Playpen.AnnotateWarnings)
	assert.True(t, cfg.Playpen.Annotate, "unset keys keep their defaults")
	assert.Equal(t, []string{"java", "kotlin"}, cfg.Playpen.Languages)
	assert.Equal(t, 10*time.Minute, cfg.Store.TTL)
	assert.Equal(t, "sourceCode", cfg.Runner.Field)
	require.NoError(t, cfg.Validate())
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "runner:\n  endpoint: http://file.example.com/run\n")
	t.Setenv("PLAYPEN_RUNNER_ENDPOINT", "http://env.example.com/run")
	t.Setenv("PLAYPEN_PLAYPEN_MAX_LENGTH", "42")
	t.Setenv("PLAYPEN_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://env.example.com/run", cfg.Runner.Endpoint)
	assert.Equal(t, 42, cfg.Playpen.MaxLength)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "server: [not, a, map]\n"))
	assert.Error(t, err)

	t.Setenv("PLAYPEN_STORE_TTL", "forever")
	_, err = Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad endpoint scheme", func(c *Config) { c.Runner.Endpoint = "ftp://x/run" }},
		{"endpoint without host", func(c *Config) { c.Runner.Endpoint = "http:///run" }},
		{"negative timeout", func(c *Config) { c.Runner.Timeout = -time.Second }},
		{"empty marker", func(c *Config) { c.Playpen.SourceMarker = " " }},
		{"no languages", func(c *Config) { c.Playpen.Languages = nil }},
		{"negative capacity", func(c *Config) { c.Store.MaxMounts = -1 }},
		{"zero ttl", func(c *Config) { c.Store.TTL = 0 }},
		{"zero cleanup interval", func(c *Config) { c.Store.CleanupInterval = 0 }},
		{"zero body size", func(c *Config) { c.Server.MaxBodySize = 0 }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
		})
	}
}

func TestConversions(t *testing.T) {
	cfg := Default()
	cfg.Runner.Endpoint = "http://localhost:9000/run"
	cfg.Log.Development = true

	rc := cfg.RunnerConfig()
	assert.Equal(t, "http://localhost:9000/run", rc.Endpoint)
	assert.Equal(t, "sourceCode", rc.Field)

	lc := cfg.LoggingConfig()
	assert.True(t, lc.Development)
	assert.Equal(t, "info", lc.Level)
}
