// ABOUTME: Playground configuration: YAML file, PLAYPEN_* environment overrides, and validation.
// ABOUTME: Converts into the option structs the runner, playpen, editor, and logging packages take.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/2389-research/playpen/logging"
	"github.com/2389-research/playpen/playpen"
	"github.com/2389-research/playpen/runner"
)

// EnvPrefix is the prefix for environment overrides, e.g. PLAYPEN_RUNNER_ENDPOINT.
const EnvPrefix = "PLAYPEN"

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all playground configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Runner  RunnerConfig  `yaml:"runner"`
	Playpen PlaypenConfig `yaml:"playpen"`
	Store   StoreConfig   `yaml:"store"`
	Ledger  LedgerConfig  `yaml:"ledger"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr    string `yaml:"addr" split_words:"true"`
	DocsDir string `yaml:"docs_dir" split_words:"true"`
	// MaxBodySize bounds editor API request bodies in bytes.
	MaxBodySize int64 `yaml:"max_body_size" split_words:"true"`
}

// RunnerConfig holds execution endpoint configuration.
type RunnerConfig struct {
	Endpoint  string        `yaml:"endpoint" split_words:"true"`
	Field     string        `yaml:"field" split_words:"true"`
	Timeout   time.Duration `yaml:"timeout" split_words:"true"`
	UserAgent string        `yaml:"user_agent" split_words:"true"`
}

// PlaypenConfig holds output processing configuration.
type PlaypenConfig struct {
	MaxLength        int      `yaml:"max_length" split_words:"true"`
	Annotate         bool     `yaml:"annotate" split_words:"true"`
	AnnotateWarnings bool     `yaml:"annotate_warnings" split_words:"true"`
	TempPathPrefix   string   `yaml:"temp_path_prefix" split_words:"true"`
	SourceMarker     string   `yaml:"source_marker" split_words:"true"`
	Languages        []string `yaml:"languages" split_words:"true"`
}

// StoreConfig holds mount store configuration.
type StoreConfig struct {
	MaxMounts       int           `yaml:"max_mounts" split_words:"true"`
	TTL             time.Duration `yaml:"ttl" split_words:"true"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" split_words:"true"`
}

// LedgerConfig holds run ledger configuration. An empty path disables the ledger.
type LedgerConfig struct {
	Path string `yaml:"path" split_words:"true"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `yaml:"level" split_words:"true"`
	Development bool   `yaml:"development" split_words:"true"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        "127.0.0.1:8080",
			DocsDir:     "docs",
			MaxBodySize: 1 << 20,
		},
		Runner: RunnerConfig{
			Field:     runner.DefaultField,
			Timeout:   runner.DefaultTimeout,
			UserAgent: "playpen/1.0",
		},
		Playpen: PlaypenConfig{
			MaxLength:      playpen.DefaultMaxLength,
			Annotate:       true,
			TempPathPrefix: playpen.JavaDialect.TempPathPrefix,
			SourceMarker:   playpen.JavaDialect.SourceMarker,
			Languages:      []string{"java"},
		},
		Store: StoreConfig{
			MaxMounts:       1000,
			TTL:             2 * time.Hour,
			CleanupInterval: 5 * time.Minute,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds a Config from defaults, then the YAML file at path (skipped
// when path is empty), then PLAYPEN_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}
	return cfg, nil
}

// Validate reports the first problem with c. An empty runner endpoint is
// allowed; runs then fail with a transport failure.
func (c *Config) Validate() error {
	if c.Runner.Endpoint != "" {
		u, err := url.Parse(c.Runner.Endpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: runner endpoint %q must be an http(s) URL", ErrInvalid, c.Runner.Endpoint)
		}
	}
	if c.Runner.Timeout < 0 {
		return fmt.Errorf("%w: runner timeout must not be negative", ErrInvalid)
	}
	if strings.TrimSpace(c.Playpen.SourceMarker) == "" {
		return fmt.Errorf("%w: playpen source_marker is required", ErrInvalid)
	}
	if len(c.Playpen.Languages) == 0 {
		return fmt.Errorf("%w: playpen languages must not be empty", ErrInvalid)
	}
	if c.Store.MaxMounts < 0 {
		return fmt.Errorf("%w: store max_mounts must not be negative", ErrInvalid)
	}
	if c.Store.TTL <= 0 {
		return fmt.Errorf("%w: store ttl must be positive", ErrInvalid)
	}
	if c.Store.CleanupInterval <= 0 {
		return fmt.Errorf("%w: store cleanup_interval must be positive", ErrInvalid)
	}
	if c.Server.MaxBodySize <= 0 {
		return fmt.Errorf("%w: server max_body_size must be positive", ErrInvalid)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// PlaypenOptions returns the output processing options.
func (c *Config) PlaypenOptions() playpen.Options {
	return playpen.Options{
		MaxLength: c.Playpen.MaxLength,
		Dialect: playpen.Dialect{
			TempPathPrefix: c.Playpen.TempPathPrefix,
			SourceMarker:   c.Playpen.SourceMarker,
		},
		Annotate:         c.Playpen.Annotate,
		AnnotateWarnings: c.Playpen.AnnotateWarnings,
	}
}

// RunnerConfig returns the execution client configuration without a logger.
func (c *Config) RunnerConfig() runner.Config {
	return runner.Config{
		Endpoint:  c.Runner.Endpoint,
		Field:     c.Runner.Field,
		Timeout:   c.Runner.Timeout,
		UserAgent: c.Runner.UserAgent,
	}
}

// LoggingConfig returns the logger configuration.
func (c *Config) LoggingConfig() logging.Config {
	return logging.Config{
		Level:       c.Log.Level,
		Development: c.Log.Development,
	}
}
