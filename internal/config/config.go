// Package config loads application configuration from a TOML file
// with environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/textstitch/textstitch/pkg/types"
)

// Config is the full application configuration shared by the CLI,
// HTTP API, and MCP binaries.
type Config struct {
	// DatabasePath is the SQLite results database location
	DatabasePath string `toml:"database_path"`

	// Listen is the HTTP API bind address
	Listen string `toml:"listen"`

	LogLevel string `toml:"log_level"`
	LogJSON  bool   `toml:"log_json"`

	// RetentionDays prunes stored results older than this many days;
	// 0 disables the sweep
	RetentionDays int `toml:"retention_days"`

	Watch      WatchConfig            `toml:"watch"`
	Processing types.ProcessingConfig `toml:"processing"`
}

// WatchConfig configures the directory watcher
type WatchConfig struct {
	Directory  string   `toml:"directory"`
	Extensions []string `toml:"extensions"`
	DebounceMS int      `toml:"debounce_ms"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		DatabasePath:  defaultDatabasePath(),
		Listen:        ":8080",
		LogLevel:      "info",
		RetentionDays: 0,
		Watch: WatchConfig{
			Extensions: []string{"txt", "md", "pdf", "docx", "html"},
			DebounceMS: 500,
		},
		Processing: types.DefaultProcessingConfig(),
	}
}

// Load builds the configuration: defaults, then the TOML file at path
// (if it exists), then environment overrides. An empty path checks the
// default location (~/.textstitch/config.toml).
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = defaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// No file is fine; defaults plus environment apply
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Processing.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// applyEnv overlays TEXTSTITCH_* environment variables
func applyEnv(cfg *Config) {
	cfg.DatabasePath = getEnv("TEXTSTITCH_DB", cfg.DatabasePath)
	cfg.Listen = getEnv("TEXTSTITCH_LISTEN", cfg.Listen)
	cfg.LogLevel = getEnv("TEXTSTITCH_LOG_LEVEL", cfg.LogLevel)
	cfg.Watch.Directory = getEnv("TEXTSTITCH_WATCH_DIR", cfg.Watch.Directory)
	cfg.Processing.Tokenizer = getEnv("TEXTSTITCH_TOKENIZER", cfg.Processing.Tokenizer)
	cfg.RetentionDays = getEnvInt("TEXTSTITCH_RETENTION_DAYS", cfg.RetentionDays)

	if port := getEnv("PORT", ""); port != "" {
		cfg.Listen = ":" + port
	}
}

// getEnv reads an environment variable with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".textstitch", "config.toml")
}

func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "textstitch.db"
	}
	return filepath.Join(home, ".textstitch", "results.db")
}
