// Package common provides shared utilities for League
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for League
type Config struct {
	Environment string         `toml:"environment"`
	Server      ServerConfig   `toml:"server"`
	Storage     StorageConfig  `toml:"storage"`
	Recorder    RecorderConfig `toml:"recorder"`
	Chart       ChartConfig    `toml:"chart"`
	Logging     LoggingConfig  `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig selects and configures the storage backend.
type StorageConfig struct {
	Backend   string `toml:"backend"` // "surrealdb" (default) or "memory"
	Address   string `toml:"address"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
}

// RecorderConfig controls the periodic snapshot recorder.
type RecorderConfig struct {
	Enabled    bool   `toml:"enabled"`
	Interval   string `toml:"interval"`    // how often every group is recorded
	MinSpacing string `toml:"min_spacing"` // minimum gap between two recordings of one group
}

// GetInterval parses and returns the recording interval
func (c *RecorderConfig) GetInterval() time.Duration {
	d, err := time.ParseDuration(c.Interval)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}

// GetMinSpacing parses and returns the per-group throttle spacing
func (c *RecorderConfig) GetMinSpacing() time.Duration {
	d, err := time.ParseDuration(c.MinSpacing)
	if err != nil || d < 0 {
		return time.Minute
	}
	return d
}

// ChartConfig holds PNG chart dimensions
type ChartConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "text" or "json"
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Backend:   "surrealdb",
			Address:   "ws://localhost:8000/rpc",
			Username:  "root",
			Password:  "root",
			Namespace: "league",
			Database:  "league",
		},
		Recorder: RecorderConfig{
			Enabled:    true,
			Interval:   "15m",
			MinSpacing: "1m",
		},
		Chart: ChartConfig{
			Width:  900,
			Height: 400,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Later files override earlier ones
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("LEAGUE_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("LEAGUE_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("LEAGUE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("LEAGUE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if backend := os.Getenv("LEAGUE_STORAGE_BACKEND"); backend != "" {
		config.Storage.Backend = strings.ToLower(backend)
	}

	if addr := os.Getenv("LEAGUE_STORAGE_ADDRESS"); addr != "" {
		config.Storage.Address = addr
	}

	if interval := os.Getenv("LEAGUE_RECORDER_INTERVAL"); interval != "" {
		config.Recorder.Interval = interval
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
