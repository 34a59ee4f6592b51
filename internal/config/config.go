// Package config loads the optional config.toml from the belajar base
// directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultLogLevel       = "warn"
	DefaultChartWidth     = 40
	DefaultSessionMinutes = 30
)

// ErrInvalidConfig wraps decode and value errors from config.toml.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds user preferences. Zero values are replaced by defaults.
type Config struct {
	// ExportDir is where exports land when --output is not given. Empty means
	// the working directory.
	ExportDir      string `toml:"export_dir"`
	LogLevel       string `toml:"log_level"`
	ChartWidth     int    `toml:"chart_width"`
	DefaultMinutes int    `toml:"default_minutes"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:       DefaultLogLevel,
		ChartWidth:     DefaultChartWidth,
		DefaultMinutes: DefaultSessionMinutes,
	}
}

// Load reads path. A missing file yields Default; a file that fails to decode
// or holds out-of-range values is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("stat config: %w", err)
	}

	var fileCfg Config
	meta, err := toml.DecodeFile(path, &fileCfg)
	if err != nil {
		return cfg, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("%w: %s: unknown key %q", ErrInvalidConfig, path, undecoded[0].String())
	}

	cfg.merge(fileCfg)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	return cfg, nil
}

func (c *Config) merge(other Config) {
	if v := strings.TrimSpace(other.ExportDir); v != "" {
		c.ExportDir = v
	}
	if v := strings.TrimSpace(other.LogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if other.ChartWidth != 0 {
		c.ChartWidth = other.ChartWidth
	}
	if other.DefaultMinutes != 0 {
		c.DefaultMinutes = other.DefaultMinutes
	}
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	if c.ChartWidth < 10 || c.ChartWidth > 200 {
		return fmt.Errorf("chart_width must be between 10 and 200, got %d", c.ChartWidth)
	}
	if c.DefaultMinutes < 1 {
		return fmt.Errorf("default_minutes must be positive, got %d", c.DefaultMinutes)
	}
	return nil
}
