// Package config loads tinyc settings from TOML or YAML files
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/raymyers/tinyc/pkg/interp"
	"github.com/raymyers/tinyc/pkg/logger"
)

// EnvVar names the environment variable LoadFromEnv reads
const EnvVar = "TINYC_CONFIG"

// Config holds the complete tool configuration
type Config struct {
	// Division is "floor" or "trunc"
	Division string `toml:"division" yaml:"division"`
	// MaxCallDepth bounds recursion; 0 means unbounded
	MaxCallDepth int       `toml:"max_call_depth" yaml:"max_call_depth"`
	Log          LogConfig `toml:"log" yaml:"log"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Division:     interp.DivFloor.String(),
		MaxCallDepth: interp.DefaultMaxDepth,
		Log: LogConfig{
			Level:  logger.LevelWarn.String(),
			Format: "text",
		},
	}
}

// Load reads a configuration file. The decoder is chosen by extension:
// .toml, or .yaml/.yml. Keys missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (want .toml, .yaml or .yml)", ext)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromEnv loads the file named by TINYC_CONFIG, or returns the
// defaults when the variable is unset
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// applyDefaults fills values a file set to empty
func (c *Config) applyDefaults() {
	if c.Division == "" {
		c.Division = interp.DivFloor.String()
	}
	if c.Log.Level == "" {
		c.Log.Level = logger.LevelWarn.String()
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate rejects values the interpreter or logger cannot use
func (c *Config) Validate() error {
	if _, err := interp.ParseDivision(c.Division); err != nil {
		return err
	}
	if c.MaxCallDepth < 0 {
		return fmt.Errorf("max_call_depth must not be negative, got %d", c.MaxCallDepth)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("unknown log format %q (want text or json)", c.Log.Format)
	}
	return nil
}

// InterpOptions translates the configuration into interpreter options
func (c *Config) InterpOptions() ([]interp.Option, error) {
	div, err := interp.ParseDivision(c.Division)
	if err != nil {
		return nil, err
	}
	return []interp.Option{interp.WithDivision(div), interp.WithMaxDepth(c.MaxCallDepth)}, nil
}

// LoggerConfig translates the log section into a logger configuration
func (c *Config) LoggerConfig() (logger.Config, error) {
	level, err := logger.ParseLevel(c.Log.Level)
	if err != nil {
		return logger.Config{}, err
	}
	cfg := logger.DefaultConfig()
	cfg.Level = level
	cfg.Format = c.Log.Format
	return cfg, nil
}
