// Package config loads the settings used to create the process container.
//
// Values come from the environment, optionally seeded from .env files, or
// from a yaml file with environment overrides applied on top.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/ARTM2000/grove"
)

// Environment variables read by [Load] and [LoadFile].
const (
	EnvContainerName = "GROVE_CONTAINER_NAME"
	EnvLogLevel      = "GROVE_LOG_LEVEL"
	EnvDebug         = "GROVE_DEBUG"
	EnvMetrics       = "GROVE_METRICS"
)

// DefaultContainerName is used when no name is configured.
const DefaultContainerName = "grove"

// Config holds container settings.
type Config struct {
	ContainerName string `yaml:"container_name"`
	LogLevel      string `yaml:"log_level"`
	Debug         bool   `yaml:"debug"`
	Metrics       bool   `yaml:"metrics"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ContainerName: DefaultContainerName,
		LogLevel:      "info",
	}
}

// Load reads envFiles (default ".env", missing files are ignored) into the
// environment and builds a Config from it. Variables already set in the
// environment win over file values.
func Load(envFiles ...string) (*Config, error) {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := Default()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads a yaml config file if present and applies environment
// overrides. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvContainerName); v != "" {
		c.ContainerName = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}

	var err error
	if c.Debug, err = envBool(EnvDebug, c.Debug); err != nil {
		return err
	}
	if c.Metrics, err = envBool(EnvMetrics, c.Metrics); err != nil {
		return err
	}
	return nil
}

// Validate reports whether the configuration can create a container.
func (c *Config) Validate() error {
	if c.ContainerName == "" {
		return fmt.Errorf("%w: container name cannot be empty", grove.ErrConfiguration)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q: %v", grove.ErrConfiguration, c.LogLevel, err)
	}
	return nil
}

// NewLogger builds a zap logger for the configured level. Debug selects the
// development encoder.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: log level %q: %v", grove.ErrConfiguration, c.LogLevel, err)
	}

	zc := zap.NewProductionConfig()
	if c.Debug {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build()
}

func envBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("%w: %s=%q is not a boolean", grove.ErrConfiguration, key, v)
	}
	return b, nil
}
