// Package config loads the application configuration from file and
// environment with sensible defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// ErrConfigNotFound is returned when an explicitly named config file
// does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Builder BuilderConfig `mapstructure:"builder"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig represents HTTP server settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// StorageConfig represents persistence settings. An empty path keeps
// everything in memory.
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// BuilderConfig represents builder session settings.
type BuilderConfig struct {
	AutosaveInterval time.Duration `mapstructure:"autosave_interval"`
	DefaultTheme     string        `mapstructure:"default_theme"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		Storage: StorageConfig{
			Path: "formbuilder.db",
		},
		Builder: BuilderConfig{
			AutosaveInterval: 5 * time.Second,
			DefaultTheme:     "light",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the given file, falling back to
// defaults plus environment overrides when no file is named.
func Load(configFile string) (*Config, error) {
	config := DefaultConfig()

	v := viper.New()
	v.SetConfigName("formbuilder")
	v.SetConfigType("yaml")

	if configFile != "" {
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("FORMBUILDER")
	v.AutomaticEnv()
	_ = v.BindEnv("server.addr", "FORMBUILDER_ADDR")
	_ = v.BindEnv("storage.path", "FORMBUILDER_DB")
	_ = v.BindEnv("builder.default_theme", "FORMBUILDER_THEME")
	_ = v.BindEnv("logging.level", "FORMBUILDER_LOG_LEVEL")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		// No file in the search path; defaults and env apply.
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if config.Builder.AutosaveInterval <= 0 {
		config.Builder.AutosaveInterval = 5 * time.Second
	}
	if config.Builder.DefaultTheme != "light" && config.Builder.DefaultTheme != "dark" {
		return nil, fmt.Errorf("unknown default theme %q", config.Builder.DefaultTheme)
	}

	return config, nil
}
