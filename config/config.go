/*
Package config loads application configuration.

PURPOSE:
  One Config struct for the whole binary, loaded with viper from an optional
  config file plus FMLA_-prefixed environment variables. Flags in main may
  override individual fields after loading.

PRECEDENCE (highest wins):
  1. Command-line flags (applied by main)
  2. Environment variables (FMLA_SERVER_PORT, FMLA_STORAGE_BACKEND, ...)
  3. Config file (fmla.yaml in ., ./config, or /etc/fmla)
  4. Defaults below
*/
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port        int      `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// StorageConfig selects and parameterizes the persistence backend.
type StorageConfig struct {
	// Backend is "sqlite", "json", or "memory".
	Backend string `mapstructure:"backend"`

	// DBPath is the SQLite database path (":memory:" allowed).
	DBPath string `mapstructure:"db_path"`

	// DataFile is the JSON data file path for the json backend.
	DataFile string `mapstructure:"data_file"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string `mapstructure:"level"`

	// Format is "json" or "console".
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("storage.backend", "sqlite")
	v.SetDefault("storage.db_path", "fmla.db")
	v.SetDefault("storage.data_file", "fmla_data.json")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetConfigName("fmla")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/fmla")

	v.SetEnvPrefix("FMLA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; everything has a default.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case "sqlite", "json", "memory":
	default:
		return fmt.Errorf("unknown storage backend %q (want sqlite, json, or memory)", c.Storage.Backend)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}
