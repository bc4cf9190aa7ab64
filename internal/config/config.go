package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	BlueprintsDir string `mapstructure:"blueprints_dir"`
	TargetsDir    string `mapstructure:"targets_dir"`
	// RunsDB is a SQLite path or a postgres:// URL.
	RunsDB      string `mapstructure:"runs_db"`
	LogLevel    string `mapstructure:"log_level"`
	DefaultMode string `mapstructure:"default_mode"`
	BatchSize   int    `mapstructure:"batch_size"`
}

var defaults = map[string]interface{}{
	"blueprints_dir": "./blueprints",
	"targets_dir":    "./targets",
	"runs_db":        "./sdstats-runs.sqlite",
	"log_level":      "info",
	"default_mode":   "create",
	"batch_size":     1000,
}

// Load reads, lowest precedence first: defaults, the config file (path, or
// sdstats.yaml in the working directory when path is empty), and SDSTATS_*
// environment variables. A .env file in the working directory is loaded
// into the environment first without overriding variables already set.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix("SDSTATS")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("sdstats")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.DefaultMode {
	case "create", "truncate", "append":
	default:
		return fmt.Errorf("invalid default_mode: %s", c.DefaultMode)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be > 0, got %d", c.BatchSize)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}
	return nil
}
