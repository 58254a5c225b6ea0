// Package config provides configuration loading, validation, and management
// for the jobscout application. It handles reading from YAML files,
// environment variable overrides, default values, and validation.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// LoadConfig loads and validates configuration from:
// 1. Default values
// 2. The YAML file at configPath
// 3. JOBSCOUT_* environment variables
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("JOBSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Allow missing config file; env and defaults may be enough. With an
	// explicit config file path a missing file surfaces as fs.ErrNotExist,
	// not as viper's not-found error.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)

	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("gemini.temperature", 0.1)
	v.SetDefault("gemini.timeout", 60*time.Second)

	v.SetDefault("filter.min_score", 0.4)
	v.SetDefault("filter.recommendations", []string{"apply", "consider"})
	v.SetDefault("filter.max_results", 10)

	v.SetDefault("schedule.interval_hours", 6)
	v.SetDefault("schedule.lookback_hours", 24)

	v.SetDefault("database.path", "jobscout.db")
	v.SetDefault("profile.resume_path", "resume.json")
}
