package config

import "time"

// Config defines the application configuration parameters for all components
// of the jobscout system, including logging, Telegram access, AI integration,
// vacancy filtering, scheduling, and database settings.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Gemini   GeminiConfig   `mapstructure:"gemini"`
	Filter   FilterConfig   `mapstructure:"filter"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Database DatabaseConfig `mapstructure:"database"`
	Profile  ProfileConfig  `mapstructure:"profile"`
}

// LogConfig controls log verbosity and output format.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds Telegram credentials and delivery settings.
// ChannelIDs optionally pins monitoring to an explicit set of channels;
// when empty, channels are auto-selected by title keywords.
type TelegramConfig struct {
	Token      string  `mapstructure:"token"       validate:"required"`
	TargetUser int64   `mapstructure:"target_user" validate:"required,gt=0"`
	ChannelIDs []int64 `mapstructure:"channel_ids"`
}

// GeminiConfig holds settings for the Gemini inference backend.
type GeminiConfig struct {
	APIKey      string        `mapstructure:"api_key"     validate:"required"`
	Model       string        `mapstructure:"model"       validate:"required"`
	Temperature float32       `mapstructure:"temperature" validate:"min=0,max=2"`
	Timeout     time.Duration `mapstructure:"timeout"     validate:"min=30s,max=10m"`
}

// FilterConfig controls ranking thresholds applied to classifier output.
type FilterConfig struct {
	MinScore        float64  `mapstructure:"min_score"       validate:"min=0,max=1"`
	Recommendations []string `mapstructure:"recommendations" validate:"min=1"`
	MaxResults      int      `mapstructure:"max_results"     validate:"gt=0"`
}

// ScheduleConfig controls the periodic check cycle and quiet hours.
// QuietStart and QuietEnd are local times in "HH:MM" format; leaving them
// empty disables quiet hours entirely.
type ScheduleConfig struct {
	IntervalHours int    `mapstructure:"interval_hours" validate:"gt=0"`
	LookbackHours int    `mapstructure:"lookback_hours" validate:"gt=0"`
	QuietStart    string `mapstructure:"quiet_start"`
	QuietEnd      string `mapstructure:"quiet_end"`
}

// DatabaseConfig holds the SQLite database location.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// ProfileConfig holds paths for the resume profile document and the
// optional classifier prompt template.
type ProfileConfig struct {
	ResumePath string `mapstructure:"resume_path" validate:"required"`
	PromptPath string `mapstructure:"prompt_path"`
}
