package config

import "time"

// Config holds all application configuration, organized into logical
// groups. Every scheduling knob has a default; a bare environment can
// start the server with nothing but a database URL.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"  validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
	Session   SessionConfig   `mapstructure:"session"   validate:"required"`
	Assistant AssistantConfig `mapstructure:"assistant"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains database settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// SchedulerConfig contains the scheduling engine knobs.
type SchedulerConfig struct {
	// DesiredRetention is the target recall probability at review time.
	DesiredRetention float64 `mapstructure:"desired_retention" validate:"required,gt=0,lte=1"`

	// MaximumIntervalDays caps how far out a review can be scheduled.
	MaximumIntervalDays int `mapstructure:"maximum_interval_days" validate:"required,gt=0"`

	// EnableShortTerm toggles sub-day learning/relearning steps.
	EnableShortTerm bool `mapstructure:"enable_short_term"`
}

// SessionConfig contains study session settings.
type SessionConfig struct {
	// Minutes is the session time budget.
	Minutes int `mapstructure:"minutes" validate:"required,gt=0"`

	// CardsPerSession caps how many cards one session may contain.
	CardsPerSession int `mapstructure:"cards_per_session" validate:"required,gt=0"`

	// SweepInterval is how often the expiry sweeper closes overrun sessions.
	SweepInterval time.Duration `mapstructure:"sweep_interval" validate:"required"`
}

// AssistantConfig contains settings for the optional tutor assistant.
// An empty API key disables the assistant endpoint.
type AssistantConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	Model        string `mapstructure:"model"`
}

// Length returns the session time budget as a duration.
func (c SessionConfig) Length() time.Duration {
	return time.Duration(c.Minutes) * time.Minute
}
