package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables use the
// HANZI_ prefix with underscores for nesting (HANZI_SERVER_PORT,
// HANZI_DATABASE_URL, ...) and take precedence over file values.
// Returns a validated Config or an error.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars and defaults cover it.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("HANZI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv does not make Unmarshal see env-only keys, so bind
	// each known key explicitly.
	for _, key := range []string{
		"server.port",
		"server.log_level",
		"database.url",
		"scheduler.desired_retention",
		"scheduler.maximum_interval_days",
		"scheduler.enable_short_term",
		"session.minutes",
		"session.cards_per_session",
		"session.sweep_interval",
		"assistant.gemini_api_key",
		"assistant.model",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers the default value for every setting that has one.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("scheduler.desired_retention", 0.92)
	v.SetDefault("scheduler.maximum_interval_days", 365)
	v.SetDefault("scheduler.enable_short_term", true)
	v.SetDefault("session.minutes", 30)
	v.SetDefault("session.cards_per_session", 50)
	v.SetDefault("session.sweep_interval", "15s")
	v.SetDefault("assistant.model", "gemini-2.0-flash")
}
