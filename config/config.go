package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration values. It is constructed once at process
// start and handed to the components that need it.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Storage. When DATABASE_URL is blank the in-memory appointment store
	// is used instead of Mongo.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`
	SeedCalendar bool   `mapstructure:"SEED_CALENDAR"`

	// Redis configuration.
	RedisAddr       string `mapstructure:"REDIS_ADDR"`
	RedisPassword   string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB  int    `mapstructure:"REDIS_SESSION_DB"`
	RedisReminderDB int    `mapstructure:"REDIS_REMINDER_DB"`

	// Conversation session lifetime in the session store.
	SessionTTLMinutes int `mapstructure:"SESSION_TTL_MINUTES"`

	// Calendar business rules.
	DefaultDurationMinutes int `mapstructure:"DEFAULT_MEETING_DURATION"`
	BusinessStartHour      int `mapstructure:"BUSINESS_HOURS_START"`
	BusinessEndHour        int `mapstructure:"BUSINESS_HOURS_END"`
	EveningEndHour         int `mapstructure:"EVENING_END_HOUR"`
	SlotIntervalMinutes    int `mapstructure:"SLOT_INTERVAL_MINUTES"`
	MaxSuggestedSlots      int `mapstructure:"MAX_SUGGESTED_SLOTS"`

	// Reminders.
	ReminderLeadMinutes int `mapstructure:"REMINDER_LEAD_MINUTES"`
}

// Load reads configuration from config.yaml (if present) and the environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DATABASE_NAME", "calendra")
	v.SetDefault("SEED_CALENDAR", true)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_SESSION_DB", 0)
	v.SetDefault("REDIS_REMINDER_DB", 1)
	v.SetDefault("SESSION_TTL_MINUTES", 30)
	v.SetDefault("DEFAULT_MEETING_DURATION", 60)
	v.SetDefault("BUSINESS_HOURS_START", 9)
	v.SetDefault("BUSINESS_HOURS_END", 17)
	v.SetDefault("EVENING_END_HOUR", 20)
	v.SetDefault("SLOT_INTERVAL_MINUTES", 30)
	v.SetDefault("MAX_SUGGESTED_SLOTS", 8)
	v.SetDefault("REMINDER_LEAD_MINUTES", 15)

	// A missing config file is fine; environment variables cover everything.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.BusinessStartHour >= cfg.BusinessEndHour {
		return nil, fmt.Errorf("invalid business hours: start %d >= end %d", cfg.BusinessStartHour, cfg.BusinessEndHour)
	}
	return &cfg, nil
}

// IsProduction reports whether the service runs in the production environment.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
