package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the CleanSched server.
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	HolidayFeed HolidayFeedConfig
	Notifier    NotifierConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL string
}

type HolidayFeedConfig struct {
	BaseURL     string
	CountryCode string
	Timeout     time.Duration
}

// NotifierConfig points at the external notification service. An empty
// WebhookURL disables delivery; the server falls back to a no-op notifier.
type NotifierConfig struct {
	WebhookURL string
	Timeout    time.Duration
}

// Load reads configuration from environment variables and returns a validated Config.
// Returns an error with a descriptive message if any required value is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("CLEANSCHED_PORT", 8080),
			Env:  envString("CLEANSCHED_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		HolidayFeed: HolidayFeedConfig{
			BaseURL:     envString("HOLIDAY_FEED_BASE_URL", "https://date.nager.at"),
			CountryCode: envString("HOLIDAY_COUNTRY_CODE", "US"),
			Timeout:     envDuration("HOLIDAY_FEED_TIMEOUT", 10*time.Second),
		},
		Notifier: NotifierConfig{
			WebhookURL: os.Getenv("NOTIFIER_WEBHOOK_URL"),
			Timeout:    envDuration("NOTIFIER_TIMEOUT", 15*time.Second),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if !strings.HasPrefix(c.HolidayFeed.BaseURL, "http://") && !strings.HasPrefix(c.HolidayFeed.BaseURL, "https://") {
		return fmt.Errorf("HOLIDAY_FEED_BASE_URL must start with http:// or https://, got %q", c.HolidayFeed.BaseURL)
	}
	if len(c.HolidayFeed.CountryCode) != 2 {
		return fmt.Errorf("HOLIDAY_COUNTRY_CODE must be a two-letter code, got %q", c.HolidayFeed.CountryCode)
	}

	if c.Notifier.WebhookURL != "" &&
		!strings.HasPrefix(c.Notifier.WebhookURL, "http://") && !strings.HasPrefix(c.Notifier.WebhookURL, "https://") {
		return fmt.Errorf("NOTIFIER_WEBHOOK_URL must start with http:// or https://, got %q", c.Notifier.WebhookURL)
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
