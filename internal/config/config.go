package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // DISPLAY_TIMEZONE must resolve on hosts without a zoneinfo database

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Storage backends accepted by STORE_BACKEND.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// DefaultFeedURL is the Environment Agency endpoint listing current flood warnings.
const DefaultFeedURL = "https://environment.data.gov.uk/flood-monitoring/id/floods"

// Config holds all service settings, populated from environment variables.
type Config struct {
	FeedURL     string
	FeedTimeout time.Duration

	// CacheTTL is both the snapshot validity window and the refresh interval.
	CacheTTL time.Duration

	StoreBackend string
	StorePath    string

	DisplayTimezone *time.Location

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Kafka publishing is disabled when no brokers are configured.
	KafkaBrokers []string
	KafkaTopic   string
}

// KafkaEnabled reports whether refreshed records should be published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	feedTimeout, err := parsePositiveDuration("FLOOD_FEED_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	cacheTTL, err := parsePositiveDuration("CACHE_TTL", "30m")
	if err != nil {
		return nil, err
	}

	tzName := sharedcfg.EnvOrDefault("DISPLAY_TIMEZONE", "Europe/London")
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_TIMEZONE %q: %w", tzName, err)
	}

	cfg := &Config{
		FeedURL:         sharedcfg.EnvOrDefault("FLOOD_FEED_URL", DefaultFeedURL),
		FeedTimeout:     feedTimeout,
		CacheTTL:        cacheTTL,
		StoreBackend:    strings.ToLower(sharedcfg.EnvOrDefault("STORE_BACKEND", StoreSQLite)),
		StorePath:       sharedcfg.EnvOrDefault("STORE_PATH", "flood-monitor.db"),
		DisplayTimezone: tz,
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		KafkaBrokers:    sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "")),
		KafkaTopic:      sharedcfg.EnvOrDefault("KAFKA_TOPIC", "flood-warnings"),
	}

	if cfg.FeedURL == "" {
		return nil, errors.New("FLOOD_FEED_URL is required")
	}
	switch cfg.StoreBackend {
	case StoreMemory:
	case StoreSQLite:
		if cfg.StorePath == "" {
			return nil, errors.New("STORE_PATH is required for the sqlite backend")
		}
	default:
		return nil, fmt.Errorf("invalid STORE_BACKEND %q: want %q or %q", cfg.StoreBackend, StoreMemory, StoreSQLite)
	}
	if cfg.KafkaEnabled() && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}
