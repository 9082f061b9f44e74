// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything the server binary needs to start.
type Config struct {
	// HTTPAddr is the listen address of the API server.
	HTTPAddr string
	// BaseURL is the externally visible URL used to build resource URLs in
	// notifications.
	BaseURL string
	// DatabaseURL is the PostgreSQL connection string. Empty selects the
	// in-memory store (development only).
	DatabaseURL string

	// RedisAddr enables the published-type read cache when set.
	RedisAddr     string
	RedisPassword string

	// KafkaBrokers enables the Kafka audit sink when set. Without brokers
	// audit events go to the structured log.
	KafkaBrokers []string
	AuditTopic   string

	// Notification service settings.
	NotificationsURL      string
	NotificationsClientID string
	NotificationsSecret   string

	// FailedNotificationRetention bounds how long undelivered payloads stay
	// in the ledger.
	FailedNotificationRetention time.Duration

	LogLevel string
}

// FromEnv reads configuration, applying defaults where the variable is unset.
func FromEnv() (Config, error) {
	cfg := Config{
		HTTPAddr:                    envOr("HTTP_ADDR", ":8080"),
		BaseURL:                     envOr("BASE_URL", "http://localhost:8080"),
		DatabaseURL:                 os.Getenv("DATABASE_URL"),
		RedisAddr:                   os.Getenv("REDIS_ADDR"),
		RedisPassword:               os.Getenv("REDIS_PASSWORD"),
		AuditTopic:                  envOr("AUDIT_TOPIC", "catalogi.audit"),
		NotificationsURL:            os.Getenv("NOTIFICATIONS_URL"),
		NotificationsClientID:       envOr("NOTIFICATIONS_CLIENT_ID", "opencatalogi"),
		NotificationsSecret:         os.Getenv("NOTIFICATIONS_SECRET"),
		FailedNotificationRetention: 7 * 24 * time.Hour,
		LogLevel:                    envOr("LOG_LEVEL", "info"),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	if raw := os.Getenv("FAILED_NOTIFICATION_RETENTION_DAYS"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 1 {
			return Config{}, fmt.Errorf("FAILED_NOTIFICATION_RETENTION_DAYS must be a positive integer, got %q", raw)
		}
		cfg.FailedNotificationRetention = time.Duration(days) * 24 * time.Hour
	}

	if cfg.NotificationsURL != "" && cfg.NotificationsSecret == "" {
		return Config{}, fmt.Errorf("NOTIFICATIONS_SECRET is required when NOTIFICATIONS_URL is set")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
