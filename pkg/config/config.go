// Package config loads application configuration from the environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string
	UserID   string

	// Database. Empty selects zero-config local SQLite mode.
	DatabaseURL string
	SQLitePath  string

	// Redis (dashboard cache, optional)
	RedisURL string

	// RabbitMQ (event publishing, optional in local mode)
	RabbitMQURL string

	// Sessions
	DefaultSessionMinutes int
	TimerTickInterval     time.Duration

	// Worker
	WorkerQueueName string
}

// Load loads configuration from environment variables. A .env file in the
// working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		UserID:   getEnv("FOCUSFLOW_USER_ID", "00000000-0000-0000-0000-000000000001"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		SQLitePath:  getEnv("FOCUSFLOW_DB_PATH", defaultSQLitePath()),

		RedisURL:    getEnv("REDIS_URL", ""),
		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		DefaultSessionMinutes: getIntEnv("FOCUSFLOW_DEFAULT_MINUTES", 25),
		TimerTickInterval:     getDurationEnv("FOCUSFLOW_TIMER_TICK", time.Second),

		WorkerQueueName: getEnv("FOCUSFLOW_WORKER_QUEUE", "focusflow.worker"),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func defaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "focusflow.db"
	}
	return filepath.Join(home, ".focusflow", "focusflow.db")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
