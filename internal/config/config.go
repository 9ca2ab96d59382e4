package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds runtime configuration parsed from environment variables.
// DB, Redis and AMQP are optional collaborators: an empty value means the
// service runs without that mirror.
type Config struct {
	HTTPAddr        string
	DBConnString    string
	RedisURL        string
	AMQPURL         string
	MenuPath        string
	SessionTTL      time.Duration
	ShutdownTimeout time.Duration
}

// FromEnv builds Config with defaults, overridden by environment variables.
func FromEnv() Config {
	return Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		DBConnString:    envOrDefault("DB_DSN", ""),
		RedisURL:        envOrDefault("REDIS_URL", ""),
		AMQPURL:         envOrDefault("AMQP_URL", ""),
		MenuPath:        envOrDefault("MENU_PATH", ""),
		SessionTTL:      envDuration("SESSION_TTL_SECONDS", 30*time.Minute),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		seconds, err := strconv.Atoi(v)
		if err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return def
}
