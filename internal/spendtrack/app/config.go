package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Secret string // Required: HMAC signing secret, at least 32 bytes
	Issuer string // Optional: issuer claim for tokens (default: spendtrack)

	TokenTTL            time.Duration // Optional: access token lifetime (default: 10h)
	DatabaseFile        string        // Optional: path to SQLite database file (default: ./spendtrack.db)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		Secret:              os.Getenv("SPENDTRACK_SECRET"),
		Issuer:              getEnvOrDefault("SPENDTRACK_ISSUER", "spendtrack"),
		TokenTTL:            getEnvDurationOrDefault("SPENDTRACK_TOKEN_TTL", 10*time.Hour),
		DatabaseFile:        getEnvOrDefault("SPENDTRACK_DATABASE_FILE", "spendtrack.db"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
