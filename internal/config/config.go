// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration. It is loaded once at startup
// and treated as immutable for the process lifetime; no concurrency
// discipline is needed for reading it.
type Config struct {
	DataDir           string        // Base directory for the database (always absolute)
	AdvisorServiceURL string        // Base address of the AI advisory backend (required)
	AdvisorTimeout    time.Duration // Per-call timeout for advisory requests
	LogLevel          string
	Port              int
	DevMode           bool
	HistoryTTL        time.Duration // How long generated advice records are kept
	CleanupSchedule   string        // Cron schedule for the history cleanup job
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("ADVISOR_DATA_DIR", "./data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:           absDataDir,
		AdvisorServiceURL: getEnv("ADVISOR_SERVICE_URL", ""),
		AdvisorTimeout:    getEnvAsDuration("ADVISOR_TIMEOUT", 30*time.Second),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		Port:              getEnvAsInt("PORT", 8080),
		DevMode:           getEnvAsBool("DEV_MODE", false),
		HistoryTTL:        getEnvAsDuration("ADVICE_HISTORY_TTL", 90*24*time.Hour),
		CleanupSchedule:   getEnv("HISTORY_CLEANUP_SCHEDULE", "@daily"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present. The advisory
// backend address has no sensible default: a deployment without it is
// broken, so loading fails fast instead of deferring to call time.
func (c *Config) Validate() error {
	if c.AdvisorServiceURL == "" {
		return fmt.Errorf("ADVISOR_SERVICE_URL is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT %d is out of range", c.Port)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
