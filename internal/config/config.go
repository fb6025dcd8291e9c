package config

import (
	"os"
	"strconv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort          int
	DatabasePath        string
	MaintenanceSchedule string // Cron expression for the store maintenance worker
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:          port,
		DatabasePath:        getEnv("DATABASE_PATH", "./warbler.db"),
		MaintenanceSchedule: getEnv("MAINTENANCE_SCHEDULE", "@hourly"),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
