package config

import (
	"os"
	"strconv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort     int
	DataDir        string // Directory for the JSON collection files
	UploadDir      string // Directory for stored cover images
	SweepSchedule  string // Cron expression for the orphaned-upload sweeper
	MaxUploadBytes int64  // Multipart form memory/size limit
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	maxUploadStr := getEnv("MAX_UPLOAD_BYTES", "5242880") // 5 MiB
	maxUpload, err := strconv.ParseInt(maxUploadStr, 10, 64)
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:     port,
		DataDir:        getEnv("DATA_DIR", "./data"),
		UploadDir:      getEnv("UPLOAD_DIR", "./public/uploads"),
		SweepSchedule:  getEnv("SWEEP_SCHEDULE", "@hourly"),
		MaxUploadBytes: maxUpload,
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
