package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the trainmap client
type Config struct {
	// Snapshot stream
	StreamURL      string
	ReconnectDelay time.Duration

	// Stop catalog: HTTP URL or local file path
	StopsSource string

	// Rendering
	TargetFPS int

	// Logging (the terminal is the display surface, so logs go to a file)
	LogDir   string
	LogLevel string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is honored when present.
func Load() *Config {
	_ = godotenv.Load(".env")

	return &Config{
		StreamURL:      getEnv("TRAINMAP_STREAM_URL", "http://localhost:8000/api/trains/stream"),
		ReconnectDelay: time.Duration(getEnvInt("TRAINMAP_RECONNECT_SEC", 3)) * time.Second,
		StopsSource:    getEnv("TRAINMAP_STOPS_SOURCE", "http://localhost:8000/api/stops.csv"),
		TargetFPS:      getEnvInt("TRAINMAP_FPS", 60),
		LogDir:         getEnv("TRAINMAP_LOG_DIR", ""),
		LogLevel:       getEnv("TRAINMAP_LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
