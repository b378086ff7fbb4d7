// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full set of knobs the service reads at startup.
type Config struct {
	Port            string
	RunLocal        bool
	BaseURL         string // base for shareable links; empty derives from the request
	QRCodesTable    string
	EventsQueueURL  string // empty disables event publishing
	CORSOrigin      string
	RateLimitWindow time.Duration
	RateLimitMax    int
	Environment     string
}

// Load reads configuration once at startup. A missing .env file is fine;
// real deployments set environment variables directly.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:            getEnv("PORT", "8080"),
		RunLocal:        os.Getenv("RUN_LOCAL") == "true",
		BaseURL:         os.Getenv("BASE_URL"),
		QRCodesTable:    getEnv("QRCODES_TABLE", "qrcodes"),
		EventsQueueURL:  os.Getenv("QRCODE_EVENTS_QUEUE_URL"),
		CORSOrigin:      getEnv("CORS_ORIGIN", "*"),
		RateLimitWindow: time.Duration(getEnvInt("RATE_LIMIT_WINDOW_MS", 900000)) * time.Millisecond,
		RateLimitMax:    getEnvInt("RATE_LIMIT_MAX_REQUESTS", 100),
		Environment:     getEnv("APP_ENV", "development"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
