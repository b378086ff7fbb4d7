package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "RUN_LOCAL", "BASE_URL", "QRCODES_TABLE", "QRCODE_EVENTS_QUEUE_URL",
		"CORS_ORIGIN", "RATE_LIMIT_WINDOW_MS", "RATE_LIMIT_MAX_REQUESTS", "APP_ENV",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("port: %s", cfg.Port)
	}
	if cfg.RunLocal {
		t.Fatal("run_local should default off")
	}
	if cfg.QRCodesTable != "qrcodes" {
		t.Fatalf("table: %s", cfg.QRCodesTable)
	}
	if cfg.CORSOrigin != "*" {
		t.Fatalf("cors origin: %s", cfg.CORSOrigin)
	}
	if cfg.RateLimitWindow != 15*time.Minute {
		t.Fatalf("window: %v", cfg.RateLimitWindow)
	}
	if cfg.RateLimitMax != 100 {
		t.Fatalf("max: %d", cfg.RateLimitMax)
	}
	if cfg.Environment != "development" {
		t.Fatalf("environment: %s", cfg.Environment)
	}
	if cfg.BaseURL != "" || cfg.EventsQueueURL != "" {
		t.Fatal("optional values should default empty")
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("RUN_LOCAL", "true")
	t.Setenv("BASE_URL", "https://qr.example.com")
	t.Setenv("QRCODES_TABLE", "qrcodes-prod")
	t.Setenv("QRCODE_EVENTS_QUEUE_URL", "https://sqs.us-east-1.amazonaws.com/123/qr-events")
	t.Setenv("CORS_ORIGIN", "https://app.example.com")
	t.Setenv("RATE_LIMIT_WINDOW_MS", "60000")
	t.Setenv("RATE_LIMIT_MAX_REQUESTS", "20")
	t.Setenv("APP_ENV", "production")

	cfg := Load()
	if cfg.Port != "9090" || !cfg.RunLocal || cfg.BaseURL != "https://qr.example.com" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.QRCodesTable != "qrcodes-prod" || cfg.EventsQueueURL == "" {
		t.Fatalf("store overrides not applied: %+v", cfg)
	}
	if cfg.RateLimitWindow != time.Minute || cfg.RateLimitMax != 20 {
		t.Fatalf("rate limit overrides not applied: %+v", cfg)
	}
	if cfg.Environment != "production" {
		t.Fatalf("environment: %s", cfg.Environment)
	}
}

func TestLoad_BadIntFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("RATE_LIMIT_MAX_REQUESTS", "not-a-number")
	t.Setenv("RATE_LIMIT_WINDOW_MS", "-5")

	cfg := Load()
	if cfg.RateLimitMax != 100 {
		t.Fatalf("expected fallback 100, got %d", cfg.RateLimitMax)
	}
	if cfg.RateLimitWindow != 15*time.Minute {
		t.Fatalf("expected fallback window, got %v", cfg.RateLimitWindow)
	}
}
