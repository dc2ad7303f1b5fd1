package config_test

import (
	"testing"
	"time"

	"github.com/steelops/intake-api/internal/config"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	_, err := config.LoadForTests(map[string]string{
		"DATABASE_URL": "",
	})
	if err == nil {
		t.Fatal("expected error when DATABASE_URL is unset")
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"DATABASE_URL":     "postgres://localhost:5432/intake",
		"REDIS_URL":        "",
		"PORT":             "",
		"APP_ENV":          "",
		"REPORT_CACHE_TTL": "",
		"RATE_LIMIT":       "",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AppEnv != "development" {
		t.Fatalf("unexpected app env %q", cfg.AppEnv)
	}
	if cfg.HTTPAddr() != ":3001" {
		t.Fatalf("unexpected addr %q", cfg.HTTPAddr())
	}
	if cfg.RedisEnabled() {
		t.Fatal("redis should be disabled without REDIS_URL")
	}
	if cfg.ReportCacheTTL != 12*time.Hour {
		t.Fatalf("unexpected cache ttl %v", cfg.ReportCacheTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"DATABASE_URL":         "postgres://localhost:5432/intake",
		"REDIS_URL":            "redis://localhost:6379/0",
		"PORT":                 "8090",
		"CORS_ALLOWED_ORIGINS": "http://localhost:3000, https://intake.example.com",
		"REPORT_CACHE_TTL":     "30m",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr() != ":8090" {
		t.Fatalf("unexpected addr %q", cfg.HTTPAddr())
	}
	if !cfg.RedisEnabled() {
		t.Fatal("redis should be enabled")
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://intake.example.com" {
		t.Fatalf("unexpected origins %#v", cfg.CORSAllowedOrigins)
	}
	if cfg.ReportCacheTTL != 30*time.Minute {
		t.Fatalf("unexpected cache ttl %v", cfg.ReportCacheTTL)
	}
}
