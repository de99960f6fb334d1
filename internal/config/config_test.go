package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected load to succeed, got %v", err)
	}

	if cfg.Port != "4000" {
		t.Fatalf("expected default port 4000, got %s", cfg.Port)
	}
	if cfg.Cache.TTL != 600*time.Second {
		t.Fatalf("expected default TTL 600s, got %v", cfg.Cache.TTL)
	}
	if cfg.Enrich.BatchSize != 4 || cfg.Enrich.Concurrency != 3 {
		t.Fatalf("unexpected enrich defaults: %+v", cfg.Enrich)
	}
	if cfg.Recap.RateLimit != 60 || cfg.Recap.RateWindow != time.Minute {
		t.Fatalf("unexpected recap defaults: %+v", cfg.Recap)
	}
	if len(cfg.Gemini.Models) != 3 || cfg.Gemini.Models[0] != "gemini-1.5-pro" {
		t.Fatalf("unexpected model chain: %v", cfg.Gemini.Models)
	}
	if cfg.StatsAPI.DetailConcurrency != 8 {
		t.Fatalf("unexpected detail concurrency: %d", cfg.StatsAPI.DetailConcurrency)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("GEMINI_MODELS", "gemini-1.5-flash")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected load to succeed, got %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected port override, got %s", cfg.Port)
	}
	if cfg.Cache.TTL != 30*time.Second {
		t.Fatalf("expected TTL override, got %v", cfg.Cache.TTL)
	}
	if len(cfg.Gemini.Models) != 1 || cfg.Gemini.Models[0] != "gemini-1.5-flash" {
		t.Fatalf("expected single model, got %v", cfg.Gemini.Models)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Fatalf("expected two origins, got %v", cfg.CORSOrigins)
	}
}
