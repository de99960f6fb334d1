package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime configuration for the server.
type Config struct {
	Port        string   `env:"PORT" envDefault:"4000"`
	LogLevel    string   `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string   `env:"LOG_FORMAT" envDefault:"text"`
	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	StatsAPI StatsAPIConfig
	Gemini   GeminiConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Enrich   EnrichConfig
	Recap    RecapConfig
	Metrics  MetricsConfig
}

// StatsAPIConfig controls how the MLB statsapi clients are reached.
type StatsAPIConfig struct {
	BaseURL           string        `env:"MLB_API_BASE_URL" envDefault:"https://statsapi.mlb.com/api/v1"`
	GumboBaseURL      string        `env:"MLB_GUMBO_API_BASE_URL" envDefault:"https://statsapi.mlb.com/api/v1.1"`
	SportID           int           `env:"MLB_SPORT_ID" envDefault:"1"`
	StartYear         int           `env:"MLB_DATA_START_YEAR" envDefault:"2008"`
	Timeout           time.Duration `env:"MLB_API_TIMEOUT" envDefault:"30s"`
	DetailConcurrency int           `env:"DETAIL_FETCH_CONCURRENCY" envDefault:"8"`
}

// GeminiConfig controls the generative model client.
// Models are tried in order; the cheaper variants act as fallbacks.
type GeminiConfig struct {
	APIKey       string        `env:"GEMINI_API_KEY"`
	BaseURL      string        `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	Models       []string      `env:"GEMINI_MODELS" envSeparator:"," envDefault:"gemini-1.5-pro,gemini-1.5-flash,gemini-1.5-flash-8b"`
	MaxRetries   int           `env:"GEMINI_MAX_RETRIES" envDefault:"3"`
	RetryBackoff time.Duration `env:"GEMINI_RETRY_BACKOFF" envDefault:"1s"`
	Timeout      time.Duration `env:"GEMINI_TIMEOUT" envDefault:"30s"`
}

// RedisConfig locates the shared cache backend.
type RedisConfig struct {
	URL string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
}

// CacheConfig tunes cache entry lifetime and the background warm loop.
type CacheConfig struct {
	TTL          time.Duration `env:"CACHE_TTL" envDefault:"600s"`
	WarmInterval time.Duration `env:"CACHE_WARM_INTERVAL" envDefault:"300s"`
}

// EnrichConfig tunes the summary batcher.
type EnrichConfig struct {
	BatchSize   int `env:"ENRICH_BATCH_SIZE" envDefault:"4"`
	Concurrency int `env:"ENRICH_CONCURRENCY" envDefault:"3"`
}

// RecapConfig tunes the single-game recap rate limiter.
type RecapConfig struct {
	RateLimit  int           `env:"RECAP_RATE_LIMIT" envDefault:"60"`
	RateWindow time.Duration `env:"RECAP_RATE_WINDOW" envDefault:"60s"`
}

// MetricsConfig controls telemetry export.
type MetricsConfig struct {
	Enabled      bool   `env:"METRICS_ENABLED" envDefault:"false"`
	Port         string `env:"METRICS_PORT" envDefault:"9090"`
	ServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"mlb-games-service"`
	OtlpEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtlpInsecure bool   `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"false"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}
