package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"mlb-games-service/internal/aggregator"
	"mlb-games-service/internal/cache"
	"mlb-games-service/internal/config"
	"mlb-games-service/internal/enrich"
	httpapi "mlb-games-service/internal/http"
	"mlb-games-service/internal/logging"
	"mlb-games-service/internal/metrics"
	"mlb-games-service/internal/poller"
	"mlb-games-service/internal/providers/gemini"
	"mlb-games-service/internal/providers/statsapi"
	"mlb-games-service/internal/ratelimit"
	"mlb-games-service/internal/recap"
)

var metricsSetup = metrics.Setup

// Poller defines the minimal warm-loop behavior needed by the server.
type Poller interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Status() poller.Status
}

// Server owns the full wiring of the service: cache, upstream clients, model
// chain, aggregation, HTTP surface, telemetry, and the cache warmer.
type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	redisClient   *redis.Client
	httpServer    httpServer
	metricsServer httpServer
	warmer        Poller
	metricsStop   func(context.Context) error
}

// New constructs a fully wired server from configuration.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, nil)

	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	redisClient := redis.NewClient(opts)

	cacheStore := cache.NewStore(cache.Config{
		Client:  redisClient,
		TTL:     cfg.Cache.TTL,
		Logger:  logger,
		Metrics: recorder,
	})

	statsClient := statsapi.NewClient(statsapi.Config{
		BaseURL:      cfg.StatsAPI.BaseURL,
		GumboBaseURL: cfg.StatsAPI.GumboBaseURL,
		SportID:      cfg.StatsAPI.SportID,
		StartYear:    cfg.StatsAPI.StartYear,
		HTTPClient:   &http.Client{Timeout: cfg.StatsAPI.Timeout},
		Metrics:      recorder,
	})

	geminiClient := gemini.NewClient(gemini.Config{
		APIKey:       cfg.Gemini.APIKey,
		BaseURL:      cfg.Gemini.BaseURL,
		Models:       cfg.Gemini.Models,
		MaxRetries:   cfg.Gemini.MaxRetries,
		RetryBackoff: cfg.Gemini.RetryBackoff,
		HTTPTimeout:  cfg.Gemini.Timeout,
		Logger:       logger,
		Metrics:      recorder,
	})

	batcher := enrich.NewBatcher(enrich.Config{
		Summarizer:  geminiClient,
		Cacher:      cacheStore,
		BatchSize:   cfg.Enrich.BatchSize,
		Concurrency: cfg.Enrich.Concurrency,
		Logger:      logger,
		Metrics:     recorder,
	})

	limiter := ratelimit.NewSlidingWindow(ratelimit.Config{
		Limit:   cfg.Recap.RateLimit,
		Window:  cfg.Recap.RateWindow,
		Metrics: recorder,
	})

	recapSvc := recap.NewService(recap.Config{
		Model:      geminiClient,
		Translator: geminiClient,
		Limiter:    limiter,
		Logger:     logger,
		Metrics:    recorder,
	})

	agg := aggregator.NewService(aggregator.Config{
		Schedule:          statsClient,
		Details:           statsClient,
		Normalizer:        statsapi.NewNormalizer(nil),
		Cache:             cacheStore,
		Enricher:          batcher,
		DetailConcurrency: cfg.StatsAPI.DetailConcurrency,
		Logger:            logger,
		Metrics:           recorder,
	})

	warmer := poller.New(agg, logger, cfg.Cache.WarmInterval)

	handler := httpapi.NewHandler(httpapi.HandlerConfig{
		Games:     agg,
		Recaps:    recapSvc,
		Stats:     statsClient,
		Readiness: cacheStore,
		Warm:      warmer,
		StartYear: cfg.StatsAPI.StartYear,
		Logger:    logger,
	})
	router := httpapi.NewRouter(handler, logger, recorder, cfg.CORSOrigins...)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		redisClient:   redisClient,
		httpServer:    netHTTPServer{srv: srv},
		metricsServer: metricsSrv,
		warmer:        warmer,
		metricsStop:   metricsShutdown,
	}, nil
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, httpSrv httpServer, warmer Poller) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpSrv,
		warmer:     warmer,
	}
}

// Run starts the warmer and HTTP server, then waits for context cancellation
// to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	if s.warmer != nil {
		s.warmer.Start(ctx)
	}

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", "error", err)
		}
	}

	if s.warmer != nil {
		if err := s.warmer.Stop(shutdownCtx); err != nil {
			logging.Error(s.logger, "failed to stop cache warmer", err)
		}
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			logging.Warn(s.logger, "redis close failed", "error", err)
		}
	}

	logging.Info(s.logger, "shutdown complete")
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "error", err)
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:    ":" + recCfg.Port,
				Handler: handler,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		logging.Info(logger, "starting "+name+" server", slog.String("addr", srv.Addr()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Warn(logger, name+" server failed", "error", err)
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
