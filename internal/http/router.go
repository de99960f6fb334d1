package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"mlb-games-service/internal/metrics"
)

// NewRouter assembles the route tree with logging, recovery, and CORS.
func NewRouter(handler *Handler, logger *slog.Logger, recorder *metrics.Recorder, corsOrigins ...string) nethttp.Handler {
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(RequestLogger(logger, recorder))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{nethttp.MethodGet, nethttp.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", handler.Health)
	r.Get("/ready", handler.Ready)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/games", handler.Games)
		r.Get("/games/{gameID}", handler.GameByID)
		r.Get("/games/{gameID}/recap", handler.GameRecap)
	})

	return r
}
