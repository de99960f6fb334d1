package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	nethttp "net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"mlb-games-service/internal/aggregator"
	"mlb-games-service/internal/domain"
	"mlb-games-service/internal/logging"
	"mlb-games-service/internal/poller"
	"mlb-games-service/internal/providers"
	"mlb-games-service/internal/providers/statsapi"
)

// GamesService is the aggregation surface the handlers depend on.
type GamesService interface {
	GetGames(ctx context.Context, q domain.GamesQuery) (domain.GameList, error)
	GetGame(ctx context.Context, season, teamID int, gameID string) (domain.Game, error)
}

// RecapService produces recap text for one game.
type RecapService interface {
	Generate(ctx context.Context, game domain.Game, stats *statsapi.GameStats, language string) (string, error)
}

// StatsFetcher returns the recap stats extraction for one game.
type StatsFetcher interface {
	FetchGameStats(ctx context.Context, gameID string) (*statsapi.GameStats, error)
}

// ReadyChecker reports whether a backing dependency is reachable.
type ReadyChecker interface {
	Ping(ctx context.Context) error
}

// WarmStatus exposes the background cache warmer's recent health.
type WarmStatus interface {
	Status() poller.Status
}

// Handler wires HTTP routes to the aggregation and recap services.
type Handler struct {
	games     GamesService
	recaps    RecapService
	stats     StatsFetcher
	readiness ReadyChecker
	warm      WarmStatus
	startYear int
	logger    *slog.Logger
}

// HandlerConfig carries the handler's collaborators. Recaps, Stats, Readiness,
// and Warm are optional; their routes degrade accordingly.
type HandlerConfig struct {
	Games     GamesService
	Recaps    RecapService
	Stats     StatsFetcher
	Readiness ReadyChecker
	Warm      WarmStatus
	StartYear int
	Logger    *slog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	startYear := cfg.StartYear
	if startYear <= 0 {
		startYear = 2008
	}
	return &Handler{
		games:     cfg.Games,
		recaps:    cfg.Recaps,
		stats:     cfg.Stats,
		readiness: cfg.Readiness,
		warm:      cfg.Warm,
		startYear: startYear,
		logger:    cfg.Logger,
	}
}

// Health reports liveness.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	h.writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports readiness. An unreachable cache fails the check; a cold
// warmer is only reported, since the first request can still fill the cache.
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.readiness != nil {
		if err := h.readiness.Ping(r.Context()); err != nil {
			h.writeError(w, nethttp.StatusServiceUnavailable, "cache unreachable")
			return
		}
	}

	payload := map[string]any{"status": "ready"}
	if h.warm != nil {
		payload["cacheWarm"] = h.warm.Status().IsReady()
	}
	h.writeJSON(w, nethttp.StatusOK, payload)
}

// Games returns one enriched page of games for a season.
func (h *Handler) Games(w nethttp.ResponseWriter, r *nethttp.Request) {
	season, ok := h.parseSeason(w, r)
	if !ok {
		return
	}

	teamID, ok := parseOptionalInt(w, r, "teamId", h)
	if !ok {
		return
	}
	page, ok := parseOptionalInt(w, r, "page", h)
	if !ok {
		return
	}
	pageSize, ok := parseOptionalInt(w, r, "perPage", h)
	if !ok {
		return
	}

	list, err := h.games.GetGames(r.Context(), domain.GamesQuery{
		Season:   season,
		TeamID:   teamID,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, nethttp.StatusOK, list)
}

// GameByID returns one enriched game.
func (h *Handler) GameByID(w nethttp.ResponseWriter, r *nethttp.Request) {
	season, ok := h.parseSeason(w, r)
	if !ok {
		return
	}
	teamID, ok := parseOptionalInt(w, r, "teamId", h)
	if !ok {
		return
	}

	game, err := h.games.GetGame(r.Context(), season, teamID, chi.URLParam(r, "gameID"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, nethttp.StatusOK, game)
}

// recapResponse is the recap endpoint payload.
type recapResponse struct {
	GameID   string `json:"gameId"`
	Language string `json:"language"`
	Recap    string `json:"recap"`
}

// GameRecap returns a narrative recap for one game in the requested language.
func (h *Handler) GameRecap(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.recaps == nil {
		h.writeError(w, nethttp.StatusNotFound, "recaps not enabled")
		return
	}

	season, ok := h.parseSeason(w, r)
	if !ok {
		return
	}
	teamID, ok := parseOptionalInt(w, r, "teamId", h)
	if !ok {
		return
	}
	language := r.URL.Query().Get("language")
	if language == "" {
		language = "en"
	}

	gameID := chi.URLParam(r, "gameID")
	game, err := h.games.GetGame(r.Context(), season, teamID, gameID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	// Stats feed the prompt only; a failed fetch degrades the prompt, not
	// the request.
	var stats *statsapi.GameStats
	if h.stats != nil {
		stats, err = h.stats.FetchGameStats(r.Context(), gameID)
		if err != nil {
			logging.Warn(logging.FromContext(r.Context(), h.logger), "game stats fetch failed",
				logging.FieldGameID, gameID, "error", err)
			stats = nil
		}
	}

	text, err := h.recaps.Generate(r.Context(), game, stats, language)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeJSON(w, nethttp.StatusOK, recapResponse{
		GameID:   gameID,
		Language: language,
		Recap:    text,
	})
}

func (h *Handler) parseSeason(w nethttp.ResponseWriter, r *nethttp.Request) (int, bool) {
	raw := r.URL.Query().Get("season")
	if raw == "" {
		h.writeError(w, nethttp.StatusBadRequest, "season is required")
		return 0, false
	}
	season, err := strconv.Atoi(raw)
	if err != nil {
		h.writeError(w, nethttp.StatusBadRequest, "season must be an integer")
		return 0, false
	}
	if season < h.startYear {
		h.writeError(w, nethttp.StatusBadRequest, "season must be "+strconv.Itoa(h.startYear)+" or later")
		return 0, false
	}
	return season, true
}

func parseOptionalInt(w nethttp.ResponseWriter, r *nethttp.Request, name string, h *Handler) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		h.writeError(w, nethttp.StatusBadRequest, name+" must be a non-negative integer")
		return 0, false
	}
	return value, true
}

func (h *Handler) writeServiceError(w nethttp.ResponseWriter, r *nethttp.Request, err error) {
	switch {
	case errors.Is(err, providers.ErrUpstreamUnavailable):
		h.writeError(w, nethttp.StatusServiceUnavailable, "upstream data source unavailable")
	case errors.Is(err, aggregator.ErrGameNotFound):
		h.writeError(w, nethttp.StatusNotFound, "game not found")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.writeError(w, nethttp.StatusServiceUnavailable, "request timed out")
	default:
		logging.Error(logging.FromContext(r.Context(), h.logger), "request failed", err,
			logging.FieldPath, r.URL.Path)
		h.writeError(w, nethttp.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) writeJSON(w nethttp.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Error(h.logger, "failed to encode response", err)
	}
}

func (h *Handler) writeError(w nethttp.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
