package recap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"mlb-games-service/internal/domain"
	"mlb-games-service/internal/logging"
	"mlb-games-service/internal/metrics"
	"mlb-games-service/internal/providers/statsapi"
)

// Model generates the English narrative recap for one game.
type Model interface {
	RecapText(ctx context.Context, game domain.Game, stats *statsapi.GameStats) (string, error)
}

// Translator renders English recap text into a target language.
type Translator interface {
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}

// Limiter gates model calls. A waiting caller is delayed, not rejected.
type Limiter interface {
	Wait(ctx context.Context) error
}

// Config carries the service's construction options. Translator is optional;
// without one, non-English requests get the English recap.
type Config struct {
	Model      Model
	Translator Translator
	Limiter    Limiter
	Logger     *slog.Logger
	Metrics    *metrics.Recorder
}

// Service produces game recaps.
//
// Model failure never surfaces to the caller: the service degrades to a
// locally built English sentence. The fallback is English-only regardless of
// the requested language because it is assembled from data, not translated.
type Service struct {
	model      Model
	translator Translator
	limiter    Limiter
	logger     *slog.Logger
	metrics    *metrics.Recorder
}

// NewService constructs a Service.
func NewService(cfg Config) *Service {
	return &Service{
		model:      cfg.Model,
		translator: cfg.Translator,
		limiter:    cfg.Limiter,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
	}
}

// Generate returns the recap text for a game in the requested language.
// Only context cancellation while waiting for a rate slot is returned as an
// error; every other failure degrades to fallback text.
func (s *Service) Generate(ctx context.Context, game domain.Game, stats *statsapi.GameStats, language string) (string, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	text, err := s.model.RecapText(ctx, game, stats)
	if err != nil || strings.TrimSpace(text) == "" {
		if err != nil {
			logging.Warn(s.logger, "recap generation failed",
				logging.FieldGameID, game.ID, "error", err)
		}
		s.metrics.RecordFallback()
		return FallbackRecap(game), nil
	}

	if language != "" && language != "en" {
		return s.translate(ctx, text, language, game.ID), nil
	}
	return text, nil
}

// translate returns the translated text, or the English original when the
// translator is missing or fails.
func (s *Service) translate(ctx context.Context, text, language, gameID string) string {
	if s.translator == nil {
		return text
	}
	translated, err := s.translator.Translate(ctx, text, language)
	if err != nil || strings.TrimSpace(translated) == "" {
		logging.Warn(s.logger, "recap translation failed",
			logging.FieldGameID, gameID, logging.FieldLanguage, language, "error", err)
		return text
	}
	return translated
}

// FallbackRecap builds the data-only English recap sentence.
func FallbackRecap(game domain.Game) string {
	winner, loser, winnerScore, loserScore := game.Winner()
	venue := game.Venue
	if venue == "" {
		venue = "their home field"
	}
	return fmt.Sprintf("The %s defeated the %s with a score of %d-%d at %s.",
		winner.Name, loser.Name, winnerScore, loserScore, venue)
}
