package enrich

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"mlb-games-service/internal/domain"
	"mlb-games-service/internal/logging"
	"mlb-games-service/internal/metrics"
)

const (
	defaultBatchSize   = 4
	defaultConcurrency = 3
)

// Summarizer produces language-keyed summaries for a batch of games, keyed
// by game ID.
type Summarizer interface {
	Summarize(ctx context.Context, games []domain.Game) (map[string]map[string]string, error)
}

// GameCacher re-caches individual games once their summaries are attached,
// so later single-game reads skip the model entirely.
type GameCacher interface {
	SetGame(ctx context.Context, game domain.Game)
}

// Config carries the batcher's construction options. Cacher is optional.
type Config struct {
	Summarizer  Summarizer
	Cacher      GameCacher
	BatchSize   int
	Concurrency int
	Logger      *slog.Logger
	Metrics     *metrics.Recorder
}

// Batcher fans games out to the summarizer in fixed-size batches with
// bounded concurrency.
//
// Enrichment never fails a request: a batch whose model call errors
// contributes no summaries, and every game in it falls back to locally
// built text. Every returned game carries a summary for every language.
type Batcher struct {
	summarizer  Summarizer
	cacher      GameCacher
	batchSize   int
	concurrency int
	logger      *slog.Logger
	metrics     *metrics.Recorder
}

// NewBatcher constructs a Batcher, filling unset options with defaults.
func NewBatcher(cfg Config) *Batcher {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Batcher{
		summarizer:  cfg.Summarizer,
		cacher:      cfg.Cacher,
		batchSize:   batchSize,
		concurrency: concurrency,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
	}
}

// Enrich returns a copy of games with summaries attached, in the input
// order. Games that already carry a summary are passed through untouched.
func (b *Batcher) Enrich(ctx context.Context, games []domain.Game) []domain.Game {
	var pending []domain.Game
	for _, game := range games {
		if len(game.Summary) == 0 {
			pending = append(pending, game)
		}
	}

	summaries := b.summarizeAll(ctx, pending)

	enriched := make([]domain.Game, len(games))
	for i, game := range games {
		if len(game.Summary) > 0 {
			enriched[i] = game
			continue
		}
		if langs, ok := summaries[game.ID]; ok {
			enriched[i] = game.WithSummary(completeLanguages(langs))
		} else {
			b.metrics.RecordFallback()
			enriched[i] = game.WithSummary(FallbackSummary(game))
		}
		if b.cacher != nil {
			b.cacher.SetGame(ctx, enriched[i])
		}
	}
	return enriched
}

// summarizeAll runs the batches concurrently and merges their results.
// Batch failures are logged and absorbed.
func (b *Batcher) summarizeAll(ctx context.Context, games []domain.Game) map[string]map[string]string {
	merged := make(map[string]map[string]string)
	if len(games) == 0 {
		return merged
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for start := 0; start < len(games); start += b.batchSize {
		batch := games[start:min(start+b.batchSize, len(games))]
		g.Go(func() error {
			began := time.Now()
			result, err := b.summarizer.Summarize(ctx, batch)
			b.metrics.RecordEnrichBatch(time.Since(began), err)
			if err != nil {
				logging.Warn(b.logger, "summary batch failed",
					logging.FieldBatch, len(batch), "error", err)
				return nil
			}
			mu.Lock()
			for id, langs := range result {
				merged[id] = langs
			}
			mu.Unlock()
			return nil
		})
	}

	// Workers swallow their own errors.
	_ = g.Wait()
	return merged
}

// completeLanguages fills any language the model skipped with a placeholder
// so clients always see the full language set.
func completeLanguages(langs map[string]string) map[string]string {
	complete := make(map[string]string, len(Languages))
	for _, code := range Languages {
		if text, ok := langs[code]; ok && text != "" {
			complete[code] = text
		} else {
			complete[code] = placeholder(code)
		}
	}
	return complete
}
