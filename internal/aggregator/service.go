package aggregator

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"mlb-games-service/internal/domain"
	"mlb-games-service/internal/logging"
	"mlb-games-service/internal/metrics"
	"mlb-games-service/internal/providers/statsapi"
)

const defaultDetailConcurrency = 8

// ErrGameNotFound reports that a game ID resolved to nothing in the season's
// schedule.
var ErrGameNotFound = fmt.Errorf("game not found")

// ScheduleFetcher returns the raw season schedule stubs for a team filter.
type ScheduleFetcher interface {
	FetchSchedule(ctx context.Context, season, teamID int) ([]statsapi.GameStub, error)
}

// DetailFetcher returns the deep record for one game.
type DetailFetcher interface {
	FetchDetail(ctx context.Context, gameID string) (*statsapi.GameDetail, error)
}

// Normalizer converts one stub plus detail into the canonical shape, or nil.
type Normalizer interface {
	Normalize(stub statsapi.GameStub, detail *statsapi.GameDetail) *domain.Game
}

// Cache is the games read-through cache surface.
type Cache interface {
	GetGameList(ctx context.Context, q domain.GamesQuery) (domain.GameList, bool)
	SetGameList(ctx context.Context, q domain.GamesQuery, list domain.GameList)
	GetGame(ctx context.Context, gameID string) (domain.Game, bool)
	SetGame(ctx context.Context, game domain.Game)
}

// Enricher attaches summaries to a page of games.
type Enricher interface {
	Enrich(ctx context.Context, games []domain.Game) []domain.Game
}

// Config carries the service's construction options.
type Config struct {
	Schedule          ScheduleFetcher
	Details           DetailFetcher
	Normalizer        Normalizer
	Cache             Cache
	Enricher          Enricher
	DetailConcurrency int
	Logger            *slog.Logger
	Metrics           *metrics.Recorder
}

// Service aggregates schedule and detail data into enriched, paginated,
// cached game lists.
type Service struct {
	schedule          ScheduleFetcher
	details           DetailFetcher
	normalizer        Normalizer
	cache             Cache
	enricher          Enricher
	detailConcurrency int
	logger            *slog.Logger
	metrics           *metrics.Recorder
}

// NewService constructs a Service, filling unset options with defaults.
func NewService(cfg Config) *Service {
	concurrency := cfg.DetailConcurrency
	if concurrency <= 0 {
		concurrency = defaultDetailConcurrency
	}
	return &Service{
		schedule:          cfg.Schedule,
		details:           cfg.Details,
		normalizer:        cfg.Normalizer,
		cache:             cfg.Cache,
		enricher:          cfg.Enricher,
		detailConcurrency: concurrency,
		logger:            cfg.Logger,
		metrics:           cfg.Metrics,
	}
}

// GetGames returns one enriched page of games for the query. The cache is
// consulted first; on a miss the full season window is fetched, normalized,
// sorted, paginated, enriched, and the resulting page cached.
func (s *Service) GetGames(ctx context.Context, q domain.GamesQuery) (domain.GameList, error) {
	q = q.Normalize()

	if s.cache != nil {
		if list, ok := s.cache.GetGameList(ctx, q); ok {
			return list, nil
		}
	}

	games, err := s.fetchSeason(ctx, q.Season, q.TeamID)
	if err != nil {
		return domain.GameList{}, err
	}

	list := paginate(games, q.Page, q.PageSize)
	if s.enricher != nil {
		list.Games = s.enricher.Enrich(ctx, list.Games)
	}

	if s.cache != nil {
		s.cache.SetGameList(ctx, q, list)
	}
	return list, nil
}

// GetGame returns one enriched game by ID. The single-game cache is tried
// first; a miss falls back to resolving the ID within the season's schedule.
func (s *Service) GetGame(ctx context.Context, season, teamID int, gameID string) (domain.Game, error) {
	if s.cache != nil {
		if game, ok := s.cache.GetGame(ctx, gameID); ok {
			return game, nil
		}
	}

	games, err := s.fetchSeason(ctx, season, teamID)
	if err != nil {
		return domain.Game{}, err
	}

	for _, game := range games {
		if game.ID != gameID {
			continue
		}
		if s.enricher != nil {
			enriched := s.enricher.Enrich(ctx, []domain.Game{game})
			game = enriched[0]
		}
		if s.cache != nil {
			s.cache.SetGame(ctx, game)
		}
		return game, nil
	}
	return domain.Game{}, fmt.Errorf("%w: %s in season %d", ErrGameNotFound, gameID, season)
}

// fetchSeason pulls the schedule, fans out the detail fetches with bounded
// concurrency, normalizes, and sorts date-descending. Per-game failures drop
// that game only.
func (s *Service) fetchSeason(ctx context.Context, season, teamID int) ([]domain.Game, error) {
	stubs, err := s.schedule.FetchSchedule(ctx, season, teamID)
	if err != nil {
		return nil, err
	}

	normalized := make([]*domain.Game, len(stubs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.detailConcurrency)
	for i, stub := range stubs {
		i, stub := i, stub
		g.Go(func() error {
			detail, err := s.details.FetchDetail(gctx, stub.ID())
			if err != nil {
				logging.Warn(s.logger, "detail fetch failed",
					logging.FieldGameID, stub.ID(), "error", err)
				return nil
			}
			normalized[i] = s.normalizer.Normalize(stub, detail)
			return nil
		})
	}
	// Workers swallow their own errors.
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	games := make([]domain.Game, 0, len(normalized))
	for _, game := range normalized {
		if game != nil {
			games = append(games, *game)
		}
	}

	sort.SliceStable(games, func(i, j int) bool {
		return games[i].Date.After(games[j].Date)
	})

	logging.Info(s.logger, "season fetched",
		logging.FieldSeason, season,
		logging.FieldTeamID, teamID,
		logging.FieldCount, len(games))
	return games, nil
}

// paginate slices one page out of the sorted set. An out-of-range page is an
// empty page, never an error.
func paginate(games []domain.Game, page, pageSize int) domain.GameList {
	total := len(games)
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	pageGames := games[start:end]
	return domain.GameList{
		TotalItems: total,
		Page:       page,
		HasMore:    len(pageGames) == pageSize,
		Games:      pageGames,
	}
}
