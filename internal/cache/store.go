package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"mlb-games-service/internal/domain"
	"mlb-games-service/internal/logging"
	"mlb-games-service/internal/metrics"
)

// redisClient is the slice of the go-redis API the store needs. The concrete
// *redis.Client satisfies it; tests substitute a fake.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// Config carries the store's construction options.
type Config struct {
	Client  redisClient
	TTL     time.Duration
	Logger  *slog.Logger
	Metrics *metrics.Recorder
	Now     func() time.Time
}

// Store reads and writes cached game payloads in Redis.
//
// The cache is strictly best-effort: a read failure is reported as a miss and
// a write failure is logged and swallowed, so Redis being down degrades the
// service to uncached upstream fetches rather than erroring requests.
type Store struct {
	client  redisClient
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Recorder
	now     func() time.Time
}

const defaultTTL = 10 * time.Minute

// NewStore constructs a Store, filling unset options with defaults.
func NewStore(cfg Config) *Store {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		client:  cfg.Client,
		ttl:     ttl,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
		now:     now,
	}
}

// GetGameList returns the cached list for a query, or ok=false on a miss.
// Decode failures and transport errors both count as misses.
func (s *Store) GetGameList(ctx context.Context, q domain.GamesQuery) (domain.GameList, bool) {
	key := KeyForQuery(q)
	var list domain.GameList
	if !s.get(ctx, key, &list) {
		return domain.GameList{}, false
	}
	return list, true
}

// SetGameList caches the list for a query, stamping every game with the
// write time. Failures are logged and ignored.
func (s *Store) SetGameList(ctx context.Context, q domain.GamesQuery, list domain.GameList) {
	at := s.now().UTC()
	stamped := make([]domain.Game, len(list.Games))
	for i, game := range list.Games {
		stamped[i] = game.WithCachedAt(at)
	}
	list.Games = stamped
	s.set(ctx, KeyForQuery(q), list)
}

// GetGame returns the cached single game, or ok=false on a miss.
func (s *Store) GetGame(ctx context.Context, gameID string) (domain.Game, bool) {
	var game domain.Game
	if !s.get(ctx, KeyForGame(gameID), &game) {
		return domain.Game{}, false
	}
	return game, true
}

// SetGame caches a single game stamped with the write time.
func (s *Store) SetGame(ctx context.Context, game domain.Game) {
	s.set(ctx, KeyForGame(game.ID), game.WithCachedAt(s.now().UTC()))
}

// Delete removes a cached entry. Failures are logged and ignored.
func (s *Store) Delete(ctx context.Context, key string) {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		logging.Warn(s.logger, "cache delete failed", logging.FieldCacheKey, key, "error", err)
	}
}

// Ping reports whether Redis is reachable. The readiness probe uses it.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) get(ctx context.Context, key string, out any) bool {
	raw, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			logging.Debug(s.logger, "cache miss", logging.FieldCacheKey, key)
		} else {
			logging.Warn(s.logger, "cache read failed", logging.FieldCacheKey, key, "error", err)
		}
		s.metrics.RecordCacheRead(false)
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		logging.Warn(s.logger, "cache entry undecodable", logging.FieldCacheKey, key, "error", err)
		s.metrics.RecordCacheRead(false)
		return false
	}
	s.metrics.RecordCacheRead(true)
	return true
}

func (s *Store) set(ctx context.Context, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		logging.Warn(s.logger, "cache encode failed", logging.FieldCacheKey, key, "error", err)
		return
	}
	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		logging.Warn(s.logger, "cache write failed", logging.FieldCacheKey, key, "error", err)
	}
}
