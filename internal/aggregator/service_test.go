package aggregator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"mlb-games-service/internal/domain"
	"mlb-games-service/internal/metrics"
	"mlb-games-service/internal/providers"
	"mlb-games-service/internal/providers/statsapi"
)

type fakeUpstream struct {
	mu          sync.Mutex
	stubs       []statsapi.GameStub
	scheduleErr error
	detailErr   map[string]error
	inFlight    int
	maxSeen     int
	block       time.Duration
}

func (f *fakeUpstream) FetchSchedule(ctx context.Context, season, teamID int) ([]statsapi.GameStub, error) {
	if f.scheduleErr != nil {
		return nil, f.scheduleErr
	}
	return f.stubs, nil
}

func (f *fakeUpstream) FetchDetail(ctx context.Context, gameID string) (*statsapi.GameDetail, error) {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxSeen {
		f.maxSeen = f.inFlight
	}
	f.mu.Unlock()

	if f.block > 0 {
		time.Sleep(f.block)
	}

	f.mu.Lock()
	f.inFlight--
	err := f.detailErr[gameID]
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return &statsapi.GameDetail{}, nil
}

type passthroughEnricher struct {
	calls [][]string
}

func (p *passthroughEnricher) Enrich(ctx context.Context, games []domain.Game) []domain.Game {
	ids := make([]string, len(games))
	enriched := make([]domain.Game, len(games))
	for i, g := range games {
		ids[i] = g.ID
		enriched[i] = g.WithSummary(map[string]string{"en": "summary " + g.ID})
	}
	p.calls = append(p.calls, ids)
	return enriched
}

type memoryCache struct {
	mu    sync.Mutex
	lists map[string]domain.GameList
	games map[string]domain.Game
}

func newMemoryCache() *memoryCache {
	return &memoryCache{lists: map[string]domain.GameList{}, games: map[string]domain.Game{}}
}

func (m *memoryCache) listKey(q domain.GamesQuery) string {
	q = q.Normalize()
	return fmt.Sprintf("%d/%d/%d/%d", q.Season, q.TeamID, q.Page, q.PageSize)
}

func (m *memoryCache) GetGameList(ctx context.Context, q domain.GamesQuery) (domain.GameList, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list, ok := m.lists[m.listKey(q)]
	return list, ok
}

func (m *memoryCache) SetGameList(ctx context.Context, q domain.GamesQuery, list domain.GameList) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists[m.listKey(q)] = list
}

func (m *memoryCache) GetGame(ctx context.Context, gameID string) (domain.Game, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	game, ok := m.games[gameID]
	return game, ok
}

func (m *memoryCache) SetGame(ctx context.Context, game domain.Game) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[game.ID] = game
}

// seasonStubs builds n schedule stubs with strictly increasing dates, so the
// most recent game has the highest pk.
func seasonStubs(n int) []statsapi.GameStub {
	stubs := make([]statsapi.GameStub, n)
	base := time.Date(2024, 4, 1, 19, 0, 0, 0, time.UTC)
	score := func(v int) *int { return &v }
	for i := range stubs {
		stubs[i] = statsapi.GameStub{
			GamePk:   int64(1000 + i),
			GameType: "R",
			GameDate: base.AddDate(0, 0, i).Format("2006-01-02T15:04:05Z"),
			Status:   &statsapi.StubStatus{AbstractGameState: "Final"},
			Teams: &statsapi.StubTeams{
				Away: &statsapi.StubSide{Team: &statsapi.StubTeam{ID: 147, Name: "Away"}, Score: score(4)},
				Home: &statsapi.StubSide{Team: &statsapi.StubTeam{ID: 111, Name: "Home"}, Score: score(2)},
			},
			Venue: &statsapi.StubVenue{Name: "Park"},
		}
	}
	return stubs
}

func newTestService(upstream *fakeUpstream, cache Cache, enricher Enricher, concurrency int) *Service {
	return NewService(Config{
		Schedule:          upstream,
		Details:           upstream,
		Normalizer:        statsapi.NewNormalizer(nil),
		Cache:             cache,
		Enricher:          enricher,
		DetailConcurrency: concurrency,
		Metrics:           metrics.NewRecorder(),
	})
}

func TestGetGamesPagination(t *testing.T) {
	upstream := &fakeUpstream{stubs: seasonStubs(25)}

	cases := []struct {
		page     int
		wantLen  int
		wantMore bool
	}{
		{page: 1, wantLen: 10, wantMore: true},
		{page: 3, wantLen: 5, wantMore: false},
		{page: 4, wantLen: 0, wantMore: false},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("page %d", tc.page), func(t *testing.T) {
			svc := newTestService(upstream, nil, nil, 4)
			list, err := svc.GetGames(context.Background(), domain.GamesQuery{Season: 2024, Page: tc.page, PageSize: 10})
			if err != nil {
				t.Fatalf("expected success, got %v", err)
			}
			if list.TotalItems != 25 {
				t.Fatalf("expected totalItems 25, got %d", list.TotalItems)
			}
			if len(list.Games) != tc.wantLen {
				t.Fatalf("expected %d games, got %d", tc.wantLen, len(list.Games))
			}
			if list.HasMore != tc.wantMore {
				t.Fatalf("expected hasMore=%v, got %v", tc.wantMore, list.HasMore)
			}
			if list.Page != tc.page {
				t.Fatalf("expected page %d, got %d", tc.page, list.Page)
			}
		})
	}
}

func TestGetGamesOrderedDateDescending(t *testing.T) {
	upstream := &fakeUpstream{stubs: seasonStubs(15)}
	svc := newTestService(upstream, nil, nil, 4)

	list, err := svc.GetGames(context.Background(), domain.GamesQuery{Season: 2024, Page: 1, PageSize: 15})
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(list.Games); i++ {
		if list.Games[i].Date.After(list.Games[i-1].Date) {
			t.Fatalf("ordering violated at %d: %v after %v", i, list.Games[i].Date, list.Games[i-1].Date)
		}
	}
	if list.Games[0].ID != "1014" {
		t.Fatalf("expected most recent game first, got %s", list.Games[0].ID)
	}
}

func TestGetGamesBoundsDetailConcurrency(t *testing.T) {
	upstream := &fakeUpstream{stubs: seasonStubs(30), block: 5 * time.Millisecond}
	svc := newTestService(upstream, nil, nil, 8)

	if _, err := svc.GetGames(context.Background(), domain.GamesQuery{Season: 2024}); err != nil {
		t.Fatal(err)
	}

	upstream.mu.Lock()
	defer upstream.mu.Unlock()
	if upstream.maxSeen > 8 {
		t.Fatalf("detail concurrency bound exceeded: %d", upstream.maxSeen)
	}
	if upstream.maxSeen < 2 {
		t.Fatalf("expected parallel detail fetches, saw %d", upstream.maxSeen)
	}
}

func TestGetGamesDropsFailedDetails(t *testing.T) {
	upstream := &fakeUpstream{
		stubs:     seasonStubs(5),
		detailErr: map[string]error{"1002": errors.New("not found")},
	}
	svc := newTestService(upstream, nil, nil, 2)

	list, err := svc.GetGames(context.Background(), domain.GamesQuery{Season: 2024})
	if err != nil {
		t.Fatalf("per-game failure must not fail the request: %v", err)
	}
	if list.TotalItems != 4 {
		t.Fatalf("expected failed game dropped, got %d", list.TotalItems)
	}
	for _, game := range list.Games {
		if game.ID == "1002" {
			t.Fatal("failed game leaked into the page")
		}
	}
}

func TestGetGamesScheduleFailurePropagates(t *testing.T) {
	upstream := &fakeUpstream{scheduleErr: fmt.Errorf("fetch schedule: %w", providers.ErrUpstreamUnavailable)}
	svc := newTestService(upstream, nil, nil, 2)

	_, err := svc.GetGames(context.Background(), domain.GamesQuery{Season: 2024})
	if !errors.Is(err, providers.ErrUpstreamUnavailable) {
		t.Fatalf("expected upstream error to propagate, got %v", err)
	}
}

func TestGetGamesCacheHitSkipsUpstream(t *testing.T) {
	cache := newMemoryCache()
	q := domain.GamesQuery{Season: 2024, Page: 1, PageSize: 10}
	cached := domain.GameList{TotalItems: 1, Page: 1, Games: []domain.Game{{ID: "cached"}}}
	cache.SetGameList(context.Background(), q, cached)

	upstream := &fakeUpstream{scheduleErr: errors.New("must not be called")}
	svc := newTestService(upstream, cache, nil, 2)

	list, err := svc.GetGames(context.Background(), q)
	if err != nil {
		t.Fatal(err)
	}
	if len(list.Games) != 1 || list.Games[0].ID != "cached" {
		t.Fatalf("expected cached list, got %+v", list)
	}
}

func TestGetGamesEnrichesAndCachesPage(t *testing.T) {
	upstream := &fakeUpstream{stubs: seasonStubs(12)}
	cache := newMemoryCache()
	enricher := &passthroughEnricher{}
	svc := newTestService(upstream, cache, enricher, 4)
	q := domain.GamesQuery{Season: 2024, Page: 1, PageSize: 10}

	list, err := svc.GetGames(context.Background(), q)
	if err != nil {
		t.Fatal(err)
	}

	// Only the returned page goes through enrichment, not the whole season.
	if len(enricher.calls) != 1 || len(enricher.calls[0]) != 10 {
		t.Fatalf("unexpected enrichment calls: %v", enricher.calls)
	}
	for _, game := range list.Games {
		if game.Summary["en"] == "" {
			t.Fatalf("page not enriched: %+v", game)
		}
	}

	stored, ok := cache.GetGameList(context.Background(), q)
	if !ok {
		t.Fatal("expected page cached after fetch")
	}
	if stored.Games[0].Summary["en"] == "" {
		t.Fatal("cached page must be the enriched one")
	}
}

func TestGetGameFromCache(t *testing.T) {
	cache := newMemoryCache()
	cache.SetGame(context.Background(), domain.Game{ID: "1003", Venue: "Park"})

	upstream := &fakeUpstream{scheduleErr: errors.New("must not be called")}
	svc := newTestService(upstream, cache, nil, 2)

	game, err := svc.GetGame(context.Background(), 2024, 0, "1003")
	if err != nil {
		t.Fatal(err)
	}
	if game.Venue != "Park" {
		t.Fatalf("unexpected game %+v", game)
	}
}

func TestGetGameResolvesAndCaches(t *testing.T) {
	upstream := &fakeUpstream{stubs: seasonStubs(5)}
	cache := newMemoryCache()
	enricher := &passthroughEnricher{}
	svc := newTestService(upstream, cache, enricher, 2)

	game, err := svc.GetGame(context.Background(), 2024, 147, "1003")
	if err != nil {
		t.Fatal(err)
	}
	if game.ID != "1003" {
		t.Fatalf("unexpected game %s", game.ID)
	}
	if game.Summary["en"] != "summary 1003" {
		t.Fatalf("expected enriched game, got %+v", game.Summary)
	}
	if _, ok := cache.GetGame(context.Background(), "1003"); !ok {
		t.Fatal("expected resolved game cached")
	}
}

func TestGetGameNotFound(t *testing.T) {
	upstream := &fakeUpstream{stubs: seasonStubs(2)}
	svc := newTestService(upstream, nil, nil, 2)

	_, err := svc.GetGame(context.Background(), 2024, 0, "9999")
	if !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}
