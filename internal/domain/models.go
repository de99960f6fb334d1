package domain

import "time"

// GameType mirrors the upstream schedule game type codes.
type GameType string

const (
	GameTypeRegular    GameType = "R"
	GameTypePostseason GameType = "P"
	GameTypeSpring     GameType = "S"
)

// GameStatus captures the upstream status triple plus a derived final flag.
type GameStatus struct {
	AbstractGameState string `json:"abstractGameState"`
	DetailedState     string `json:"detailedState"`
	StatusCode        string `json:"statusCode"`
	IsFinal           bool   `json:"isFinal"`
}

// Team represents the normalized team shape.
type Team struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

// Score captures home and away runs.
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Event is a single notable play, kept in source play order.
type Event struct {
	Inning      string `json:"inning"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Game is the canonical game shape exposed by the service.
//
// A Game is built once per normalization pass and never mutated in place:
// Summary and CachedAt are attached by returning a copy (WithSummary,
// WithCachedAt) so concurrent enrichment batches never race on shared values.
type Game struct {
	ID             string            `json:"id"`
	GameType       GameType          `json:"gameType"`
	Date           time.Time         `json:"date"`
	Status         GameStatus        `json:"status"`
	Venue          string            `json:"venue"`
	HomeTeam       Team              `json:"homeTeam"`
	AwayTeam       Team              `json:"awayTeam"`
	Score          Score             `json:"score"`
	HomeHits       *int              `json:"homeHits,omitempty"`
	AwayHits       *int              `json:"awayHits,omitempty"`
	HomeErrors     *int              `json:"homeErrors,omitempty"`
	AwayErrors     *int              `json:"awayErrors,omitempty"`
	TopPerformer   string            `json:"topPerformer,omitempty"`
	WinningPitcher string            `json:"winningPitcher,omitempty"`
	Events         []Event           `json:"events,omitempty"`
	Summary        map[string]string `json:"summary,omitempty"`
	CachedAt       *time.Time        `json:"cachedAt,omitempty"`
}

// WithSummary returns a copy of the game with the summary attached.
func (g Game) WithSummary(summary map[string]string) Game {
	g.Summary = summary
	return g
}

// WithCachedAt returns a copy of the game stamped with the cache-write time.
func (g Game) WithCachedAt(at time.Time) Game {
	g.CachedAt = &at
	return g
}

// Winner returns the winning and losing team with their scores.
// For ties the home side is reported first; callers only use this for
// final games where upstream play rules preclude ties.
func (g Game) Winner() (winner, loser Team, winnerScore, loserScore int) {
	if g.Score.Home >= g.Score.Away {
		return g.HomeTeam, g.AwayTeam, g.Score.Home, g.Score.Away
	}
	return g.AwayTeam, g.HomeTeam, g.Score.Away, g.Score.Home
}

// GameList is a paginated, date-descending page of games.
type GameList struct {
	TotalItems int    `json:"totalItems"`
	Page       int    `json:"page"`
	HasMore    bool   `json:"hasMore"`
	Games      []Game `json:"games"`
}
