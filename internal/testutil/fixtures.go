package testutil

import (
	"time"

	"mlb-games-service/internal/domain"
)

// NowAt returns a clock function fixed at the provided time.
func NowAt(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// MustParseRFC3339 parses an RFC3339 timestamp or panics; intended for tests.
func MustParseRFC3339(v string) time.Time {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		panic(err)
	}
	return t
}

// SampleGame returns a minimal final game fixture with the provided id.
func SampleGame(id string) domain.Game {
	return domain.Game{
		ID:       id,
		GameType: domain.GameTypeRegular,
		Date:     MustParseRFC3339("2024-06-01T19:10:00Z"),
		Status: domain.GameStatus{
			AbstractGameState: "Final",
			DetailedState:     "Final",
			StatusCode:        "F",
			IsFinal:           true,
		},
		Venue:    "Fenway Park",
		HomeTeam: domain.Team{ID: 111, Name: "Boston Red Sox", Abbreviation: "BOS"},
		AwayTeam: domain.Team{ID: 147, Name: "New York Yankees", Abbreviation: "NYY"},
		Score:    domain.Score{Home: 2, Away: 4},
	}
}

// SampleGameList wraps the provided ids into a single-page GameList.
func SampleGameList(ids ...string) domain.GameList {
	games := make([]domain.Game, len(ids))
	for i, id := range ids {
		games[i] = SampleGame(id)
	}
	return domain.GameList{
		TotalItems: len(games),
		Page:       1,
		Games:      games,
	}
}
