package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestWithSummaryDoesNotMutateOriginal(t *testing.T) {
	original := Game{ID: "1"}
	enriched := original.WithSummary(map[string]string{"en": "recap"})

	if original.Summary != nil {
		t.Fatalf("expected original summary to remain nil, got %v", original.Summary)
	}
	if enriched.Summary["en"] != "recap" {
		t.Fatalf("expected enriched summary, got %v", enriched.Summary)
	}
}

func TestWithCachedAtDoesNotMutateOriginal(t *testing.T) {
	original := Game{ID: "1"}
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	stamped := original.WithCachedAt(at)

	if original.CachedAt != nil {
		t.Fatal("expected original cachedAt to remain nil")
	}
	if stamped.CachedAt == nil || !stamped.CachedAt.Equal(at) {
		t.Fatalf("expected stamped cachedAt %v, got %v", at, stamped.CachedAt)
	}
}

func TestWinner(t *testing.T) {
	game := Game{
		HomeTeam: Team{Name: "Dodgers"},
		AwayTeam: Team{Name: "Giants"},
		Score:    Score{Home: 2, Away: 5},
	}

	winner, loser, winScore, loseScore := game.Winner()
	if winner.Name != "Giants" || loser.Name != "Dodgers" {
		t.Fatalf("unexpected winner/loser: %s/%s", winner.Name, loser.Name)
	}
	if winScore != 5 || loseScore != 2 {
		t.Fatalf("unexpected scores: %d-%d", winScore, loseScore)
	}
}

func TestOptionalFieldsOmittedFromJSON(t *testing.T) {
	data, err := json.Marshal(Game{ID: "1"})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	for _, field := range []string{"homeHits", "topPerformer", "winningPitcher", "events", "summary", "cachedAt"} {
		if _, ok := raw[field]; ok {
			t.Fatalf("expected %s to be omitted when unset", field)
		}
	}
}

func TestGamesQueryNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   GamesQuery
		want GamesQuery
	}{
		{"defaults", GamesQuery{Season: 2024}, GamesQuery{Season: 2024, Page: 1, PageSize: 10}},
		{"clamped page size", GamesQuery{Season: 2024, Page: 2, PageSize: 500}, GamesQuery{Season: 2024, Page: 2, PageSize: 100}},
		{"negative team", GamesQuery{Season: 2024, TeamID: -1, Page: 1, PageSize: 10}, GamesQuery{Season: 2024, Page: 1, PageSize: 10}},
		{"already normalized", GamesQuery{Season: 2023, TeamID: 147, Page: 3, PageSize: 25}, GamesQuery{Season: 2023, TeamID: 147, Page: 3, PageSize: 25}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.Normalize(); got != tc.want {
				t.Fatalf("Normalize() = %+v, want %+v", got, tc.want)
			}
		})
	}
}
