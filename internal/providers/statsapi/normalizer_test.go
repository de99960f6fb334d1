package statsapi

import (
	"testing"
	"time"

	"mlb-games-service/internal/domain"
)

func intPtr(v int) *int { return &v }

func validStub() GameStub {
	return GameStub{
		GamePk:   745123,
		GameType: "R",
		GameDate: "2024-06-01T19:10:00Z",
		Status: &StubStatus{
			AbstractGameState: "Final",
			DetailedState:     "Final",
			StatusCode:        "F",
		},
		Teams: &StubTeams{
			Away: &StubSide{
				Team:  &StubTeam{ID: 147, Name: "New York Yankees", Abbreviation: "NYY"},
				Score: intPtr(4),
			},
			Home: &StubSide{
				Team:  &StubTeam{ID: 111, Name: "Boston Red Sox", Abbreviation: "BOS"},
				Score: intPtr(2),
			},
		},
		Venue: &StubVenue{Name: "Fenway Park"},
		Linescore: &StubLinescore{
			Teams: &LinescoreTeams{
				Away: LinescoreSide{Hits: intPtr(9), Errors: intPtr(0)},
				Home: LinescoreSide{Hits: intPtr(5), Errors: intPtr(1)},
			},
		},
	}
}

func batter(name string, hits, rbi int) Player {
	return Player{
		Person: PersonRef{FullName: name},
		Stats:  StatGroups{Batting: BattingStats{Hits: hits, RBI: rbi}},
	}
}

func TestNormalizeMapsRequiredFields(t *testing.T) {
	n := NewNormalizer(nil)
	detail := &GameDetail{}
	detail.LiveData.Decisions.Winner = PersonRef{FullName: "Gerrit Cole"}

	game := n.Normalize(validStub(), detail)
	if game == nil {
		t.Fatal("expected game, got nil")
	}

	if game.ID != "745123" {
		t.Fatalf("unexpected id %s", game.ID)
	}
	if game.GameType != domain.GameTypeRegular {
		t.Fatalf("unexpected game type %s", game.GameType)
	}
	want := time.Date(2024, 6, 1, 19, 10, 0, 0, time.UTC)
	if !game.Date.Equal(want) {
		t.Fatalf("unexpected date %v", game.Date)
	}
	if !game.Status.IsFinal {
		t.Fatal("expected final game")
	}
	if game.Venue != "Fenway Park" {
		t.Fatalf("unexpected venue %s", game.Venue)
	}
	if game.Score.Away != 4 || game.Score.Home != 2 {
		t.Fatalf("unexpected score %+v", game.Score)
	}
	if game.WinningPitcher != "Gerrit Cole" {
		t.Fatalf("unexpected winning pitcher %s", game.WinningPitcher)
	}
	if game.AwayHits == nil || *game.AwayHits != 9 {
		t.Fatalf("unexpected away hits %v", game.AwayHits)
	}
	if game.HomeErrors == nil || *game.HomeErrors != 1 {
		t.Fatalf("unexpected home errors %v", game.HomeErrors)
	}
	if game.CachedAt != nil {
		t.Fatal("normalization must not set cachedAt")
	}
}

func TestNormalizeIsFinalRequiresExactMatch(t *testing.T) {
	n := NewNormalizer(nil)
	stub := validStub()
	stub.Status.AbstractGameState = "Live"

	game := n.Normalize(stub, &GameDetail{})
	if game == nil {
		t.Fatal("expected game")
	}
	if game.Status.IsFinal {
		t.Fatal("expected non-final for Live state")
	}
}

func TestNormalizeMissingScoreDefaultsToZero(t *testing.T) {
	n := NewNormalizer(nil)
	stub := validStub()
	stub.Status.AbstractGameState = "Preview"
	stub.Teams.Away.Score = nil
	stub.Teams.Home.Score = nil

	game := n.Normalize(stub, &GameDetail{})
	if game == nil {
		t.Fatal("expected pre-game stub to normalize")
	}
	if game.Score.Home != 0 || game.Score.Away != 0 {
		t.Fatalf("expected zero score, got %+v", game.Score)
	}
}

func TestNormalizeFallsBackToOfficialDate(t *testing.T) {
	n := NewNormalizer(nil)
	stub := validStub()
	stub.GameDate = ""
	stub.OfficialDate = "2024-06-01"

	game := n.Normalize(stub, &GameDetail{})
	if game == nil {
		t.Fatal("expected stub with only an official date to normalize")
	}
	want := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if !game.Date.Equal(want) {
		t.Fatalf("expected date %v, got %v", want, game.Date)
	}
}

func TestNormalizeFailures(t *testing.T) {
	n := NewNormalizer(nil)

	cases := []struct {
		name   string
		mutate func(*GameStub)
		detail *GameDetail
	}{
		{"nil detail", func(s *GameStub) {}, nil},
		{"missing gamePk", func(s *GameStub) { s.GamePk = 0 }, &GameDetail{}},
		{"missing status", func(s *GameStub) { s.Status = nil }, &GameDetail{}},
		{"missing teams", func(s *GameStub) { s.Teams = nil }, &GameDetail{}},
		{"missing home team ref", func(s *GameStub) { s.Teams.Home.Team = nil }, &GameDetail{}},
		{"missing venue", func(s *GameStub) { s.Venue = nil }, &GameDetail{}},
		{"bad timestamp", func(s *GameStub) { s.GameDate = "2024-06-01 19:10" }, &GameDetail{}},
		{"unknown game type", func(s *GameStub) { s.GameType = "X" }, &GameDetail{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := validStub()
			tc.mutate(&stub)
			if game := n.Normalize(stub, tc.detail); game != nil {
				t.Fatalf("expected nil, got %+v", game)
			}
		})
	}
}

func TestTopPerformerRBIBreaksHitTie(t *testing.T) {
	var box Boxscore
	box.Teams.Away.Players = PlayerList{
		batter("First Player", 3, 1),
		batter("Second Player", 3, 2),
	}

	if got := topPerformer(box); got != "Second Player" {
		t.Fatalf("expected RBI tiebreak winner, got %q", got)
	}
}

func TestTopPerformerExactTieKeepsFirstSeen(t *testing.T) {
	var box Boxscore
	box.Teams.Away.Players = PlayerList{
		batter("First Player", 3, 2),
		batter("Second Player", 3, 2),
	}

	if got := topPerformer(box); got != "First Player" {
		t.Fatalf("expected first-seen winner, got %q", got)
	}
}

func TestTopPerformerScansBothTeams(t *testing.T) {
	var box Boxscore
	box.Teams.Away.Players = PlayerList{batter("Away Batter", 2, 0)}
	box.Teams.Home.Players = PlayerList{batter("Home Batter", 4, 1)}

	if got := topPerformer(box); got != "Home Batter" {
		t.Fatalf("expected home batter, got %q", got)
	}
}

func TestNotableEventsKeepSourceOrder(t *testing.T) {
	n := NewNormalizer(nil)
	plays := []Play{
		{About: PlayAbout{Inning: 1, IsComplete: true}, Result: PlayResult{Event: "Home Run", Description: "leadoff shot"}},
		{About: PlayAbout{Inning: 2, IsComplete: true}, Result: PlayResult{Event: "Groundout"}},
		{About: PlayAbout{Inning: 3, IsComplete: true}, Result: PlayResult{Event: "Single", RBI: 2, Description: "two-run single"}},
		{About: PlayAbout{Inning: 4, IsComplete: false}, Result: PlayResult{Event: "Double"}},
		{About: PlayAbout{Inning: 9, IsComplete: true}, Result: PlayResult{Event: "Triple"}},
	}

	events := n.notableEvents(plays)
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].Inning != "1" || events[1].Inning != "3" || events[2].Inning != "9" {
		t.Fatalf("events out of source order: %+v", events)
	}
	if events[1].Title != "Single" || events[1].Description != "two-run single" {
		t.Fatalf("unexpected event payload: %+v", events[1])
	}
}

func TestEventFiltersDifferPerPath(t *testing.T) {
	strikeout := Play{About: PlayAbout{IsComplete: true}, Result: PlayResult{Event: "Strikeout"}}
	double := Play{About: PlayAbout{IsComplete: true}, Result: PlayResult{Event: "Double"}}

	if ScheduleEvents.Notable(strikeout) {
		t.Fatal("schedule path must not include strikeouts")
	}
	if !StatsEvents.Notable(strikeout) {
		t.Fatal("stats path must include strikeouts")
	}
	if !ScheduleEvents.Notable(double) {
		t.Fatal("schedule path must include doubles")
	}
	if StatsEvents.Notable(double) {
		t.Fatal("stats path must not include doubles")
	}
}
