package statsapi

import (
	"strconv"
	"time"

	"mlb-games-service/internal/domain"
	"mlb-games-service/internal/timeutil"
)

// EventFilter selects which play event types qualify as notable.
// The schedule and stats extraction paths use different sets, so the filter
// stays configurable per call site rather than unified.
type EventFilter map[string]struct{}

// NewEventFilter builds a filter from a list of event type names.
func NewEventFilter(types ...string) EventFilter {
	filter := make(EventFilter, len(types))
	for _, t := range types {
		filter[t] = struct{}{}
	}
	return filter
}

// Notable reports whether a play qualifies: it must be complete, and either
// drive in a run or match one of the filtered event types.
func (f EventFilter) Notable(play Play) bool {
	if !play.About.IsComplete {
		return false
	}
	if play.Result.RBI > 0 {
		return true
	}
	_, ok := f[play.Result.Event]
	return ok
}

var (
	// ScheduleEvents qualifies plays on the schedule-level extraction path.
	ScheduleEvents = NewEventFilter("Home Run", "Triple", "Double")
	// StatsEvents qualifies plays on the recap stats extraction path.
	StatsEvents = NewEventFilter("Home Run", "Strikeout", "Walk")
)

// Normalizer converts a raw stub plus deep detail into the canonical Game.
type Normalizer struct {
	events EventFilter
}

// NewNormalizer constructs a Normalizer; a nil filter uses ScheduleEvents.
func NewNormalizer(events EventFilter) *Normalizer {
	if events == nil {
		events = ScheduleEvents
	}
	return &Normalizer{events: events}
}

// Normalize returns the canonical Game for a stub+detail pair, or nil when a
// required field is missing or unparseable. A nil result drops only that one
// game; it never aborts the batch.
func (n *Normalizer) Normalize(stub GameStub, detail *GameDetail) *domain.Game {
	if detail == nil {
		return nil
	}
	if stub.GamePk == 0 || stub.Status == nil || stub.Venue == nil {
		return nil
	}
	if stub.Teams == nil || stub.Teams.Home == nil || stub.Teams.Away == nil ||
		stub.Teams.Home.Team == nil || stub.Teams.Away.Team == nil {
		return nil
	}

	gameType := domain.GameType(stub.GameType)
	switch gameType {
	case domain.GameTypeRegular, domain.GameTypePostseason, domain.GameTypeSpring:
	default:
		return nil
	}

	date, err := time.Parse(gameDateLayout, stub.GameDate)
	if err != nil {
		// Some schedule rows carry only the calendar date.
		date, err = timeutil.ParseDate(stub.OfficialDate)
		if err != nil {
			return nil
		}
	}

	game := &domain.Game{
		ID:       stub.ID(),
		GameType: gameType,
		Date:     date.UTC(),
		Status: domain.GameStatus{
			AbstractGameState: stub.Status.AbstractGameState,
			DetailedState:     stub.Status.DetailedState,
			StatusCode:        stub.Status.StatusCode,
			IsFinal:           stub.Status.AbstractGameState == "Final",
		},
		Venue: stub.Venue.Name,
		HomeTeam: domain.Team{
			ID:           stub.Teams.Home.Team.ID,
			Name:         stub.Teams.Home.Team.Name,
			Abbreviation: stub.Teams.Home.Team.Abbreviation,
		},
		AwayTeam: domain.Team{
			ID:           stub.Teams.Away.Team.ID,
			Name:         stub.Teams.Away.Team.Name,
			Abbreviation: stub.Teams.Away.Team.Abbreviation,
		},
		Score: domain.Score{
			Home: intOrZero(stub.Teams.Home.Score),
			Away: intOrZero(stub.Teams.Away.Score),
		},
		WinningPitcher: detail.LiveData.Decisions.Winner.FullName,
		TopPerformer:   topPerformer(detail.LiveData.Boxscore),
		Events:         n.notableEvents(detail.LiveData.Plays.AllPlays),
	}

	if stub.Linescore != nil && stub.Linescore.Teams != nil {
		game.HomeHits = stub.Linescore.Teams.Home.Hits
		game.AwayHits = stub.Linescore.Teams.Away.Hits
		game.HomeErrors = stub.Linescore.Teams.Home.Errors
		game.AwayErrors = stub.Linescore.Teams.Away.Errors
	}

	return game
}

// topPerformer scans both teams' players in source payload order, tracking a
// running (hits, RBI) maximum. Hits win outright; RBI breaks hit ties. Exact
// ties on both dimensions keep the first-seen leader.
func topPerformer(boxscore Boxscore) string {
	var (
		name    string
		maxHits int
		maxRBI  int
	)
	for _, team := range []BoxscoreTeam{boxscore.Teams.Away, boxscore.Teams.Home} {
		for _, player := range team.Players {
			hits := player.Stats.Batting.Hits
			rbi := player.Stats.Batting.RBI
			if hits > maxHits || (hits == maxHits && rbi > maxRBI) {
				maxHits = hits
				maxRBI = rbi
				name = player.Person.FullName
			}
		}
	}
	return name
}

// notableEvents keeps qualifying plays in source play order, never re-sorted.
func (n *Normalizer) notableEvents(plays []Play) []domain.Event {
	var events []domain.Event
	for _, play := range plays {
		if !n.events.Notable(play) {
			continue
		}
		events = append(events, domain.Event{
			Inning:      strconv.Itoa(play.About.Inning),
			Title:       play.Result.Event,
			Description: play.Result.Description,
		})
	}
	return events
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
