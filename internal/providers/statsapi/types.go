package statsapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type scheduleResponse struct {
	Dates []scheduleDate `json:"dates"`
}

type scheduleDate struct {
	Games []GameStub `json:"games"`
}

// GameStub is the minimal per-game record from the schedule listing.
// Required nested objects are pointers so the normalizer can tell a missing
// path apart from a zero value.
type GameStub struct {
	GamePk       int64          `json:"gamePk"`
	GameType     string         `json:"gameType"`
	GameDate     string         `json:"gameDate"`
	OfficialDate string         `json:"officialDate"`
	Status       *StubStatus    `json:"status"`
	Teams        *StubTeams     `json:"teams"`
	Venue        *StubVenue     `json:"venue"`
	Linescore    *StubLinescore `json:"linescore"`
}

// ID returns the canonical string form of the game's primary key.
func (s GameStub) ID() string {
	return strconv.FormatInt(s.GamePk, 10)
}

type StubStatus struct {
	AbstractGameState string `json:"abstractGameState"`
	DetailedState     string `json:"detailedState"`
	StatusCode        string `json:"statusCode"`
}

type StubTeams struct {
	Away *StubSide `json:"away"`
	Home *StubSide `json:"home"`
}

type StubSide struct {
	Team  *StubTeam `json:"team"`
	Score *int      `json:"score"`
}

type StubTeam struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

type StubVenue struct {
	Name string `json:"name"`
}

type StubLinescore struct {
	Teams *LinescoreTeams `json:"teams"`
}

type LinescoreTeams struct {
	Away LinescoreSide `json:"away"`
	Home LinescoreSide `json:"home"`
}

type LinescoreSide struct {
	Runs   *int `json:"runs"`
	Hits   *int `json:"hits"`
	Errors *int `json:"errors"`
}

// GameDetail is the deep per-game record from the GUMBO live feed.
type GameDetail struct {
	GameData GameData `json:"gameData"`
	LiveData LiveData `json:"liveData"`
}

type GameData struct {
	Venue      DetailVenue `json:"venue"`
	Weather    Weather     `json:"weather"`
	Attendance int         `json:"attendance"`
	GameInfo   GameInfo    `json:"gameInfo"`
}

type DetailVenue struct {
	Name string `json:"name"`
}

type Weather struct {
	Condition string `json:"condition"`
	Temp      string `json:"temp"`
	Wind      string `json:"wind"`
}

type GameInfo struct {
	GameDurationMinutes int `json:"gameDurationMinutes"`
}

type LiveData struct {
	Boxscore  Boxscore  `json:"boxscore"`
	Plays     Plays     `json:"plays"`
	Decisions Decisions `json:"decisions"`
	Linescore Linescore `json:"linescore"`
}

type Boxscore struct {
	Teams BoxscoreTeams `json:"teams"`
}

type BoxscoreTeams struct {
	Away BoxscoreTeam `json:"away"`
	Home BoxscoreTeam `json:"home"`
}

type BoxscoreTeam struct {
	TeamStats StatGroups `json:"teamStats"`
	Players   PlayerList `json:"players"`
}

type StatGroups struct {
	Batting  BattingStats  `json:"batting"`
	Pitching PitchingStats `json:"pitching"`
}

type BattingStats struct {
	Hits        int    `json:"hits"`
	Runs        int    `json:"runs"`
	HomeRuns    int    `json:"homeRuns"`
	RBI         int    `json:"rbi"`
	StrikeOuts  int    `json:"strikeOuts"`
	BaseOnBalls int    `json:"baseOnBalls"`
	Avg         string `json:"avg"`
}

type PitchingStats struct {
	StrikeOuts     int    `json:"strikeOuts"`
	BaseOnBalls    int    `json:"baseOnBalls"`
	EarnedRuns     int    `json:"earnedRuns"`
	Era            string `json:"era"`
	InningsPitched string `json:"inningsPitched"`
}

type Player struct {
	Person PersonRef  `json:"person"`
	Stats  StatGroups `json:"stats"`
}

type PersonRef struct {
	ID       int    `json:"id"`
	FullName string `json:"fullName"`
}

// PlayerList decodes the upstream players object while preserving document
// order. The top-performer tie rule is first-seen-wins, so iteration order
// must match the source payload rather than Go's randomized map order.
type PlayerList []Player

func (p *PlayerList) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("statsapi: players is not an object")
	}

	out := PlayerList{}
	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return err
		}
		var player Player
		if err := dec.Decode(&player); err != nil {
			return err
		}
		out = append(out, player)
	}

	*p = out
	return nil
}

type Plays struct {
	AllPlays     []Play `json:"allPlays"`
	ScoringPlays []int  `json:"scoringPlays"`
}

type Play struct {
	About   PlayAbout   `json:"about"`
	Result  PlayResult  `json:"result"`
	Matchup PlayMatchup `json:"matchup"`
}

type PlayAbout struct {
	Inning     int    `json:"inning"`
	HalfInning string `json:"halfInning"`
	IsComplete bool   `json:"isComplete"`
}

type PlayResult struct {
	Event       string `json:"event"`
	Description string `json:"description"`
	RBI         int    `json:"rbi"`
}

type PlayMatchup struct {
	Batter  PersonRef `json:"batter"`
	Pitcher PersonRef `json:"pitcher"`
}

type Decisions struct {
	Winner PersonRef `json:"winner"`
	Loser  PersonRef `json:"loser"`
	Save   PersonRef `json:"save"`
}

type Linescore struct {
	Teams LinescoreTeams `json:"teams"`
}
