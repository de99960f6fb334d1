package statsapi

import "time"

const (
	defaultBaseURL      = "https://statsapi.mlb.com/api/v1"
	defaultGumboBaseURL = "https://statsapi.mlb.com/api/v1.1"
	defaultHTTPTimeout  = 30 * time.Second
	defaultSportID      = 1
	defaultStartYear    = 2008

	// gameDateLayout is the fixed upstream timestamp format for gameDate.
	gameDateLayout = "2006-01-02T15:04:05Z"

	// scheduleGameType restricts the season window to regular-season games.
	scheduleGameType = "R"

	scheduleHydrate = "team,venue,linescore"
)
