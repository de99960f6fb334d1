package statsapi

// GameStats carries the recap-oriented extraction of a deep game record.
// It feeds the single-game recap prompt and is never cached.
type GameStats struct {
	TeamStats    map[string]TeamStats `json:"teamStats"`
	KeyPlays     []KeyPlay            `json:"keyPlays"`
	ScoringPlays []int                `json:"scoringPlays"`
	Decisions    DecisionNames        `json:"decisions"`
	GameInfo     RecapGameInfo        `json:"gameInfo"`
}

type TeamStats struct {
	Batting  TeamBatting  `json:"batting"`
	Pitching TeamPitching `json:"pitching"`
}

type TeamBatting struct {
	Hits       int                `json:"hits"`
	Runs       int                `json:"runs"`
	Strikeouts int                `json:"strikeouts"`
	Walks      int                `json:"walks"`
	Avg        string             `json:"avg"`
	Highlights []BattingHighlight `json:"battingHighlights"`
}

type BattingHighlight struct {
	PlayerName string `json:"playerName"`
	Hits       int    `json:"hits"`
	HomeRuns   int    `json:"homeRuns"`
	RBI        int    `json:"rbi"`
	Avg        string `json:"avg"`
}

type TeamPitching struct {
	Strikeouts int                 `json:"strikeouts"`
	Walks      int                 `json:"walks"`
	EarnedRuns int                 `json:"earnedRuns"`
	Era        string              `json:"era"`
	Highlights []PitchingHighlight `json:"pitchingHighlights"`
}

type PitchingHighlight struct {
	PlayerName     string `json:"playerName"`
	InningsPitched string `json:"inningsPitched"`
	Strikeouts     int    `json:"strikeouts"`
	Walks          int    `json:"walks"`
	EarnedRuns     int    `json:"earnedRuns"`
	Era            string `json:"era"`
}

type KeyPlay struct {
	Inning      int    `json:"inning"`
	HalfInning  string `json:"halfInning"`
	Description string `json:"description"`
	RBI         int    `json:"rbi"`
	Event       string `json:"event"`
	Batter      string `json:"batter"`
	Pitcher     string `json:"pitcher"`
}

type DecisionNames struct {
	Winner string `json:"winner"`
	Loser  string `json:"loser"`
	Save   string `json:"save"`
}

type RecapGameInfo struct {
	Venue           string  `json:"venue"`
	Weather         Weather `json:"weather"`
	Attendance      int     `json:"attendance"`
	DurationMinutes int     `json:"gameDurationMinutes"`
}

// ExtractGameStats pulls team totals, per-player highlights, and key plays
// out of a deep game record. The filter decides which plays qualify; the
// recap path uses StatsEvents.
func ExtractGameStats(detail *GameDetail, filter EventFilter) *GameStats {
	if detail == nil {
		return nil
	}
	if filter == nil {
		filter = StatsEvents
	}

	stats := &GameStats{
		TeamStats: map[string]TeamStats{
			"away": extractTeamStats(detail.LiveData.Boxscore.Teams.Away),
			"home": extractTeamStats(detail.LiveData.Boxscore.Teams.Home),
		},
		ScoringPlays: detail.LiveData.Plays.ScoringPlays,
		Decisions: DecisionNames{
			Winner: detail.LiveData.Decisions.Winner.FullName,
			Loser:  detail.LiveData.Decisions.Loser.FullName,
			Save:   detail.LiveData.Decisions.Save.FullName,
		},
		GameInfo: RecapGameInfo{
			Venue:           detail.GameData.Venue.Name,
			Weather:         detail.GameData.Weather,
			Attendance:      detail.GameData.Attendance,
			DurationMinutes: detail.GameData.GameInfo.GameDurationMinutes,
		},
	}

	for _, play := range detail.LiveData.Plays.AllPlays {
		if !filter.Notable(play) {
			continue
		}
		stats.KeyPlays = append(stats.KeyPlays, KeyPlay{
			Inning:      play.About.Inning,
			HalfInning:  play.About.HalfInning,
			Description: play.Result.Description,
			RBI:         play.Result.RBI,
			Event:       play.Result.Event,
			Batter:      play.Matchup.Batter.FullName,
			Pitcher:     play.Matchup.Pitcher.FullName,
		})
	}

	return stats
}

func extractTeamStats(team BoxscoreTeam) TeamStats {
	stats := TeamStats{
		Batting: TeamBatting{
			Hits:       team.TeamStats.Batting.Hits,
			Runs:       team.TeamStats.Batting.Runs,
			Strikeouts: team.TeamStats.Batting.StrikeOuts,
			Walks:      team.TeamStats.Batting.BaseOnBalls,
			Avg:        team.TeamStats.Batting.Avg,
		},
		Pitching: TeamPitching{
			Strikeouts: team.TeamStats.Pitching.StrikeOuts,
			Walks:      team.TeamStats.Pitching.BaseOnBalls,
			EarnedRuns: team.TeamStats.Pitching.EarnedRuns,
			Era:        team.TeamStats.Pitching.Era,
		},
	}

	for _, player := range team.Players {
		if player.Stats.Batting.Hits > 0 {
			stats.Batting.Highlights = append(stats.Batting.Highlights, BattingHighlight{
				PlayerName: player.Person.FullName,
				Hits:       player.Stats.Batting.Hits,
				HomeRuns:   player.Stats.Batting.HomeRuns,
				RBI:        player.Stats.Batting.RBI,
				Avg:        player.Stats.Batting.Avg,
			})
		}
		if played(player.Stats.Pitching.InningsPitched) {
			stats.Pitching.Highlights = append(stats.Pitching.Highlights, PitchingHighlight{
				PlayerName:     player.Person.FullName,
				InningsPitched: player.Stats.Pitching.InningsPitched,
				Strikeouts:     player.Stats.Pitching.StrikeOuts,
				Walks:          player.Stats.Pitching.BaseOnBalls,
				EarnedRuns:     player.Stats.Pitching.EarnedRuns,
				Era:            player.Stats.Pitching.Era,
			})
		}
	}

	return stats
}

// played reports whether the upstream inningsPitched string records any work.
func played(inningsPitched string) bool {
	return inningsPitched != "" && inningsPitched != "0.0"
}
