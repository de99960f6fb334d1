package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"mlb-games-service/internal/domain"
	"mlb-games-service/internal/providers/statsapi"
)

// batchSummaryPrompt asks for a strict JSON object of trilingual summaries
// keyed by game ID. The game payload is embedded as indented JSON so the
// model sees the same shape the API serves.
func batchSummaryPrompt(games []domain.Game) string {
	payload, err := json.MarshalIndent(domain.GameList{TotalItems: len(games), Games: games}, "", "  ")
	if err != nil {
		payload = []byte("{}")
	}

	return fmt.Sprintf(`You are a specialized MLB game summarizer. Your task is to create concise game summaries in a strict JSON format.

Game Data:
%s

Instructions:
1. Create a JSON object with game IDs as keys and language-specific summaries as values
2. For each game, provide summaries in three languages (en, es, ja):
   - English (en): Original summary
   - Spanish (es): Spanish translation
   - Japanese (ja): Japanese translation
3. Each summary should be 2-3 sentences highlighting:
   - Final score and winning team
   - Key performances (top performer, winning pitcher)
   - Notable plays from events list
4. Use specific stats (hits, errors) to add context
5. Return ONLY the JSON object, no additional text

Format:
{
    "<game_id>": {
        "en": "English summary",
        "es": "Spanish summary",
        "ja": "Japanese summary"
    }
}`, payload)
}

// recapPrompt builds the single-game recap prompt from the deep stats
// extraction. Missing stats degrade to their section placeholders rather
// than failing the prompt.
func recapPrompt(game domain.Game, stats *statsapi.GameStats) string {
	winner, loser, winnerScore, loserScore := game.Winner()

	winningPitcher := "N/A"
	if stats != nil && stats.Decisions.Winner != "" {
		winningPitcher = stats.Decisions.Winner
	}

	return fmt.Sprintf(`MLB Game Recap:
%s defeated %s %d-%d

Key Stats:
%s

Winning Pitcher: %s

Highlights:
%s

Provide a concise 2-3 sentence recap focusing on the final score and key performances.`,
		winner.Name, loser.Name, winnerScore, loserScore,
		formatTeamStats(stats), winningPitcher, formatKeyPlays(stats))
}

func formatTeamStats(stats *statsapi.GameStats) string {
	if stats == nil || len(stats.TeamStats) == 0 {
		return "No team stats recorded"
	}

	var lines []string
	for _, side := range []string{"away", "home"} {
		team, ok := stats.TeamStats[side]
		if !ok {
			continue
		}
		lines = append(lines,
			fmt.Sprintf("Team %s Batting:", side),
			fmt.Sprintf("- Hits: %d", team.Batting.Hits),
			fmt.Sprintf("- Runs: %d", team.Batting.Runs),
			fmt.Sprintf("- Strikeouts: %d", team.Batting.Strikeouts),
			fmt.Sprintf("- Walks: %d", team.Batting.Walks),
		)
		for _, h := range team.Batting.Highlights {
			lines = append(lines, fmt.Sprintf("- %s: %d H, %d HR, %d RBI", h.PlayerName, h.Hits, h.HomeRuns, h.RBI))
		}
		lines = append(lines, fmt.Sprintf("\nTeam %s Pitching:", side))
		for _, h := range team.Pitching.Highlights {
			lines = append(lines, fmt.Sprintf("- %s: %s IP, %d K, %d ER", h.PlayerName, h.InningsPitched, h.Strikeouts, h.EarnedRuns))
		}
	}
	return strings.Join(lines, "\n")
}

func formatKeyPlays(stats *statsapi.GameStats) string {
	if stats == nil || len(stats.KeyPlays) == 0 {
		return "No key plays recorded"
	}
	var lines []string
	for _, play := range stats.KeyPlays {
		lines = append(lines, fmt.Sprintf("- %d %s: %s", play.Inning, play.HalfInning, play.Description))
	}
	return strings.Join(lines, "\n")
}
