package enrich

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"mlb-games-service/internal/domain"
)

// Languages is the set of summary languages every enriched game carries.
var Languages = []string{"en", "es", "ja"}

// FallbackSummary builds the local trilingual summary used when the model
// returned nothing usable for a game. It only needs data already present on
// the normalized game.
func FallbackSummary(game domain.Game) map[string]string {
	away, home := game.AwayTeam.Name, game.HomeTeam.Name
	awayScore, homeScore := game.Score.Away, game.Score.Home
	return map[string]string{
		"en": fmt.Sprintf("%s vs %s - Final score: %d-%d", away, home, awayScore, homeScore),
		"es": fmt.Sprintf("%s vs %s - Resultado final: %d-%d", away, home, awayScore, homeScore),
		"ja": fmt.Sprintf("%s vs %s - 最終スコア: %d-%d", away, home, awayScore, homeScore),
	}
}

// placeholder names the missing language in English so partial model output
// still yields a complete language map.
func placeholder(code string) string {
	name := code
	if tag, err := language.Parse(code); err == nil {
		if display := display.English.Languages().Name(tag); display != "" {
			name = display
		}
	}
	return fmt.Sprintf("No %s summary available.", name)
}
