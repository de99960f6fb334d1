package cache

import (
	"fmt"

	"mlb-games-service/internal/domain"
)

// keyPrefix versions the cache namespace. Bump it when the cached payload
// shape changes so stale entries from older deploys are never decoded.
const keyPrefix = "games:v1"

// teamWildcard stands in for "no team filter" so the key segment count is
// fixed regardless of which filters a query carries.
const teamWildcard = "none"

// KeyForQuery derives the cache key for a games list query. The query is
// normalized first so the read and write paths always agree on the key.
func KeyForQuery(q domain.GamesQuery) string {
	q = q.Normalize()
	team := teamWildcard
	if q.TeamID > 0 {
		team = fmt.Sprintf("%d", q.TeamID)
	}
	return fmt.Sprintf("%s:%d:%s:%d:%d", keyPrefix, q.Season, team, q.Page, q.PageSize)
}

// KeyForGame derives the cache key for a single game record.
func KeyForGame(gameID string) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, gameID)
}
