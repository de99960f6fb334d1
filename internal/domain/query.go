package domain

// Query defaults applied by Normalize.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// GamesQuery identifies one logical games request. The normalized form is
// used for both cache reads and cache writes so keys stay reachable.
type GamesQuery struct {
	Season   int
	TeamID   int
	Page     int
	PageSize int
}

// Normalize applies defaults and clamps so equal logical queries compare equal.
func (q GamesQuery) Normalize() GamesQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	if q.TeamID < 0 {
		q.TeamID = 0
	}
	return q
}
