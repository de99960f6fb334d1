package logging

// Common structured log field keys to keep logs searchable/consistent.
const (
	FieldService    = "service"
	FieldVersion    = "version"
	FieldRequestID  = "request_id"
	FieldPath       = "path"
	FieldMethod     = "method"
	FieldStatusCode = "status_code"
	FieldSeason     = "season"
	FieldTeamID     = "team_id"
	FieldGameID     = "game_id"
	FieldCacheKey   = "cache_key"
	FieldCount      = "count"
	FieldDurationMS = "duration_ms"
	FieldModel      = "model"
	FieldLanguage   = "language"
	FieldBatch      = "batch"
)
