package metrics

// Attribute keys shared by otel instruments.
const (
	AttrMethod = "method"
	AttrPath   = "path"
	AttrStatus = "status"
	AttrSource = "source"
	AttrModel  = "model"
)

// Upstream source labels.
const (
	SourceSchedule = "schedule"
	SourceDetail   = "detail"
	SourceGemini   = "gemini"
)
