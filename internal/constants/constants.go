package constants

// Session / context keys
const (
	ContextKeyUserID       = "user_id"
	ContextKeyOrganization = "organization"
	ContextKeyRequestID    = "request_id"
)

// Pagination limits
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Auth
const (
	MinPasswordLength = 8
)

// MetricNames is the fixed set of interview metrics. Aggregations always
// report an average for every name here, even when no record carries it.
var MetricNames = []string{
	"selfIntro",
	"communication",
	"confidence",
	"dsa",
	"problemSolving",
	"projectUnderstanding",
	"techStack",
	"roleExplanation",
	"teamwork",
	"adaptability",
}

// Metric value bounds (inclusive).
const (
	MetricMinValue = 1
	MetricMaxValue = 10
)

// DefaultCheckpointNames is the checkpoint sequence assigned to new teams.
var DefaultCheckpointNames = []string{
	"Ideation",
	"Work Split",
	"Local Done",
	"Hosted",
}

// UnknownDepartment is the bucket used in roll-ups for students without a department.
const UnknownDepartment = "Unknown"

// NoDomain is the bucket used in statistics for teams without a domain.
const NoDomain = "No Domain"

// MaxTopPerformers is the number of entries returned in top-performer listings.
const MaxTopPerformers = 5
