package assessment

import (
	"time"

	"readiness-backend/internal/aggregate"
	"readiness-backend/internal/responses"
	"readiness-backend/internal/scoring"
	"readiness-backend/internal/zscore"
)

// Request is one session submitted for assessment.
type Request struct {
	SubjectID string                     `json:"subjectId"`
	Responses []responses.ResponseRecord `json:"responses"`
}

// Assessment is the outcome of a session. Sections whose engine did not run
// are nil.
type Assessment struct {
	ID          string                `json:"assessmentId"`
	SubjectID   string                `json:"subjectId,omitempty"`
	GeneratedAt time.Time             `json:"generatedAt"`
	Categories  *scoring.Result       `json:"categories,omitempty"`
	Aggregate   *aggregate.Statistics `json:"aggregate,omitempty"`
	Readiness   *zscore.Result        `json:"readiness,omitempty"`
	Advisories  []scoring.Advisory    `json:"advisories"`
	AllClear    bool                  `json:"allClear"`
	Report      string                `json:"report"`
	ReportID    string                `json:"reportId,omitempty"`
	StorageKey  string                `json:"storageKey,omitempty"`
}

// OpenResult is the aggregator and readiness output for the open-ended part
// of a session.
type OpenResult struct {
	Aggregate aggregate.Statistics `json:"aggregate"`
	Readiness zscore.Result        `json:"readiness"`
	AllClear  bool                 `json:"allClear"`
}
