package reports

import "time"

// Report is the stored record of one rendered readiness report.
type Report struct {
	ID              string
	SubjectID       string
	SubjectKey      string
	GeneratedAt     time.Time
	StorageProvider string
	StorageKey      string
	SizeBytes       int64
	TotalScore      *float64
	Tier            string
	ReadinessScore  *float64
	AllClear        bool
	Body            string
	CreatedAt       time.Time
}

// Artifact is what callers hand to Persist: the rendered text plus the
// headline numbers worth indexing.
type Artifact struct {
	ID             string
	SubjectID      string
	GeneratedAt    time.Time
	Body           string
	TotalScore     *float64
	Tier           string
	ReadinessScore *float64
	AllClear       bool
}
