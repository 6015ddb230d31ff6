package reports

import "time"

// ReportResponse is the outward-facing representation of a stored report.
type ReportResponse struct {
	ReportID        string    `json:"reportId"`
	SubjectID       string    `json:"subjectId,omitempty"`
	GeneratedAt     time.Time `json:"generatedAt"`
	StorageProvider string    `json:"storageProvider"`
	StorageKey      string    `json:"storageKey"`
	SizeBytes       int64     `json:"sizeBytes"`
	TotalScore      *float64  `json:"totalScore,omitempty"`
	Tier            string    `json:"tier,omitempty"`
	ReadinessScore  *float64  `json:"readinessScore,omitempty"`
	AllClear        bool      `json:"allClear"`
	Text            string    `json:"text"`
}

func toResponse(rep Report) ReportResponse {
	return ReportResponse{
		ReportID:        rep.ID,
		SubjectID:       rep.SubjectID,
		GeneratedAt:     rep.GeneratedAt,
		StorageProvider: rep.StorageProvider,
		StorageKey:      rep.StorageKey,
		SizeBytes:       rep.SizeBytes,
		TotalScore:      rep.TotalScore,
		Tier:            rep.Tier,
		ReadinessScore:  rep.ReadinessScore,
		AllClear:        rep.AllClear,
		Text:            rep.Body,
	}
}
