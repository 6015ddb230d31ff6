package reports

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"readiness-backend/internal/shared/metrics"
	"readiness-backend/internal/shared/storage/object"
	"readiness-backend/internal/shared/telemetry"
	"readiness-backend/internal/shared/util"
)

const (
	contentType     = "text/plain; charset=utf-8"
	keyTimeLayout   = "20060102_150405"
	reportKeyPrefix = "reports"
)

// Service stores rendered reports in object storage and indexes them in Repo.
type Service struct {
	Store object.ObjectStore
	Repo  Repo
	// Now is the clock used when an artifact carries no timestamp.
	Now func() time.Time
}

// Persist writes the artifact body under a subject-scoped key and records its
// metadata. The stored key is reports/<hashed-subject>/<yyyymmdd_hhmmss>_<id>.txt.
func (s *Service) Persist(ctx context.Context, a Artifact) (Report, error) {
	if s.Store == nil || s.Repo == nil {
		return Report{}, fmt.Errorf("report sink not configured: %w", ErrInvalidInput)
	}
	if strings.TrimSpace(a.Body) == "" {
		return Report{}, fmt.Errorf("empty report body: %w", ErrInvalidInput)
	}

	id := strings.TrimSpace(a.ID)
	if id == "" {
		id = uuid.NewString()
	} else if _, err := uuid.Parse(id); err != nil {
		return Report{}, fmt.Errorf("report id %q: %w", id, ErrInvalidInput)
	}

	generatedAt := a.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = s.now()
	}
	generatedAt = generatedAt.UTC()

	subjectKey := util.HashSubjectKey(a.SubjectID)
	key := StorageKey(subjectKey, generatedAt, id)

	size, err := s.Store.SaveWithKey(ctx, key, contentType, strings.NewReader(a.Body))
	if err != nil {
		return Report{}, fmt.Errorf("store report: %w", err)
	}

	rep := Report{
		ID:              id,
		SubjectID:       strings.TrimSpace(a.SubjectID),
		SubjectKey:      subjectKey,
		GeneratedAt:     generatedAt,
		StorageProvider: s.Store.Provider(),
		StorageKey:      key,
		SizeBytes:       size,
		TotalScore:      a.TotalScore,
		Tier:            a.Tier,
		ReadinessScore:  a.ReadinessScore,
		AllClear:        a.AllClear,
		Body:            a.Body,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.Repo.Create(ctx, rep); err != nil {
		// The object store has no delete; leave a trail for cleanup.
		telemetry.Error("report.orphaned", map[string]any{
			"report_id":   rep.ID,
			"provider":    rep.StorageProvider,
			"storage_key": rep.StorageKey,
			"error":       err.Error(),
		})
		return Report{}, fmt.Errorf("record report: %w", err)
	}

	metrics.IncReportPersisted()
	telemetry.Info("report.persisted", map[string]any{
		"report_id":   rep.ID,
		"provider":    rep.StorageProvider,
		"storage_key": rep.StorageKey,
		"size_bytes":  rep.SizeBytes,
	})
	return rep, nil
}

// Get returns report metadata and body by ID.
func (s *Service) Get(ctx context.Context, id string) (Report, error) {
	id = strings.TrimSpace(id)
	if _, err := uuid.Parse(id); err != nil {
		return Report{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, id)
}

// Open streams the stored report text from object storage.
func (s *Service) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	rep, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Store.Open(ctx, rep.StorageKey)
}

// StorageKey builds the object key for a report.
func StorageKey(subjectKey string, generatedAt time.Time, id string) string {
	return fmt.Sprintf("%s/%s/%s_%s.txt", reportKeyPrefix, subjectKey, generatedAt.UTC().Format(keyTimeLayout), id)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
