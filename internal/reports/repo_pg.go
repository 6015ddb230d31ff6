package reports

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new report row.
func (r *PGRepo) Create(ctx context.Context, rep Report) error {
	const query = `
INSERT INTO reports (
    id,
    subject_id,
    subject_key,
    generated_at,
    storage_provider,
    storage_key,
    size_bytes,
    total_score,
    tier,
    readiness_score,
    all_clear,
    body,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	storageProvider := rep.StorageProvider
	if storageProvider == "" {
		storageProvider = "local"
	}

	var tier sql.NullString
	if rep.Tier != "" {
		tier = sql.NullString{String: rep.Tier, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		rep.ID,
		rep.SubjectID,
		rep.SubjectKey,
		rep.GeneratedAt,
		storageProvider,
		rep.StorageKey,
		rep.SizeBytes,
		nullFloat(rep.TotalScore),
		tier,
		nullFloat(rep.ReadinessScore),
		rep.AllClear,
		rep.Body,
		rep.CreatedAt,
	)
	return err
}

// GetByID fetches a report by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Report, error) {
	const query = `
SELECT id, subject_id, subject_key, generated_at, storage_provider, storage_key, size_bytes, total_score, tier, readiness_score, all_clear, body, created_at
FROM reports
WHERE id = $1
LIMIT 1`
	var rep Report
	var totalScore sql.NullFloat64
	var tier sql.NullString
	var readiness sql.NullFloat64
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&rep.ID,
		&rep.SubjectID,
		&rep.SubjectKey,
		&rep.GeneratedAt,
		&rep.StorageProvider,
		&rep.StorageKey,
		&rep.SizeBytes,
		&totalScore,
		&tier,
		&readiness,
		&rep.AllClear,
		&rep.Body,
		&rep.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Report{}, ErrNotFound
		}
		return Report{}, err
	}
	if totalScore.Valid {
		v := totalScore.Float64
		rep.TotalScore = &v
	}
	if tier.Valid {
		rep.Tier = tier.String
	}
	if readiness.Valid {
		v := readiness.Float64
		rep.ReadinessScore = &v
	}
	return rep, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
