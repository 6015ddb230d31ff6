package assessment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"readiness-backend/internal/aggregate"
	"readiness-backend/internal/classify"
	"readiness-backend/internal/report"
	"readiness-backend/internal/reports"
	"readiness-backend/internal/responses"
	"readiness-backend/internal/scoring"
	"readiness-backend/internal/shared/metrics"
	"readiness-backend/internal/shared/telemetry"
)

// Service runs sessions through the engines and hands the rendered report
// to the report sink.
type Service struct {
	Engines    Engines
	Classifier classify.Pipeline
	// Reports is optional; without it Assess skips persistence.
	Reports *reports.Service
	Now     func() time.Time
}

// Evaluate enriches the session, routes records by category, runs every
// engine that has input and renders the report. Nothing is persisted.
func (s *Service) Evaluate(ctx context.Context, req Request) (Assessment, error) {
	if len(req.Responses) == 0 {
		return Assessment{}, &responses.InsufficientDataError{Component: "assessment", Need: 1, Got: 0}
	}

	records := s.enrich(ctx, req.Responses)
	structured, structuredPos, open, openPos := responses.Partition(records)

	out := Assessment{
		ID:          uuid.NewString(),
		SubjectID:   req.SubjectID,
		GeneratedAt: s.now().UTC(),
		Advisories:  []scoring.Advisory{},
	}

	if len(structured) > 0 {
		res, err := s.Engines.Scoring.Score(structured)
		if err != nil {
			return Assessment{}, responses.Reindex(err, structuredPos)
		}
		out.Categories = &res
		out.Advisories = res.Advisories
	}

	if len(open) > 0 {
		stats, err := s.Engines.Aggregator.Aggregate(open)
		if err != nil {
			return Assessment{}, responses.Reindex(err, openPos)
		}
		readiness, err := s.Engines.Readiness.Calculate(stats.Responses)
		if err != nil {
			return Assessment{}, err
		}
		out.Aggregate = &stats
		out.Readiness = &readiness
	}

	out.AllClear = aggregate.AllClear(records, s.Engines.AllClearThreshold)
	out.Report = s.Engines.Renderer.Render(report.Input{
		SubjectID:   req.SubjectID,
		GeneratedAt: out.GeneratedAt,
		Records:     records,
		Categories:  out.Categories,
		Aggregate:   out.Aggregate,
		Readiness:   out.Readiness,
		AllClear:    out.AllClear,
		Flagged:     aggregate.FlaggedLabels(records, s.Engines.AllClearThreshold),
	})
	return out, nil
}

// Assess evaluates the session and persists the report when a sink is
// configured.
func (s *Service) Assess(ctx context.Context, req Request) (Assessment, error) {
	start := time.Now()
	metrics.IncAssessmentStarted()

	out, err := s.assess(ctx, req)
	metrics.ObserveAssessmentDurationMs(metrics.SinceMillis(start))
	if err != nil {
		metrics.IncAssessmentFailed()
		fields := map[string]any{
			"subject_id": req.SubjectID,
			"responses":  len(req.Responses),
			"error":      err,
		}
		if isClientError(err) {
			telemetry.Warn("assessment.rejected", fields)
		} else {
			telemetry.Error("assessment.failed", fields)
		}
		return Assessment{}, err
	}

	metrics.IncAssessmentCompleted()
	fields := map[string]any{
		"assessment_id": out.ID,
		"subject_id":    out.SubjectID,
		"responses":     len(req.Responses),
		"all_clear":     out.AllClear,
		"report_id":     out.ReportID,
	}
	if out.Categories != nil {
		fields["total"] = out.Categories.Total
		fields["tier"] = string(out.Categories.Tier)
	}
	if out.Readiness != nil {
		fields["readiness_score"] = out.Readiness.Score
	}
	telemetry.Info("assessment.scored", fields)
	return out, nil
}

func (s *Service) assess(ctx context.Context, req Request) (Assessment, error) {
	out, err := s.Evaluate(ctx, req)
	if err != nil {
		return Assessment{}, err
	}
	if s.Reports == nil {
		return out, nil
	}

	artifact := reports.Artifact{
		ID:          out.ID,
		SubjectID:   out.SubjectID,
		GeneratedAt: out.GeneratedAt,
		Body:        out.Report,
		AllClear:    out.AllClear,
	}
	if out.Categories != nil {
		total := out.Categories.Total
		artifact.TotalScore = &total
		artifact.Tier = string(out.Categories.Tier)
	}
	if out.Readiness != nil {
		score := out.Readiness.Score
		artifact.ReadinessScore = &score
	}

	rep, err := s.Reports.Persist(ctx, artifact)
	if err != nil {
		return Assessment{}, fmt.Errorf("persist report: %w", err)
	}
	out.ReportID = rep.ID
	out.StorageKey = rep.StorageKey
	return out, nil
}

// ScoreCategories runs only the category engine. Every record must carry a
// structured category.
func (s *Service) ScoreCategories(ctx context.Context, req Request) (scoring.Result, error) {
	if err := ctx.Err(); err != nil {
		return scoring.Result{}, err
	}
	return s.Engines.Scoring.Score(req.Responses)
}

// AggregateOpen runs the aggregator and readiness calculator over the
// open-ended records of the session. Structured records are ignored.
func (s *Service) AggregateOpen(ctx context.Context, req Request) (OpenResult, error) {
	records := s.enrich(ctx, req.Responses)
	_, _, open, openPos := responses.Partition(records)

	stats, err := s.Engines.Aggregator.Aggregate(open)
	if err != nil {
		return OpenResult{}, responses.Reindex(err, openPos)
	}
	readiness, err := s.Engines.Readiness.Calculate(stats.Responses)
	if err != nil {
		return OpenResult{}, err
	}
	return OpenResult{
		Aggregate: stats,
		Readiness: readiness,
		AllClear:  aggregate.AllClear(open, s.Engines.AllClearThreshold),
	}, nil
}

func (s *Service) enrich(ctx context.Context, in []responses.ResponseRecord) []responses.ResponseRecord {
	out := make([]responses.ResponseRecord, len(in))
	for i, rec := range in {
		out[i] = s.Classifier.Enrich(ctx, rec)
	}
	return out
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func isClientError(err error) bool {
	return errors.Is(err, responses.ErrValidation) || errors.Is(err, responses.ErrInsufficientData)
}
