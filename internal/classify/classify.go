// Package classify defines the classifier collaborators that turn an answer's
// text into emotion, sentiment and moderation signals.
package classify

import (
	"context"
	"errors"
	"strings"

	"readiness-backend/internal/responses"
	"readiness-backend/internal/shared/telemetry"
)

// Moderator scores text against moderation categories (probabilities).
type Moderator interface {
	Moderate(ctx context.Context, text string) (responses.ScoreMap, error)
}

// SentimentClassifier scores text against sentiment labels.
type SentimentClassifier interface {
	Sentiment(ctx context.Context, text string) (responses.ScoreMap, error)
}

// EmotionClassifier returns the dominant emotion label of text.
type EmotionClassifier interface {
	Emotion(ctx context.Context, text string) (string, error)
}

// ErrNotConfigured is returned by the placeholder classifiers.
var ErrNotConfigured = errors.New("classifier not configured")

// Placeholder implements every classifier and always fails with
// ErrNotConfigured.
type Placeholder struct{}

// Moderate returns ErrNotConfigured.
func (Placeholder) Moderate(ctx context.Context, text string) (responses.ScoreMap, error) {
	return responses.ScoreMap{}, ErrNotConfigured
}

// Sentiment returns ErrNotConfigured.
func (Placeholder) Sentiment(ctx context.Context, text string) (responses.ScoreMap, error) {
	return responses.ScoreMap{}, ErrNotConfigured
}

// Emotion returns ErrNotConfigured.
func (Placeholder) Emotion(ctx context.Context, text string) (string, error) {
	return "", ErrNotConfigured
}

// Pipeline fills the signals an open-ended record is missing. Nil
// classifiers are skipped.
type Pipeline struct {
	Moderator Moderator
	Sentiment SentimentClassifier
	Emotion   EmotionClassifier
}

// Enrich returns a copy of rec with omitted sentiment and moderation maps
// filled in. A failing classifier yields an explicit empty map so the record
// still counts in the session. Records with structured categories or
// without free text are returned unchanged.
func (p Pipeline) Enrich(ctx context.Context, rec responses.ResponseRecord) responses.ResponseRecord {
	text := strings.TrimSpace(rec.Answer.Text())
	if rec.CategoryOrOpen().Structured() || text == "" {
		return rec
	}

	out := rec
	if !out.Sentiment.Present() {
		out.Sentiment = responses.NewScoreMap()
		if p.Sentiment != nil {
			if scores, err := p.Sentiment.Sentiment(ctx, text); err != nil {
				logFailure("sentiment", rec.Question, err)
			} else {
				out.Sentiment = scores
			}
		}
	}
	if !out.Moderation.Present() {
		out.Moderation = responses.NewScoreMap()
		if p.Moderator != nil {
			if scores, err := p.Moderator.Moderate(ctx, text); err != nil {
				logFailure("moderation", rec.Question, err)
			} else {
				out.Moderation = scores
			}
		}
	}
	if strings.TrimSpace(out.Emotion) == "" && p.Emotion != nil {
		if emotion, err := p.Emotion.Emotion(ctx, text); err != nil {
			logFailure("emotion", rec.Question, err)
		} else {
			out.Emotion = emotion
		}
	}
	return out
}

func logFailure(kind, question string, err error) {
	if errors.Is(err, ErrNotConfigured) {
		return
	}
	telemetry.Warn("classify.failed", map[string]any{
		"classifier": kind,
		"question":   question,
		"err":        err,
	})
}
