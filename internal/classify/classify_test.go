package classify

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"readiness-backend/internal/responses"
	"readiness-backend/internal/shared/telemetry"
)

type staticModerator struct {
	scores responses.ScoreMap
	err    error
	calls  int
}

func (s *staticModerator) Moderate(ctx context.Context, text string) (responses.ScoreMap, error) {
	s.calls++
	return s.scores, s.err
}

type staticSentiment struct{ scores responses.ScoreMap }

func (s staticSentiment) Sentiment(ctx context.Context, text string) (responses.ScoreMap, error) {
	return s.scores, nil
}

func TestEnrichFillsMissingMaps(t *testing.T) {
	mod := &staticModerator{scores: responses.NewScoreMap(responses.LabelScore{Label: "harassment", Score: 0.02})}
	p := Pipeline{
		Moderator: mod,
		Sentiment: staticSentiment{scores: responses.NewScoreMap(responses.LabelScore{Label: "joy", Score: 0.8})},
		Emotion:   Placeholder{},
	}
	rec := responses.ResponseRecord{Question: "How are you?", Answer: responses.Text("great")}

	out := p.Enrich(context.Background(), rec)
	if out.Moderation.Get("harassment") != 0.02 || out.Sentiment.Get("joy") != 0.8 {
		t.Fatalf("unexpected enriched record %+v", out)
	}
	if rec.Moderation.Present() || rec.Sentiment.Present() {
		t.Fatalf("input record must not be mutated")
	}
	if out.Emotion != "" {
		t.Fatalf("placeholder emotion should leave the label empty")
	}
}

func TestEnrichKeepsSuppliedMaps(t *testing.T) {
	mod := &staticModerator{}
	rec := responses.ResponseRecord{
		Answer:     responses.Text("fine"),
		Moderation: responses.NewScoreMap(),
	}
	out := Pipeline{Moderator: mod}.Enrich(context.Background(), rec)
	if mod.calls != 0 {
		t.Fatalf("explicit empty moderation map should not be reclassified")
	}
	if !out.Sentiment.Present() || out.Sentiment.Len() != 0 {
		t.Fatalf("missing sentiment should become an explicit empty map")
	}
}

func TestEnrichFailureYieldsEmptyMarker(t *testing.T) {
	var buf bytes.Buffer
	restore := telemetry.SetOutput(&buf)
	defer restore()

	mod := &staticModerator{err: errors.New("upstream timeout")}
	out := Pipeline{Moderator: mod}.Enrich(context.Background(), responses.ResponseRecord{Answer: responses.Text("hello")})
	if !out.Moderation.Present() || out.Moderation.Len() != 0 {
		t.Fatalf("expected explicit empty moderation map")
	}
	if !strings.Contains(buf.String(), "classify.failed") {
		t.Fatalf("expected failure to be logged, got %q", buf.String())
	}
}

func TestEnrichSkipsStructuredRecords(t *testing.T) {
	mod := &staticModerator{}
	rec := responses.ResponseRecord{Category: responses.CategoryBehavior, Answer: responses.Text("no")}
	out := Pipeline{Moderator: mod}.Enrich(context.Background(), rec)
	if mod.calls != 0 || out.Moderation.Present() {
		t.Fatalf("structured records should pass through")
	}
}
