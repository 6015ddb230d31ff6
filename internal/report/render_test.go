package report

import (
	"strings"
	"testing"
	"time"

	"readiness-backend/internal/aggregate"
	"readiness-backend/internal/responses"
	"readiness-backend/internal/scoring"
	"readiness-backend/internal/zscore"
)

var fixedTime = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func openRecord(moderation float64) responses.ResponseRecord {
	return responses.ResponseRecord{
		Question: "How do you feel about today's shift?",
		Answer:   responses.Text("Ready to go"),
		Emotion:  "joy",
		Sentiment: responses.NewScoreMap(
			responses.LabelScore{Label: "joy", Score: 42.5},
			responses.LabelScore{Label: "neutral", Score: 1.0},
			responses.LabelScore{Label: "optimism", Score: 0.4},
		),
		Moderation: responses.NewScoreMap(
			responses.LabelScore{Label: "toxic", Score: moderation},
			responses.LabelScore{Label: "insult", Score: 0.01},
		),
	}
}

func TestRenderOpenSession(t *testing.T) {
	records := []responses.ResponseRecord{openRecord(0.0123)}
	stats := &aggregate.Statistics{
		TopSentiment: []responses.LabelScore{{Label: "joy", Score: 42.5}, {Label: "optimism", Score: 0.4}},
	}
	readiness := &zscore.Result{Score: 50, TierLabel: zscore.TierMonitor.Label()}

	out := NewRenderer(DefaultOptions()).Render(Input{
		SubjectID:   "crew-17",
		GeneratedAt: fixedTime,
		Records:     records,
		Aggregate:   stats,
		Readiness:   readiness,
		AllClear:    aggregate.AllClear(records, 0.05),
	})

	for _, want := range []string{
		"Readiness Report for crew-17\n",
		"Date: 2026-03-14 09:26:53\n",
		"Q1: How do you feel about today's shift?\n",
		"Answer: Ready to go\n",
		"Emotion: joy\n",
		"   - joy: 42.50\n",
		"   - toxic: 0.0123\n",
		"Emotional Readiness (z-score): 50.00/100\n",
		"Status: Somewhat ready, monitor\n",
		"Top Sentiment: joy, optimism\n",
		"Top Moderation: no risk detected\n",
		SummaryAllClear,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in report:\n%s", want, out)
		}
	}
	for _, hidden := range []string{"neutral: 1.00", "optimism: 0.40", "insult"} {
		if strings.Contains(out, hidden) {
			t.Fatalf("did not expect %q in report:\n%s", hidden, out)
		}
	}
	if strings.Contains(out, "Category Scores") {
		t.Fatalf("category section should be omitted without a category result")
	}
}

func TestRenderAlertWhenModerationReachesThreshold(t *testing.T) {
	records := []responses.ResponseRecord{openRecord(0.01), openRecord(0.05)}
	out := NewRenderer(DefaultOptions()).Render(Input{
		GeneratedAt: fixedTime,
		Records:     records,
		AllClear:    aggregate.AllClear(records, 0.05),
		Flagged:     aggregate.FlaggedLabels(records, 0.05),
	})
	if !strings.Contains(out, SummaryAlert) || strings.Contains(out, SummaryAllClear) {
		t.Fatalf("expected alert summary:\n%s", out)
	}
	if !strings.Contains(out, SummaryAlert+" Flagged: toxic.") {
		t.Fatalf("expected flagged labels on the alert line:\n%s", out)
	}
	if !strings.Contains(out, "Readiness Report for anonymous") {
		t.Fatalf("expected anonymous subject")
	}
}

func TestRenderCategorySession(t *testing.T) {
	res := &scoring.Result{
		Categories: []scoring.CategoryScore{
			{Category: responses.CategoryPhysical, Points: 35, Max: 35},
			{Category: responses.CategoryMental, Points: 14, Max: 35},
			{Category: responses.CategoryCertification, Points: 15, Max: 15},
			{Category: responses.CategoryBehavior, Points: 15, Max: 15},
		},
		Total:     79,
		TierLabel: scoring.TierGood.Label(),
		Advisories: []scoring.Advisory{
			{ID: "mental-concern", Message: "Mental readiness needs improvement.", Order: 1},
		},
	}
	records := []responses.ResponseRecord{
		{Question: "I feel physically fit.", Category: responses.CategoryPhysical, Answer: responses.Ordinal(5)},
		{Question: "Certified?", Category: responses.CategoryCertification, Answer: responses.Boolean(true)},
	}

	r := NewRenderer(DefaultOptions())
	in := Input{SubjectID: "crew-3", GeneratedAt: fixedTime, Records: records, Categories: res, AllClear: true}
	out := r.Render(in)

	for _, want := range []string{
		"Answer: 5\n",
		"Answer: yes\n",
		"   - Physical Readiness: 35.0/35\n",
		"   - Mental Readiness: 14.0/35\n",
		"   - Historical Behavior: 15.0/15\n",
		"Total Readiness Score: 79.0/100\n",
		"Status: Good Readiness\n",
		"Detailed Assessment:\n   - Mental readiness needs improvement.\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in report:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Sentiment Scores") || strings.Contains(out, "Emotional Readiness") {
		t.Fatalf("unexpected open-session sections:\n%s", out)
	}
	if r.Render(in) != out {
		t.Fatalf("expected deterministic output")
	}
}
