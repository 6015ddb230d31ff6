// Package report formats already-computed assessment outputs as a plain text
// artifact. It never recomputes a score and performs no I/O.
package report

import (
	"fmt"
	"strings"
	"time"

	"readiness-backend/internal/aggregate"
	"readiness-backend/internal/responses"
	"readiness-backend/internal/scoring"
	"readiness-backend/internal/zscore"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	ruleWidth       = 60

	SummaryAllClear = "Summary: No major concerns."
	SummaryAlert    = "Alert: Some moderation risks detected."
)

// Input is everything the renderer prints. Nil sections are omitted.
type Input struct {
	SubjectID   string
	GeneratedAt time.Time
	Records     []responses.ResponseRecord
	Categories  *scoring.Result
	Aggregate   *aggregate.Statistics
	Readiness   *zscore.Result
	// AllClear is computed by the caller over every moderation score.
	AllClear bool
	// Flagged lists the moderation labels that broke AllClear, named on the
	// alert line.
	Flagged []string
}

// Options controls which per-response lines are shown.
type Options struct {
	// SentimentDisplayThreshold hides sentiment scores at or below it.
	SentimentDisplayThreshold float64
	// ModerationDisplayThreshold hides moderation scores at or below it.
	ModerationDisplayThreshold float64
}

// DefaultOptions shows sentiment above 1.0 and moderation above 0.01.
func DefaultOptions() Options {
	return Options{SentimentDisplayThreshold: 1.0, ModerationDisplayThreshold: 0.01}
}

// Renderer formats reports.
type Renderer struct {
	opts Options
}

// NewRenderer returns a renderer using opts.
func NewRenderer(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

var categoryTitles = map[responses.Category]string{
	responses.CategoryPhysical:      "Physical Readiness",
	responses.CategoryMental:        "Mental Readiness",
	responses.CategoryCertification: "Certification Status",
	responses.CategoryBehavior:      "Historical Behavior",
}

// Render builds the report text. Output depends only on in.
func (r *Renderer) Render(in Input) string {
	var b strings.Builder
	rule := strings.Repeat("=", ruleWidth)

	subject := strings.TrimSpace(in.SubjectID)
	if subject == "" {
		subject = "anonymous"
	}
	fmt.Fprintf(&b, "Readiness Report for %s\n", subject)
	fmt.Fprintf(&b, "Date: %s\n", in.GeneratedAt.Format(timestampLayout))
	b.WriteString(rule + "\n")

	for i, rec := range in.Records {
		r.writeResponse(&b, i+1, rec)
	}

	b.WriteString("\n" + rule + "\n")
	if in.Categories != nil {
		writeCategories(&b, *in.Categories)
	}
	if in.Readiness != nil {
		writeReadiness(&b, *in.Readiness, in.Aggregate)
	}

	b.WriteString("\n")
	if in.AllClear {
		b.WriteString(SummaryAllClear)
	} else {
		b.WriteString(SummaryAlert)
		if len(in.Flagged) > 0 {
			fmt.Fprintf(&b, " Flagged: %s.", strings.Join(in.Flagged, ", "))
		}
	}
	b.WriteString("\n")
	return b.String()
}

func (r *Renderer) writeResponse(b *strings.Builder, n int, rec responses.ResponseRecord) {
	fmt.Fprintf(b, "\nQ%d: %s\n", n, rec.Question)
	fmt.Fprintf(b, "Answer: %s\n", rec.Answer.String())
	if rec.Emotion != "" {
		fmt.Fprintf(b, "Emotion: %s\n", rec.Emotion)
	}
	if rec.Sentiment.Len() > 0 {
		b.WriteString("Sentiment Scores:\n")
		for _, p := range rec.Sentiment.Pairs() {
			if p.Score > r.opts.SentimentDisplayThreshold {
				fmt.Fprintf(b, "   - %s: %.2f\n", p.Label, p.Score)
			}
		}
	}
	if rec.Moderation.Len() > 0 {
		b.WriteString("Moderation Flags:\n")
		for _, p := range rec.Moderation.Pairs() {
			if p.Score > r.opts.ModerationDisplayThreshold {
				fmt.Fprintf(b, "   - %s: %.4f\n", p.Label, p.Score)
			}
		}
	}
}

func writeCategories(b *strings.Builder, res scoring.Result) {
	b.WriteString("Category Scores:\n")
	for _, cs := range res.Categories {
		fmt.Fprintf(b, "   - %s: %.1f/%d\n", categoryTitles[cs.Category], cs.Points, cs.Max)
	}
	fmt.Fprintf(b, "Total Readiness Score: %.1f/100\n", res.Total)
	fmt.Fprintf(b, "Status: %s\n", res.TierLabel)
	if len(res.Advisories) > 0 {
		b.WriteString("Detailed Assessment:\n")
		for _, a := range res.Advisories {
			fmt.Fprintf(b, "   - %s\n", a.Message)
		}
	}
}

func writeReadiness(b *strings.Builder, res zscore.Result, stats *aggregate.Statistics) {
	fmt.Fprintf(b, "Emotional Readiness (z-score): %.2f/100\n", res.Score)
	fmt.Fprintf(b, "Status: %s\n", res.TierLabel)
	if stats == nil {
		return
	}
	fmt.Fprintf(b, "Top Sentiment: %s\n", joinLabels(stats.TopSentiment, "mostly neutral"))
	fmt.Fprintf(b, "Top Moderation: %s\n", joinLabels(stats.TopModeration, "no risk detected"))
	if len(stats.Concerns) > 0 {
		fmt.Fprintf(b, "Moderation Concerns: %s\n", strings.Join(stats.Concerns, ", "))
	}
}

func joinLabels(pairs []responses.LabelScore, empty string) string {
	if len(pairs) == 0 {
		return empty
	}
	labels := make([]string, len(pairs))
	for i, p := range pairs {
		labels[i] = p.Label
	}
	return strings.Join(labels, ", ")
}
