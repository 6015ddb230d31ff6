// Package aggregate selects the strongest sentiment and moderation labels per
// response and accumulates label sums across an open-ended session.
package aggregate

import (
	"fmt"
	"math"
	"sort"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"readiness-backend/internal/responses"
)

// concernTolerance is the relative slack applied when a running label sum is
// compared with threshold * response count.
const concernTolerance = 1e-9

// Config controls selection and flagging.
type Config struct {
	// ModerationThreshold is the score at or above which a moderation label
	// is flagged on a response.
	ModerationThreshold float64
	TopK                int
	// NeutralLabel is excluded from sentiment rankings, case-insensitively.
	NeutralLabel string
}

// DefaultConfig returns threshold 0.01, top-3 and "neutral".
func DefaultConfig() Config {
	return Config{ModerationThreshold: 0.01, TopK: 3, NeutralLabel: "neutral"}
}

// Validate checks the threshold range and top-k size.
func (c Config) Validate() error {
	if c.TopK < 1 {
		return fmt.Errorf("aggregate: top-k must be at least 1, got %d", c.TopK)
	}
	if math.IsNaN(c.ModerationThreshold) || c.ModerationThreshold < 0 || c.ModerationThreshold > 1 {
		return fmt.Errorf("aggregate: moderation threshold must be within [0,1], got %v", c.ModerationThreshold)
	}
	return nil
}

// ResponseSignals is the per-response selection.
type ResponseSignals struct {
	Index    int    `json:"index"`
	Question string `json:"question"`
	// TopSentiment holds at most TopK non-neutral labels, strongest first.
	TopSentiment  []responses.LabelScore `json:"topSentiment"`
	MostlyNeutral bool                   `json:"mostlyNeutral"`
	// ModerationFlags holds labels at or above the threshold in source order.
	ModerationFlags []responses.LabelScore `json:"moderationFlags"`
	NoRiskDetected  bool                   `json:"noRiskDetected"`
}

// Statistics is rebuilt on every run and never carried across sessions.
type Statistics struct {
	Responses      []ResponseSignals      `json:"responses"`
	ResponseCount  int                    `json:"responseCount"`
	SentimentSums  responses.ScoreMap     `json:"sentimentSums"`
	ModerationSums responses.ScoreMap     `json:"moderationSums"`
	TopSentiment   []responses.LabelScore `json:"topSentiment"`
	TopModeration  []responses.LabelScore `json:"topModeration"`
	// Concerns are moderation labels whose session sum reaches
	// threshold * response count.
	Concerns  []string `json:"concerns"`
	Threshold float64  `json:"threshold"`
}

// Aggregator is stateless beyond its configuration.
type Aggregator struct {
	cfg Config
}

// New validates cfg and returns an aggregator.
func New(cfg Config) (*Aggregator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Aggregator{cfg: cfg}, nil
}

// Config returns the aggregator configuration.
func (a *Aggregator) Config() Config { return a.cfg }

// Aggregate runs per-response selection and session accumulation. Error
// indexes refer to positions in records.
func (a *Aggregator) Aggregate(records []responses.ResponseRecord) (Statistics, error) {
	if len(records) == 0 {
		return Statistics{}, &responses.InsufficientDataError{Component: "aggregate", Need: 1, Got: 0}
	}
	for i, rec := range records {
		if err := validate(i, rec); err != nil {
			return Statistics{}, err
		}
	}

	sentimentSums := orderedmap.New[string, float64]()
	moderationSums := orderedmap.New[string, float64]()
	stats := Statistics{
		Responses:     make([]ResponseSignals, 0, len(records)),
		ResponseCount: len(records),
		Threshold:     a.cfg.ModerationThreshold,
	}

	for i, rec := range records {
		signals := ResponseSignals{
			Index:           i,
			Question:        rec.Question,
			TopSentiment:    a.topSentiment(rec.Sentiment.Pairs()),
			ModerationFlags: a.flags(rec.Moderation.Pairs()),
		}
		signals.MostlyNeutral = len(signals.TopSentiment) == 0
		signals.NoRiskDetected = len(signals.ModerationFlags) == 0
		stats.Responses = append(stats.Responses, signals)

		accumulate(sentimentSums, rec.Sentiment.Pairs())
		accumulate(moderationSums, rec.Moderation.Pairs())
	}

	stats.SentimentSums = toScoreMap(sentimentSums)
	stats.ModerationSums = toScoreMap(moderationSums)
	stats.TopSentiment = a.topSentiment(stats.SentimentSums.Pairs())
	stats.TopModeration = topK(stats.ModerationSums.Pairs(), a.cfg.TopK, func(p responses.LabelScore) bool {
		return p.Score > 0
	})

	floor := a.cfg.ModerationThreshold * float64(stats.ResponseCount)
	slack := concernTolerance * math.Max(1, floor)
	stats.Concerns = []string{}
	for _, p := range stats.ModerationSums.Pairs() {
		if p.Score >= floor-slack {
			stats.Concerns = append(stats.Concerns, p.Label)
		}
	}
	return stats, nil
}

func (a *Aggregator) topSentiment(pairs []responses.LabelScore) []responses.LabelScore {
	return topK(pairs, a.cfg.TopK, func(p responses.LabelScore) bool {
		return p.Score > 0 && !strings.EqualFold(strings.TrimSpace(p.Label), a.cfg.NeutralLabel)
	})
}

func (a *Aggregator) flags(pairs []responses.LabelScore) []responses.LabelScore {
	out := []responses.LabelScore{}
	for _, p := range pairs {
		if p.Score >= a.cfg.ModerationThreshold {
			out = append(out, p)
		}
	}
	return out
}

// FlaggedLabels returns the moderation labels scored at or above threshold on
// any record, in first-seen order.
func FlaggedLabels(records []responses.ResponseRecord, threshold float64) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, rec := range records {
		for _, p := range rec.Moderation.Pairs() {
			if p.Score >= threshold && !seen[p.Label] {
				seen[p.Label] = true
				out = append(out, p.Label)
			}
		}
	}
	return out
}

// AllClear reports whether every moderation score of every record stays
// below threshold.
func AllClear(records []responses.ResponseRecord, threshold float64) bool {
	for _, rec := range records {
		for _, p := range rec.Moderation.Pairs() {
			if p.Score >= threshold {
				return false
			}
		}
	}
	return true
}

// topK keeps pairs accepted by keep, sorts them by score descending with ties
// left in source order, and truncates to k.
func topK(pairs []responses.LabelScore, k int, keep func(responses.LabelScore) bool) []responses.LabelScore {
	out := make([]responses.LabelScore, 0, len(pairs))
	for _, p := range pairs {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if len(out) > k {
		out = out[:k]
	}
	return out
}

func accumulate(sums *orderedmap.OrderedMap[string, float64], pairs []responses.LabelScore) {
	for _, p := range pairs {
		current, _ := sums.Get(p.Label)
		sums.Set(p.Label, current+p.Score)
	}
}

func toScoreMap(sums *orderedmap.OrderedMap[string, float64]) responses.ScoreMap {
	pairs := make([]responses.LabelScore, 0, sums.Len())
	for pair := sums.Oldest(); pair != nil; pair = pair.Next() {
		pairs = append(pairs, responses.LabelScore{Label: pair.Key, Score: pair.Value})
	}
	return responses.NewScoreMap(pairs...)
}

func validate(index int, rec responses.ResponseRecord) error {
	for _, p := range rec.Sentiment.Pairs() {
		if math.IsNaN(p.Score) || math.IsInf(p.Score, 0) || p.Score < 0 {
			return responses.Invalid(index, "sentiment["+p.Label+"]", p.Score, "must be a finite non-negative score")
		}
	}
	for _, p := range rec.Moderation.Pairs() {
		if math.IsNaN(p.Score) || p.Score < 0 || p.Score > 1 {
			return responses.Invalid(index, "moderation["+p.Label+"]", p.Score, "must be a probability within [0,1]")
		}
	}
	return nil
}
