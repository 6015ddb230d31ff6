// Package zscore derives an emotional-tone readiness estimate from the
// per-response top sentiment labels selected by the aggregator.
package zscore

import (
	"fmt"
	"math"
	"strings"

	"readiness-backend/internal/aggregate"
	"readiness-backend/internal/responses"
)

// LabelSets partitions sentiment labels into positive and negative buckets.
// Labels in neither bucket are ignored.
type LabelSets struct {
	Positive []string `json:"positive"`
	Negative []string `json:"negative"`
}

// DefaultLabelSets returns the standard emotion buckets.
func DefaultLabelSets() LabelSets {
	return LabelSets{
		Positive: []string{"joy", "gratitude", "admiration", "optimism", "love", "hope", "approval", "relief", "pride"},
		Negative: []string{"anger", "sadness", "disgust", "fear", "grief", "disappointment", "disapproval", "annoyance", "remorse", "nervousness"},
	}
}

// Tier is the interpretation of a readiness estimate.
type Tier string

const (
	TierReady    Tier = "ready"
	TierMonitor  Tier = "monitor"
	TierNotReady Tier = "not_ready"
)

// Label is the human readable status line.
func (t Tier) Label() string {
	switch t {
	case TierReady:
		return "Fully ready / positive"
	case TierMonitor:
		return "Somewhat ready, monitor"
	default:
		return "May not be ready"
	}
}

// Config holds the label table and tier bounds.
type Config struct {
	Labels     LabelSets
	ReadyMin   float64
	MonitorMin float64
}

// DefaultConfig returns the default label sets with 75/50 tiers.
func DefaultConfig() Config {
	return Config{Labels: DefaultLabelSets(), ReadyMin: 75, MonitorMin: 50}
}

// Validate rejects empty or overlapping buckets and inverted tiers.
func (c Config) Validate() error {
	if len(c.Labels.Positive) == 0 || len(c.Labels.Negative) == 0 {
		return fmt.Errorf("zscore: positive and negative label sets must not be empty")
	}
	seen := map[string]bool{}
	for _, label := range c.Labels.Positive {
		seen[normalize(label)] = true
	}
	for _, label := range c.Labels.Negative {
		if seen[normalize(label)] {
			return fmt.Errorf("zscore: label %q is both positive and negative", label)
		}
	}
	if !(c.ReadyMin <= 100 && c.ReadyMin > c.MonitorMin && c.MonitorMin > 0) {
		return fmt.Errorf("zscore: tier bounds must satisfy 0 < monitor < ready <= 100, got %v/%v", c.MonitorMin, c.ReadyMin)
	}
	return nil
}

// Result carries every intermediate sequence so reports can show the work.
type Result struct {
	PositiveRaw  []float64 `json:"positiveRaw"`
	NegativeRaw  []float64 `json:"negativeRaw"`
	PositiveMean float64   `json:"positiveMean"`
	NegativeMean float64   `json:"negativeMean"`
	PositiveSD   float64   `json:"positiveSd"`
	NegativeSD   float64   `json:"negativeSd"`
	PositiveZ    []float64 `json:"positiveZ"`
	NegativeZ    []float64 `json:"negativeZ"`
	AvgPositiveZ float64   `json:"avgPositiveZ"`
	AvgNegativeZ float64   `json:"avgNegativeZ"`
	Score        float64   `json:"score"`
	Tier         Tier      `json:"tier"`
	TierLabel    string    `json:"tierLabel"`
}

// Calculator is stateless beyond its configuration.
type Calculator struct {
	cfg      Config
	positive map[string]bool
	negative map[string]bool
}

// NewCalculator validates cfg and returns a calculator.
func NewCalculator(cfg Config) (*Calculator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Calculator{cfg: cfg, positive: map[string]bool{}, negative: map[string]bool{}}
	for _, label := range cfg.Labels.Positive {
		c.positive[normalize(label)] = true
	}
	for _, label := range cfg.Labels.Negative {
		c.negative[normalize(label)] = true
	}
	return c, nil
}

// Calculate computes the readiness estimate over the per-response selections.
func (c *Calculator) Calculate(signals []aggregate.ResponseSignals) (Result, error) {
	if len(signals) == 0 {
		return Result{}, &responses.InsufficientDataError{Component: "zscore", Need: 1, Got: 0}
	}

	res := Result{
		PositiveRaw: make([]float64, len(signals)),
		NegativeRaw: make([]float64, len(signals)),
	}
	for i, s := range signals {
		for _, p := range s.TopSentiment {
			label := normalize(p.Label)
			switch {
			case c.positive[label]:
				res.PositiveRaw[i] += p.Score
			case c.negative[label]:
				res.NegativeRaw[i] += p.Score
			}
		}
	}

	res.PositiveMean, res.PositiveSD = meanStdDev(res.PositiveRaw)
	res.NegativeMean, res.NegativeSD = meanStdDev(res.NegativeRaw)
	res.PositiveZ = zScores(res.PositiveRaw, res.PositiveMean, res.PositiveSD)
	res.NegativeZ = zScores(res.NegativeRaw, res.NegativeMean, res.NegativeSD)
	res.AvgPositiveZ = meanWhere(res.PositiveZ, func(z float64) bool { return z > 0 })
	res.AvgNegativeZ = meanWhere(res.NegativeZ, func(z float64) bool { return z < 0 })

	score := 50 + 10*res.AvgPositiveZ + 10*res.AvgNegativeZ
	res.Score = round2(math.Max(0, math.Min(100, score)))
	res.Tier = c.interpret(res.Score)
	res.TierLabel = res.Tier.Label()
	return res, nil
}

func (c *Calculator) interpret(score float64) Tier {
	switch {
	case score >= c.cfg.ReadyMin:
		return TierReady
	case score >= c.cfg.MonitorMin:
		return TierMonitor
	default:
		return TierNotReady
	}
}

// meanStdDev returns the mean and the sample standard deviation. A single
// value, or a constant sequence, yields a deviation of 1.0 so z-scores stay
// defined.
func meanStdDev(values []float64) (float64, float64) {
	n := float64(len(values))
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / n
	if len(values) < 2 {
		return mean, 1.0
	}
	sq := 0.0
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	sd := math.Sqrt(sq / (n - 1))
	if sd == 0 {
		return mean, 1.0
	}
	return mean, sd
}

func zScores(values []float64, mean, sd float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = (v - mean) / sd
	}
	return out
}

func meanWhere(values []float64, keep func(float64) bool) float64 {
	sum := 0.0
	n := 0
	for _, v := range values {
		if keep(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func normalize(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
