package assessment

import (
	"fmt"

	"readiness-backend/internal/aggregate"
	"readiness-backend/internal/report"
	"readiness-backend/internal/scoring"
	"readiness-backend/internal/shared/config"
	"readiness-backend/internal/zscore"
)

// Engines bundles the configured scoring components. Every member is
// stateless and safe for concurrent use.
type Engines struct {
	Scoring           *scoring.Engine
	Aggregator        *aggregate.Aggregator
	Readiness         *zscore.Calculator
	Renderer          *report.Renderer
	AllClearThreshold float64
}

// NewEngines builds every engine from the scoring tables.
func NewEngines(s config.Scoring) (Engines, error) {
	if err := s.Validate(); err != nil {
		return Engines{}, fmt.Errorf("scoring tables: %w", err)
	}

	emotions := make(map[string]int, len(s.Voice.Emotions))
	for k, v := range s.Voice.Emotions {
		emotions[k] = v
	}
	engine, err := scoring.NewEngine(scoring.Config{
		PhysicalMax:      s.Ceilings.Physical,
		MentalMax:        s.Ceilings.Mental,
		CertificationMax: s.Ceilings.Certification,
		BehaviorMax:      s.Ceilings.Behavior,
		LikertMin:        s.Likert.Min,
		LikertMax:        s.Likert.Max,
		Tiers: scoring.TierBounds{
			Excellent: s.Tiers.Excellent,
			Good:      s.Tiers.Good,
			Moderate:  s.Tiers.Moderate,
			Low:       s.Tiers.Low,
		},
		Voice: scoring.VoicePolicy{
			EmotionLikert:  emotions,
			DefaultLikert:  s.Voice.Default,
			AffirmativeMin: s.Voice.AffirmativeMin,
		},
	})
	if err != nil {
		return Engines{}, fmt.Errorf("category engine: %w", err)
	}

	agg, err := aggregate.New(aggregate.Config{
		ModerationThreshold: s.Aggregate.ModerationThreshold,
		TopK:                s.Aggregate.TopK,
		NeutralLabel:        s.Aggregate.NeutralLabel,
	})
	if err != nil {
		return Engines{}, fmt.Errorf("aggregator: %w", err)
	}

	calc, err := zscore.NewCalculator(zscore.Config{
		Labels: zscore.LabelSets{
			Positive: append([]string(nil), s.Readiness.Positive...),
			Negative: append([]string(nil), s.Readiness.Negative...),
		},
		ReadyMin:   s.Readiness.ReadyMin,
		MonitorMin: s.Readiness.MonitorMin,
	})
	if err != nil {
		return Engines{}, fmt.Errorf("readiness calculator: %w", err)
	}

	return Engines{
		Scoring:    engine,
		Aggregator: agg,
		Readiness:  calc,
		Renderer: report.NewRenderer(report.Options{
			SentimentDisplayThreshold:  s.Report.SentimentDisplayThreshold,
			ModerationDisplayThreshold: s.Report.ModerationDisplayThreshold,
		}),
		AllClearThreshold: s.Report.AllClearThreshold,
	}, nil
}
