package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scoring holds every tunable table used by the assessment engines.
type Scoring struct {
	Ceilings  Ceilings         `yaml:"ceilings"`
	Likert    LikertRange      `yaml:"likert"`
	Tiers     TierBounds       `yaml:"tiers"`
	Voice     VoiceTable       `yaml:"voice"`
	Aggregate AggregateOptions `yaml:"aggregate"`
	Readiness ReadinessOptions `yaml:"readiness"`
	Report    ReportOptions    `yaml:"report"`
}

type Ceilings struct {
	Physical      int `yaml:"physical"`
	Mental        int `yaml:"mental"`
	Certification int `yaml:"certification"`
	Behavior      int `yaml:"behavior"`
}

type LikertRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

type TierBounds struct {
	Excellent float64 `yaml:"excellent"`
	Good      float64 `yaml:"good"`
	Moderate  float64 `yaml:"moderate"`
	Low       float64 `yaml:"low"`
}

// VoiceTable maps emotions to Likert values for spoken answers.
type VoiceTable struct {
	Emotions       map[string]int `yaml:"emotions"`
	Default        int            `yaml:"default"`
	AffirmativeMin int            `yaml:"affirmative_min"`
}

type AggregateOptions struct {
	ModerationThreshold float64 `yaml:"moderation_threshold"`
	TopK                int     `yaml:"top_k"`
	NeutralLabel        string  `yaml:"neutral_label"`
}

type ReadinessOptions struct {
	Positive   []string `yaml:"positive"`
	Negative   []string `yaml:"negative"`
	ReadyMin   float64  `yaml:"ready_min"`
	MonitorMin float64  `yaml:"monitor_min"`
}

type ReportOptions struct {
	AllClearThreshold          float64 `yaml:"all_clear_threshold"`
	SentimentDisplayThreshold  float64 `yaml:"sentiment_display_threshold"`
	ModerationDisplayThreshold float64 `yaml:"moderation_display_threshold"`
}

// DefaultScoring returns the built-in tables.
func DefaultScoring() Scoring {
	return Scoring{
		Ceilings: Ceilings{Physical: 35, Mental: 35, Certification: 15, Behavior: 15},
		Likert:   LikertRange{Min: 1, Max: 5},
		Tiers:    TierBounds{Excellent: 90, Good: 75, Moderate: 60, Low: 45},
		Voice: VoiceTable{
			Emotions: map[string]int{
				"anger": 1, "disgust": 1, "fear": 2, "sadness": 2,
				"neutral": 3, "surprise": 4, "joy": 5,
			},
			Default:        3,
			AffirmativeMin: 4,
		},
		Aggregate: AggregateOptions{ModerationThreshold: 0.01, TopK: 3, NeutralLabel: "neutral"},
		Readiness: ReadinessOptions{
			Positive:   []string{"joy", "gratitude", "admiration", "optimism", "love", "hope", "approval", "relief", "pride"},
			Negative:   []string{"anger", "sadness", "disgust", "fear", "grief", "disappointment", "disapproval", "annoyance", "remorse", "nervousness"},
			ReadyMin:   75,
			MonitorMin: 50,
		},
		Report: ReportOptions{
			AllClearThreshold:          0.05,
			SentimentDisplayThreshold:  1.0,
			ModerationDisplayThreshold: 0.01,
		},
	}
}

// LoadScoring returns the defaults overlaid with the YAML file at path. An
// empty path yields the defaults.
func LoadScoring(path string) (Scoring, error) {
	s := DefaultScoring()
	if strings.TrimSpace(path) == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Scoring{}, err
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Scoring{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return Scoring{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate rejects tables the engines cannot work with.
func (s Scoring) Validate() error {
	c := s.Ceilings
	if c.Physical <= 0 || c.Mental <= 0 || c.Certification <= 0 || c.Behavior <= 0 {
		return errors.New("ceilings must be positive")
	}
	if total := c.Physical + c.Mental + c.Certification + c.Behavior; total != 100 {
		return fmt.Errorf("ceilings must sum to 100, got %d", total)
	}
	t := s.Tiers
	if !(t.Excellent <= 100 && t.Excellent > t.Good && t.Good > t.Moderate && t.Moderate > t.Low && t.Low > 0) {
		return errors.New("tiers must be strictly decreasing within (0,100]")
	}
	if s.Aggregate.TopK < 1 {
		return fmt.Errorf("aggregate.top_k must be at least 1, got %d", s.Aggregate.TopK)
	}
	for name, v := range map[string]float64{
		"aggregate.moderation_threshold":      s.Aggregate.ModerationThreshold,
		"report.all_clear_threshold":          s.Report.AllClearThreshold,
		"report.moderation_display_threshold": s.Report.ModerationDisplayThreshold,
	} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("%s must be within [0,1], got %v", name, v)
		}
	}
	if s.Report.SentimentDisplayThreshold < 0 {
		return errors.New("report.sentiment_display_threshold must not be negative")
	}
	if !(s.Readiness.ReadyMin > s.Readiness.MonitorMin && s.Readiness.MonitorMin > 0 && s.Readiness.ReadyMin <= 100) {
		return errors.New("readiness tiers must satisfy 0 < monitor_min < ready_min <= 100")
	}
	return nil
}
