// Package scoring turns Likert and yes/no answers into the four category
// sub-scores, a 0-100 total and its tier.
package scoring

import (
	"fmt"
	"strings"

	"readiness-backend/internal/responses"
)

// CategoryScore is the result for one category.
type CategoryScore struct {
	Category  responses.Category `json:"category"`
	Points    float64            `json:"points"`
	Max       int                `json:"max"`
	Questions int                `json:"questions"`
}

// Result is the outcome of scoring a structured session.
type Result struct {
	Categories []CategoryScore `json:"categories"`
	Total      float64         `json:"total"`
	Tier       Tier            `json:"tier"`
	TierLabel  string          `json:"tierLabel"`
	Advisories []Advisory      `json:"advisories"`
}

// Category returns the score of one category.
func (r Result) Category(cat responses.Category) (CategoryScore, bool) {
	for _, cs := range r.Categories {
		if cs.Category == cat {
			return cs, true
		}
	}
	return CategoryScore{}, false
}

// Engine scores structured sessions. It holds no state besides its
// configuration and is safe to reuse.
type Engine struct {
	cfg Config
}

// NewEngine validates cfg and returns an engine.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Score validates every record and computes the category scores. Error
// indexes refer to positions in records.
func (e *Engine) Score(records []responses.ResponseRecord) (Result, error) {
	if len(records) == 0 {
		return Result{}, &responses.InsufficientDataError{Component: "scoring", Need: 1, Got: 0}
	}

	likertSums := map[responses.Category]int{}
	counts := map[responses.Category]int{}
	binary := map[responses.Category]bool{}

	for i, rec := range records {
		cat := rec.CategoryOrOpen()
		switch cat {
		case responses.CategoryPhysical, responses.CategoryMental:
			v, err := e.likert(i, rec)
			if err != nil {
				return Result{}, err
			}
			likertSums[cat] += v
		case responses.CategoryCertification, responses.CategoryBehavior:
			if counts[cat] > 0 {
				return Result{}, responses.Invalid(i, "category", string(cat), "expects a single answer")
			}
			yes, err := e.yesNo(i, rec)
			if err != nil {
				return Result{}, err
			}
			binary[cat] = yes
		default:
			return Result{}, responses.Invalid(i, "category", string(cat), "is not a scored category")
		}
		counts[cat]++
	}

	result := Result{Categories: make([]CategoryScore, 0, len(responses.StructuredCategories))}
	for _, cat := range responses.StructuredCategories {
		n := counts[cat]
		if n == 0 {
			return Result{}, &responses.InsufficientDataError{Component: "scoring." + string(cat), Need: 1, Got: 0}
		}
		ceiling := e.cfg.Ceiling(cat)
		var points float64
		switch cat {
		case responses.CategoryCertification:
			if binary[cat] {
				points = float64(ceiling)
			}
		case responses.CategoryBehavior:
			// an incident costs the whole category
			if !binary[cat] {
				points = float64(ceiling)
			}
		default:
			points = e.rescale(likertSums[cat], n, ceiling)
		}
		result.Categories = append(result.Categories, CategoryScore{
			Category:  cat,
			Points:    points,
			Max:       ceiling,
			Questions: n,
		})
		result.Total += points
	}

	result.Total = clamp(result.Total, 0, 100)
	result.Tier = e.cfg.Tiers.Interpret(result.Total)
	result.TierLabel = result.Tier.Label()
	result.Advisories = GenerateAdvisories(result)
	return result, nil
}

// rescale maps a raw Likert sum onto the category ceiling. Multiplying before
// dividing keeps the common case (7 questions, ceiling 35) exact.
func (e *Engine) rescale(sum, n, ceiling int) float64 {
	v := float64(sum*ceiling) / float64(n*e.cfg.LikertMax)
	return clamp(v, 0, float64(ceiling))
}

func (e *Engine) likert(index int, rec responses.ResponseRecord) (int, error) {
	if rec.Answer.IsZero() {
		if strings.TrimSpace(rec.Emotion) == "" {
			return 0, responses.Invalid(index, "answer", nil, "is required")
		}
		return e.cfg.Voice.Likert(rec.Emotion), nil
	}
	v, ok := rec.Answer.Ordinal()
	if !ok {
		return 0, responses.Invalid(index, "answer", rec.Answer.Value(),
			fmt.Sprintf("must be an integer between %d and %d", e.cfg.LikertMin, e.cfg.LikertMax))
	}
	if v < e.cfg.LikertMin || v > e.cfg.LikertMax {
		return 0, responses.Invalid(index, "answer", v,
			fmt.Sprintf("must be between %d and %d", e.cfg.LikertMin, e.cfg.LikertMax))
	}
	return v, nil
}

func (e *Engine) yesNo(index int, rec responses.ResponseRecord) (bool, error) {
	switch rec.Answer.Kind() {
	case responses.AnswerBoolean:
		v, _ := rec.Answer.Boolean()
		return v, nil
	case responses.AnswerText:
		switch strings.ToLower(strings.TrimSpace(rec.Answer.Text())) {
		case "yes", "y":
			return true, nil
		case "no", "n":
			return false, nil
		}
		return false, responses.Invalid(index, "answer", rec.Answer.Text(), "must be yes or no")
	case responses.AnswerOrdinal:
		v, err := e.likert(index, rec)
		if err != nil {
			return false, err
		}
		return e.cfg.Voice.Binary(v), nil
	default:
		if strings.TrimSpace(rec.Emotion) == "" {
			return false, responses.Invalid(index, "answer", nil, "is required")
		}
		return e.cfg.Voice.Binary(e.cfg.Voice.Likert(rec.Emotion)), nil
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
