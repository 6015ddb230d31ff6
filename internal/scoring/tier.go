package scoring

import "fmt"

// Tier is the interpretation band of a total score.
type Tier string

const (
	TierExcellent Tier = "excellent"
	TierGood      Tier = "good"
	TierModerate  Tier = "moderate"
	TierLow       Tier = "low"
	TierCritical  Tier = "critical"
)

// Label is the human readable status line for the tier.
func (t Tier) Label() string {
	switch t {
	case TierExcellent:
		return "Excellent Readiness"
	case TierGood:
		return "Good Readiness"
	case TierModerate:
		return "Moderate Readiness"
	case TierLow:
		return "Low Readiness"
	default:
		return "Critical (Not Ready)"
	}
}

// TierBounds are the inclusive lower bounds of each tier above critical.
type TierBounds struct {
	Excellent float64 `json:"excellent"`
	Good      float64 `json:"good"`
	Moderate  float64 `json:"moderate"`
	Low       float64 `json:"low"`
}

// DefaultTierBounds returns 90/75/60/45.
func DefaultTierBounds() TierBounds {
	return TierBounds{Excellent: 90, Good: 75, Moderate: 60, Low: 45}
}

// Validate requires strictly decreasing bounds inside (0,100].
func (b TierBounds) Validate() error {
	if !(b.Excellent <= 100 && b.Excellent > b.Good && b.Good > b.Moderate && b.Moderate > b.Low && b.Low > 0) {
		return fmt.Errorf("scoring: tier bounds must be strictly decreasing within (0,100], got %v/%v/%v/%v",
			b.Excellent, b.Good, b.Moderate, b.Low)
	}
	return nil
}

// Interpret maps a total to its tier. Checks run top-down and a score equal
// to a boundary belongs to the higher tier.
func (b TierBounds) Interpret(total float64) Tier {
	switch {
	case total >= b.Excellent:
		return TierExcellent
	case total >= b.Good:
		return TierGood
	case total >= b.Moderate:
		return TierModerate
	case total >= b.Low:
		return TierLow
	default:
		return TierCritical
	}
}
