package scoring

import (
	"fmt"

	"readiness-backend/internal/responses"
)

// Config holds the category ceilings, Likert domain, tier boundaries and the
// policy used for voice-derived answers.
type Config struct {
	PhysicalMax      int
	MentalMax        int
	CertificationMax int
	BehaviorMax      int

	LikertMin int
	LikertMax int

	Tiers TierBounds
	Voice VoicePolicy
}

// DefaultConfig returns the 35/35/15/15 instrument with 90/75/60/45 tiers.
func DefaultConfig() Config {
	return Config{
		PhysicalMax:      35,
		MentalMax:        35,
		CertificationMax: 15,
		BehaviorMax:      15,
		LikertMin:        1,
		LikertMax:        5,
		Tiers:            DefaultTierBounds(),
		Voice:            DefaultVoicePolicy(),
	}
}

// Ceiling returns the maximum points of a structured category.
func (c Config) Ceiling(cat responses.Category) int {
	switch cat {
	case responses.CategoryPhysical:
		return c.PhysicalMax
	case responses.CategoryMental:
		return c.MentalMax
	case responses.CategoryCertification:
		return c.CertificationMax
	case responses.CategoryBehavior:
		return c.BehaviorMax
	default:
		return 0
	}
}

// Validate rejects configurations that could produce a total outside [0,100].
func (c Config) Validate() error {
	total := 0
	for _, cat := range responses.StructuredCategories {
		ceiling := c.Ceiling(cat)
		if ceiling <= 0 {
			return fmt.Errorf("scoring: %s ceiling must be positive, got %d", cat, ceiling)
		}
		total += ceiling
	}
	if total != 100 {
		return fmt.Errorf("scoring: category ceilings must sum to 100, got %d", total)
	}
	if c.LikertMin < 1 || c.LikertMax <= c.LikertMin {
		return fmt.Errorf("scoring: invalid likert range %d..%d", c.LikertMin, c.LikertMax)
	}
	if err := c.Tiers.Validate(); err != nil {
		return err
	}
	return c.Voice.Validate(c.LikertMin, c.LikertMax)
}
