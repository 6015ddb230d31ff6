package scoring

import (
	"fmt"
	"strings"
)

// VoicePolicy resolves structured questions that were answered by voice, where
// the collector only supplies an emotion label.
type VoicePolicy struct {
	// EmotionLikert maps a lower-case emotion label to a Likert value.
	EmotionLikert map[string]int
	// DefaultLikert is used for labels missing from EmotionLikert.
	DefaultLikert int
	// AffirmativeMin is the smallest ordinal that counts as "yes" for a
	// binary question.
	AffirmativeMin int
}

// DefaultVoicePolicy maps anger/disgust to 1, fear/sadness to 2, neutral to 3,
// surprise to 4 and joy to 5; ordinals of 4 and above count as "yes".
func DefaultVoicePolicy() VoicePolicy {
	return VoicePolicy{
		EmotionLikert: map[string]int{
			"anger":    1,
			"disgust":  1,
			"fear":     2,
			"sadness":  2,
			"neutral":  3,
			"surprise": 4,
			"joy":      5,
		},
		DefaultLikert:  3,
		AffirmativeMin: 4,
	}
}

// Likert returns the Likert value for an emotion label.
func (p VoicePolicy) Likert(emotion string) int {
	if v, ok := p.EmotionLikert[strings.ToLower(strings.TrimSpace(emotion))]; ok {
		return v
	}
	return p.DefaultLikert
}

// Binary applies the ordinal-threshold policy.
func (p VoicePolicy) Binary(ordinal int) bool {
	return ordinal >= p.AffirmativeMin
}

// Validate checks every mapped value against the Likert range.
func (p VoicePolicy) Validate(min, max int) error {
	if p.DefaultLikert < min || p.DefaultLikert > max {
		return fmt.Errorf("scoring: voice default %d outside %d..%d", p.DefaultLikert, min, max)
	}
	if p.AffirmativeMin < min || p.AffirmativeMin > max {
		return fmt.Errorf("scoring: affirmative threshold %d outside %d..%d", p.AffirmativeMin, min, max)
	}
	for label, v := range p.EmotionLikert {
		if v < min || v > max {
			return fmt.Errorf("scoring: emotion %q maps to %d, outside %d..%d", label, v, min, max)
		}
	}
	return nil
}
