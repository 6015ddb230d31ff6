// Package questionnaire holds the default readiness instrument.
package questionnaire

import "readiness-backend/internal/responses"

// Kind is how a question is answered.
type Kind string

const (
	KindLikert Kind = "likert"
	KindYesNo  Kind = "yes_no"
	KindOpen   Kind = "open"
)

// Question is one item of the instrument.
type Question struct {
	Number   int                `json:"number"`
	Text     string             `json:"text"`
	Category responses.Category `json:"category"`
	Kind     Kind               `json:"kind"`
}

// ScaleOption is one point of the Likert scale.
type ScaleOption struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// Bank is the full instrument.
type Bank struct {
	Questions []Question    `json:"questions"`
	Likert    []ScaleOption `json:"likert"`
	Voice     []Question    `json:"voice"`
}

var physical = []string{
	"I feel physically fit and ready to perform my tasks today.",
	"I had restful sleep last night and feel refreshed.",
	"I am free from any pain, discomfort, or illness at this moment.",
	"I feel energetic and physically active.",
	"I can perform my physical work without strain or fatigue.",
	"My physical condition allows me to work at my full capacity.",
	"I have no physical limitations that would affect my work today.",
}

var mental = []string{
	"I am feeling emotionally balanced and grounded.",
	"I am mentally present, focused, and not distracted.",
	"I feel emotionally stable and know how to manage my stress.",
	"I am well-rested and not experiencing mental fatigue.",
	"I recover quickly from emotional or mental setbacks.",
	"I feel motivated and engaged with my work.",
	"I can maintain concentration for extended periods when needed.",
}

var voice = []string{
	"How are you feeling today?",
	"What motivated you this week?",
	"Did you face any challenges recently?",
	"What are you looking forward to?",
	"Is there anything you'd like help with?",
}

const (
	certificationQuestion = "Have you completed all required certification courses for your current role?"
	behaviorQuestion      = "Do you have any past incidents of safety violations or concerning behavior?"
)

// Default returns the 16-question instrument, the five-point scale and the
// open-ended voice questions.
func Default() Bank {
	bank := Bank{
		Likert: []ScaleOption{
			{Value: 1, Label: "Strongly Disagree"},
			{Value: 2, Label: "Disagree"},
			{Value: 3, Label: "Neutral"},
			{Value: 4, Label: "Agree"},
			{Value: 5, Label: "Strongly Agree"},
		},
	}

	n := 0
	add := func(text string, cat responses.Category, kind Kind) {
		n++
		bank.Questions = append(bank.Questions, Question{Number: n, Text: text, Category: cat, Kind: kind})
	}
	for _, q := range physical {
		add(q, responses.CategoryPhysical, KindLikert)
	}
	for _, q := range mental {
		add(q, responses.CategoryMental, KindLikert)
	}
	add(certificationQuestion, responses.CategoryCertification, KindYesNo)
	add(behaviorQuestion, responses.CategoryBehavior, KindYesNo)

	for i, q := range voice {
		bank.Voice = append(bank.Voice, Question{Number: i + 1, Text: q, Category: responses.CategoryOpen, Kind: KindOpen})
	}
	return bank
}

// Template returns an unanswered session covering the structured instrument
// followed by the voice questions.
func Template() []responses.ResponseRecord {
	bank := Default()
	out := make([]responses.ResponseRecord, 0, len(bank.Questions)+len(bank.Voice))
	for _, q := range bank.Questions {
		out = append(out, responses.ResponseRecord{Question: q.Text, Category: q.Category})
	}
	for _, q := range bank.Voice {
		out = append(out, responses.ResponseRecord{Question: q.Text, Category: q.Category})
	}
	return out
}
