// Package responses holds the response record produced once per answered
// question by the input collector and its classifiers.
package responses

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Category tags which part of the instrument a response belongs to.
type Category string

const (
	CategoryPhysical      Category = "physical"
	CategoryMental        Category = "mental"
	CategoryCertification Category = "certification"
	CategoryBehavior      Category = "behavior"
	// CategoryOpen marks open-ended (voice/text) questions scored by sentiment.
	CategoryOpen Category = "open"
)

// StructuredCategories lists the categories scored by the category engine, in
// report order.
var StructuredCategories = []Category{
	CategoryPhysical,
	CategoryMental,
	CategoryCertification,
	CategoryBehavior,
}

// ParseCategory normalizes a category string. An empty string means open.
func ParseCategory(raw string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(CategoryOpen):
		return CategoryOpen, nil
	case string(CategoryPhysical):
		return CategoryPhysical, nil
	case string(CategoryMental):
		return CategoryMental, nil
	case string(CategoryCertification):
		return CategoryCertification, nil
	case string(CategoryBehavior):
		return CategoryBehavior, nil
	default:
		return "", fmt.Errorf("unknown category %q", raw)
	}
}

// Structured reports whether the category is scored by the category engine.
func (c Category) Structured() bool {
	switch c {
	case CategoryPhysical, CategoryMental, CategoryCertification, CategoryBehavior:
		return true
	default:
		return false
	}
}

// UnmarshalJSON normalizes the category while decoding.
func (c *Category) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseCategory(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// AnswerKind is the shape of an answer.
type AnswerKind string

const (
	AnswerNone    AnswerKind = ""
	AnswerOrdinal AnswerKind = "ordinal"
	AnswerBoolean AnswerKind = "boolean"
	AnswerText    AnswerKind = "text"
)

// Answer is an ordinal, a boolean, free text, or absent. In JSON it is a
// number, a bool, a string or null respectively.
type Answer struct {
	kind    AnswerKind
	ordinal int
	boolean bool
	text    string
}

// Ordinal builds an ordinal answer.
func Ordinal(v int) Answer { return Answer{kind: AnswerOrdinal, ordinal: v} }

// Boolean builds a yes/no answer.
func Boolean(v bool) Answer { return Answer{kind: AnswerBoolean, boolean: v} }

// Text builds a free-text answer.
func Text(s string) Answer { return Answer{kind: AnswerText, text: s} }

// Kind returns the answer shape.
func (a Answer) Kind() AnswerKind { return a.kind }

// IsZero reports whether no answer was supplied.
func (a Answer) IsZero() bool { return a.kind == AnswerNone }

// Ordinal returns the ordinal value and whether the answer is an ordinal.
func (a Answer) Ordinal() (int, bool) { return a.ordinal, a.kind == AnswerOrdinal }

// Boolean returns the boolean value and whether the answer is a boolean.
func (a Answer) Boolean() (bool, bool) { return a.boolean, a.kind == AnswerBoolean }

// Text returns the text of a free-text answer.
func (a Answer) Text() string { return a.text }

// String formats the answer for display.
func (a Answer) String() string {
	switch a.kind {
	case AnswerOrdinal:
		return strconv.Itoa(a.ordinal)
	case AnswerBoolean:
		if a.boolean {
			return "yes"
		}
		return "no"
	case AnswerText:
		return a.text
	default:
		return ""
	}
}

// Value returns the underlying Go value, mainly for error context.
func (a Answer) Value() any {
	switch a.kind {
	case AnswerOrdinal:
		return a.ordinal
	case AnswerBoolean:
		return a.boolean
	case AnswerText:
		return a.text
	default:
		return nil
	}
}

// MarshalJSON encodes the answer as number, bool, string or null.
func (a Answer) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Value())
}

// UnmarshalJSON decodes number, bool, string or null. Numbers must be whole.
func (a *Answer) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*a = Answer{}
		return nil
	}
	var raw any
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return fmt.Errorf("answer must be a whole number, got %v", v)
		}
		*a = Ordinal(int(v))
	case bool:
		*a = Boolean(v)
	case string:
		*a = Text(v)
	default:
		return errors.New("answer must be a number, boolean, string or null")
	}
	return nil
}

// ResponseRecord is one answered question. Records are never mutated once
// built; engines derive new structures from them.
type ResponseRecord struct {
	Question   string   `json:"question"`
	Category   Category `json:"category,omitempty"`
	Answer     Answer   `json:"answer"`
	Emotion    string   `json:"emotion,omitempty"`
	Sentiment  ScoreMap `json:"sentiment"`
	Moderation ScoreMap `json:"moderation"`
}

// CategoryOrOpen returns the record category, treating an empty tag as open.
func (r ResponseRecord) CategoryOrOpen() Category {
	if r.Category == "" {
		return CategoryOpen
	}
	return r.Category
}

// Partition splits records into structured and open groups and returns, for
// each group, the original session positions.
func Partition(records []ResponseRecord) (structured []ResponseRecord, structuredPos []int, open []ResponseRecord, openPos []int) {
	for i, rec := range records {
		if rec.CategoryOrOpen().Structured() {
			structured = append(structured, rec)
			structuredPos = append(structuredPos, i)
			continue
		}
		open = append(open, rec)
		openPos = append(openPos, i)
	}
	return structured, structuredPos, open, openPos
}
