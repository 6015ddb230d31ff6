package responses

import (
	"bytes"
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// LabelScore is one label/score pair of a ScoreMap.
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// ScoreMap is a read-only label -> score mapping that remembers insertion
// order. Order matters: ties in rankings are broken by it. The zero value is
// an empty map and a missing label reads as 0.
type ScoreMap struct {
	m *orderedmap.OrderedMap[string, float64]
}

// NewScoreMap builds a ScoreMap from pairs in order. A repeated label keeps its
// first position and takes the last score.
func NewScoreMap(pairs ...LabelScore) ScoreMap {
	m := orderedmap.New[string, float64]()
	for _, p := range pairs {
		m.Set(p.Label, p.Score)
	}
	return ScoreMap{m: m}
}

// ScoreMapOf converts a plain map. Go maps carry no order, so labels are
// inserted alphabetically to keep the result deterministic.
func ScoreMapOf(values map[string]float64) ScoreMap {
	labels := make([]string, 0, len(values))
	for label := range values {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	pairs := make([]LabelScore, 0, len(labels))
	for _, label := range labels {
		pairs = append(pairs, LabelScore{Label: label, Score: values[label]})
	}
	return NewScoreMap(pairs...)
}

// Get returns the score for label, or 0 when absent.
func (s ScoreMap) Get(label string) float64 {
	if s.m == nil {
		return 0
	}
	v, _ := s.m.Get(label)
	return v
}

// Has reports whether label is present.
func (s ScoreMap) Has(label string) bool {
	if s.m == nil {
		return false
	}
	_, ok := s.m.Get(label)
	return ok
}

// Present reports whether the map was supplied at all. An explicit empty
// object is present; an omitted key is not.
func (s ScoreMap) Present() bool { return s.m != nil }

// Len returns the number of labels.
func (s ScoreMap) Len() int {
	if s.m == nil {
		return 0
	}
	return s.m.Len()
}

// Pairs returns a copy of the entries in insertion order.
func (s ScoreMap) Pairs() []LabelScore {
	out := make([]LabelScore, 0, s.Len())
	if s.m == nil {
		return out
	}
	for pair := s.m.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, LabelScore{Label: pair.Key, Score: pair.Value})
	}
	return out
}

// Labels returns the labels in insertion order.
func (s ScoreMap) Labels() []string {
	pairs := s.Pairs()
	out := make([]string, len(pairs))
	for i, p := range pairs {
		out[i] = p.Label
	}
	return out
}

// Total sums every score.
func (s ScoreMap) Total() float64 {
	total := 0.0
	for _, p := range s.Pairs() {
		total += p.Score
	}
	return total
}

// MarshalJSON writes a JSON object with keys in insertion order.
func (s ScoreMap) MarshalJSON() ([]byte, error) {
	if s.m == nil {
		return []byte("{}"), nil
	}
	return s.m.MarshalJSON()
}

// UnmarshalJSON reads a JSON object keeping key order. null yields an empty map.
func (s *ScoreMap) UnmarshalJSON(data []byte) error {
	m := orderedmap.New[string, float64]()
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		s.m = m
		return nil
	}
	if err := m.UnmarshalJSON(data); err != nil {
		return err
	}
	s.m = m
	return nil
}
