package scoring

import (
	"errors"
	"reflect"
	"testing"

	"readiness-backend/internal/responses"
)

func likertRecords(cat responses.Category, answers ...int) []responses.ResponseRecord {
	out := make([]responses.ResponseRecord, 0, len(answers))
	for i, a := range answers {
		out = append(out, responses.ResponseRecord{
			Question: string(cat) + " statement " + string(rune('A'+i)),
			Category: cat,
			Answer:   responses.Ordinal(a),
		})
	}
	return out
}

func session(physical, mental []int, cert, behavior responses.Answer) []responses.ResponseRecord {
	records := likertRecords(responses.CategoryPhysical, physical...)
	records = append(records, likertRecords(responses.CategoryMental, mental...)...)
	records = append(records,
		responses.ResponseRecord{Question: "certified?", Category: responses.CategoryCertification, Answer: cert},
		responses.ResponseRecord{Question: "incidents?", Category: responses.CategoryBehavior, Answer: behavior},
	)
	return records
}

func repeat(v, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(DefaultConfig())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestScoreGoodScenario(t *testing.T) {
	engine := newTestEngine(t)
	result, err := engine.Score(session(repeat(5, 7), repeat(3, 7), responses.Text("yes"), responses.Text("no")))
	if err != nil {
		t.Fatalf("score: %v", err)
	}

	want := map[responses.Category]float64{
		responses.CategoryPhysical:      35,
		responses.CategoryMental:        21,
		responses.CategoryCertification: 15,
		responses.CategoryBehavior:      15,
	}
	for cat, points := range want {
		cs, ok := result.Category(cat)
		if !ok || cs.Points != points {
			t.Fatalf("%s = %v, want %v", cat, cs.Points, points)
		}
	}
	if result.Total != 86 {
		t.Fatalf("total = %v, want 86", result.Total)
	}
	if result.Tier != TierGood || result.TierLabel != "Good Readiness" {
		t.Fatalf("tier = %q (%q)", result.Tier, result.TierLabel)
	}
	if len(result.Advisories) != 0 {
		t.Fatalf("expected no advisories at 21/35, got %+v", result.Advisories)
	}
}

func TestPhysicalEqualsRawSum(t *testing.T) {
	engine := newTestEngine(t)
	answers := []int{1, 2, 3, 4, 5, 4, 2}
	result, err := engine.Score(session(answers, repeat(3, 7), responses.Boolean(true), responses.Boolean(false)))
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	cs, _ := result.Category(responses.CategoryPhysical)
	if cs.Points != 21 || cs.Questions != 7 {
		t.Fatalf("physical = %+v, want 21 over 7 questions", cs)
	}
}

func TestBinaryCategories(t *testing.T) {
	engine := newTestEngine(t)
	cases := []struct {
		name         string
		cert         responses.Answer
		behavior     responses.Answer
		wantCert     float64
		wantBehavior float64
	}{
		{name: "text_yes_no", cert: responses.Text("Yes"), behavior: responses.Text("n"), wantCert: 15, wantBehavior: 15},
		{name: "text_no_yes", cert: responses.Text("no"), behavior: responses.Text("YES"), wantCert: 0, wantBehavior: 0},
		{name: "booleans", cert: responses.Boolean(true), behavior: responses.Boolean(true), wantCert: 15, wantBehavior: 0},
		{name: "ordinal_threshold", cert: responses.Ordinal(4), behavior: responses.Ordinal(3), wantCert: 15, wantBehavior: 15},
		{name: "ordinal_below", cert: responses.Ordinal(3), behavior: responses.Ordinal(5), wantCert: 0, wantBehavior: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := engine.Score(session(repeat(3, 7), repeat(3, 7), tc.cert, tc.behavior))
			if err != nil {
				t.Fatalf("score: %v", err)
			}
			cert, _ := result.Category(responses.CategoryCertification)
			behavior, _ := result.Category(responses.CategoryBehavior)
			if cert.Points != tc.wantCert || behavior.Points != tc.wantBehavior {
				t.Fatalf("cert=%v behavior=%v, want %v/%v", cert.Points, behavior.Points, tc.wantCert, tc.wantBehavior)
			}
		})
	}
}

func TestVoiceAnswersUseEmotion(t *testing.T) {
	engine := newTestEngine(t)
	records := session(repeat(5, 7), nil, responses.Answer{}, responses.Answer{})
	for _, emotion := range []string{"joy", "anger", "fear", "neutral", "surprise", "sadness", "boredom"} {
		records = append(records, responses.ResponseRecord{
			Question: "mental by voice",
			Category: responses.CategoryMental,
			Emotion:  emotion,
		})
	}
	records[7].Emotion = "joy"
	records[8].Emotion = "sadness"

	result, err := engine.Score(records)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	mental, _ := result.Category(responses.CategoryMental)
	// 5+1+2+3+4+2+3
	if mental.Points != 20 {
		t.Fatalf("mental = %v, want 20", mental.Points)
	}
	cert, _ := result.Category(responses.CategoryCertification)
	behavior, _ := result.Category(responses.CategoryBehavior)
	if cert.Points != 15 || behavior.Points != 15 {
		t.Fatalf("cert=%v behavior=%v, want 15/15", cert.Points, behavior.Points)
	}
}

func TestGenericRescale(t *testing.T) {
	engine := newTestEngine(t)
	result, err := engine.Score(session([]int{5, 5, 5}, []int{1, 2}, responses.Boolean(true), responses.Boolean(false)))
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	physical, _ := result.Category(responses.CategoryPhysical)
	mental, _ := result.Category(responses.CategoryMental)
	if physical.Points != 35 {
		t.Fatalf("physical = %v, want 35", physical.Points)
	}
	if mental.Points != 10.5 {
		t.Fatalf("mental = %v, want 10.5", mental.Points)
	}
}

func TestScoreValidation(t *testing.T) {
	engine := newTestEngine(t)
	cases := []struct {
		name      string
		records   []responses.ResponseRecord
		wantIndex int
		wantField string
	}{
		{
			name:      "likert_above_range",
			records:   session([]int{5, 6, 5}, repeat(3, 7), responses.Boolean(true), responses.Boolean(false)),
			wantIndex: 1,
			wantField: "answer",
		},
		{
			name:      "likert_zero",
			records:   session(repeat(3, 7), []int{0}, responses.Boolean(true), responses.Boolean(false)),
			wantIndex: 7,
			wantField: "answer",
		},
		{
			name:      "binary_maybe",
			records:   session(repeat(3, 7), repeat(3, 7), responses.Text("maybe"), responses.Boolean(false)),
			wantIndex: 14,
			wantField: "answer",
		},
		{
			name:      "missing_answer",
			records:   session(repeat(3, 7), repeat(3, 7), responses.Boolean(true), responses.Answer{}),
			wantIndex: 15,
			wantField: "answer",
		},
		{
			name: "duplicate_certification",
			records: append(session(repeat(3, 7), repeat(3, 7), responses.Boolean(true), responses.Boolean(false)),
				responses.ResponseRecord{Category: responses.CategoryCertification, Answer: responses.Boolean(true)}),
			wantIndex: 16,
			wantField: "category",
		},
		{
			name: "open_record",
			records: append(session(repeat(3, 7), repeat(3, 7), responses.Boolean(true), responses.Boolean(false)),
				responses.ResponseRecord{Category: responses.CategoryOpen, Answer: responses.Text("fine")}),
			wantIndex: 16,
			wantField: "category",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.Score(tc.records)
			var verr *responses.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Index != tc.wantIndex || verr.Field != tc.wantField {
				t.Fatalf("got index=%d field=%q, want %d/%q", verr.Index, verr.Field, tc.wantIndex, tc.wantField)
			}
		})
	}
}

func TestScoreInsufficientData(t *testing.T) {
	engine := newTestEngine(t)
	if _, err := engine.Score(nil); !errors.Is(err, responses.ErrInsufficientData) {
		t.Fatalf("expected insufficient data for empty session, got %v", err)
	}
	records := likertRecords(responses.CategoryPhysical, repeat(4, 7)...)
	if _, err := engine.Score(records); !errors.Is(err, responses.ErrInsufficientData) {
		t.Fatalf("expected insufficient data for missing categories, got %v", err)
	}
}

func TestTotalAlwaysInRange(t *testing.T) {
	engine := newTestEngine(t)
	for low := 1; low <= 5; low++ {
		for _, yes := range []bool{true, false} {
			result, err := engine.Score(session(repeat(low, 7), repeat(6-low, 7), responses.Boolean(yes), responses.Boolean(yes)))
			if err != nil {
				t.Fatalf("score: %v", err)
			}
			if result.Total < 0 || result.Total > 100 {
				t.Fatalf("total %v out of range", result.Total)
			}
		}
	}
}

func TestAdvisories(t *testing.T) {
	engine := newTestEngine(t)
	result, err := engine.Score(session(repeat(2, 7), repeat(4, 7), responses.Text("no"), responses.Text("yes")))
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	ids := make([]string, 0, len(result.Advisories))
	for i, a := range result.Advisories {
		if a.Order != i+1 {
			t.Fatalf("advisory %s has order %d", a.ID, a.Order)
		}
		ids = append(ids, a.ID)
	}
	want := []string{"certification-missing", "behavior-flagged", "physical-concern"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("advisories = %v, want %v", ids, want)
	}

	again, _ := engine.Score(session(repeat(2, 7), repeat(4, 7), responses.Text("no"), responses.Text("yes")))
	if !reflect.DeepEqual(result, again) {
		t.Fatalf("expected deterministic scoring")
	}
}
