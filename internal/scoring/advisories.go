package scoring

import (
	"sort"
	"strings"

	"readiness-backend/internal/responses"
)

// maxAdvisories caps the detailed assessment list.
const maxAdvisories = 4

// Advisory is a deterministic follow-up derived from category scores.
type Advisory struct {
	ID       string             `json:"id"`
	Category responses.Category `json:"category"`
	Severity string             `json:"severity"`
	Message  string             `json:"message"`
	Order    int                `json:"order"`
}

// GenerateAdvisories builds the detailed assessment for a scored session:
// physical or mental below 60% of the ceiling, certification or behavior below
// the ceiling.
func GenerateAdvisories(result Result) []Advisory {
	candidates := make([]Advisory, 0, maxAdvisories)
	for _, cs := range result.Categories {
		if a, ok := advisoryFor(cs); ok {
			candidates = append(candidates, a)
		}
	}

	out := dedupe(candidates)
	sortAdvisories(out)
	if len(out) > maxAdvisories {
		out = out[:maxAdvisories]
	}
	for i := range out {
		out[i].Order = i + 1
	}
	return out
}

func advisoryFor(cs CategoryScore) (Advisory, bool) {
	ceiling := float64(cs.Max)
	switch cs.Category {
	case responses.CategoryPhysical:
		if cs.Points < ceiling*0.6 {
			return Advisory{
				ID:       "physical-concern",
				Category: cs.Category,
				Severity: "warning",
				Message:  "Physical readiness is concerning. Consider rest, recovery, or medical consultation.",
			}, true
		}
	case responses.CategoryMental:
		if cs.Points < ceiling*0.6 {
			return Advisory{
				ID:       "mental-concern",
				Category: cs.Category,
				Severity: "warning",
				Message:  "Mental readiness needs improvement. Stress management or mental health support may be beneficial.",
			}, true
		}
	case responses.CategoryCertification:
		if cs.Points < ceiling {
			return Advisory{
				ID:       "certification-missing",
				Category: cs.Category,
				Severity: "critical",
				Message:  "Certification requirements not met. Complete required training.",
			}, true
		}
	case responses.CategoryBehavior:
		if cs.Points < ceiling {
			return Advisory{
				ID:       "behavior-flagged",
				Category: cs.Category,
				Severity: "critical",
				Message:  "Historical behavior flagged. Additional review may be needed.",
			}, true
		}
	}
	return Advisory{}, false
}

func severityRank(value string) int {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "critical":
		return 3
	case "warning":
		return 2
	default:
		return 1
	}
}

func categoryRank(cat responses.Category) int {
	switch cat {
	case responses.CategoryPhysical:
		return 4
	case responses.CategoryMental:
		return 3
	case responses.CategoryCertification:
		return 2
	case responses.CategoryBehavior:
		return 1
	default:
		return 0
	}
}

func dedupe(items []Advisory) []Advisory {
	seen := make(map[string]bool, len(items))
	out := make([]Advisory, 0, len(items))
	for _, item := range items {
		id := strings.TrimSpace(item.ID)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, item)
	}
	return out
}

func sortAdvisories(items []Advisory) {
	sort.SliceStable(items, func(i, j int) bool {
		a := items[i]
		b := items[j]
		if severityRank(a.Severity) != severityRank(b.Severity) {
			return severityRank(a.Severity) > severityRank(b.Severity)
		}
		if categoryRank(a.Category) != categoryRank(b.Category) {
			return categoryRank(a.Category) > categoryRank(b.Category)
		}
		return a.ID < b.ID
	})
}
