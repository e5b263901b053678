package pii

import (
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-project/custodia/pkg/model"
)

// DefaultMediumThreshold is the MEDIUM-confidence match count that triggers
// quarantine when no HIGH match exists.
const DefaultMediumThreshold = 3

// Policy holds the risk-aggregation tunables.
type Policy struct {
	MediumThreshold int
}

// DefaultPolicy returns the standard policy.
func DefaultPolicy() Policy {
	return Policy{MediumThreshold: DefaultMediumThreshold}
}

// Assess derives the quarantine decision from a set of matches. Any single
// HIGH match quarantines (zero tolerance); otherwise MEDIUM matches at or
// above the threshold quarantine; otherwise the document passes.
func (p Policy) Assess(matches []model.PiiMatch) model.RiskAssessment {
	var high, medium []model.PiiMatch
	for _, m := range matches {
		switch m.Confidence {
		case model.ConfidenceHigh:
			high = append(high, m)
		case model.ConfidenceMedium:
			medium = append(medium, m)
		}
	}

	if len(high) > 0 {
		return model.RiskAssessment{
			Quarantine: true,
			Reason: fmt.Sprintf("HIGH-confidence PII detected: %s (%d instance(s))",
				distinctNames(high), len(high)),
		}
	}

	if len(medium) >= p.MediumThreshold {
		return model.RiskAssessment{
			Quarantine: true,
			Reason: fmt.Sprintf("%d MEDIUM-confidence pattern(s) detected (%s), at or above threshold of %d",
				len(medium), distinctNames(medium), p.MediumThreshold),
		}
	}

	return model.RiskAssessment{Quarantine: false, Reason: "No high-risk PII detected."}
}

func distinctNames(matches []model.PiiMatch) string {
	seen := make(map[string]struct{})
	for _, m := range matches {
		seen[m.PatternName] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
