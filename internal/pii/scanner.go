package pii

import (
	"sort"

	"github.com/custodia-project/custodia/pkg/model"
)

// Scan returns every match across the registry, tagged with its detector
// name, confidence, span, and raw text, ordered by position in the source
// text. Matches at identical positions keep registry order: matches are
// generated registry-first and the sort is stable on the start offset.
func Scan(text string) []model.PiiMatch {
	var matches []model.PiiMatch
	for _, d := range registry {
		for _, loc := range d.re.FindAllStringIndex(text, -1) {
			raw := text[loc[0]:loc[1]]
			if d.validate != nil && !d.validate(raw) {
				continue
			}
			matches = append(matches, model.PiiMatch{
				PatternName: d.name,
				Confidence:  d.confidence,
				MatchedText: raw,
				Start:       loc[0],
				End:         loc[1],
			})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Start < matches[j].Start
	})
	return matches
}

// Redact masks a matched value for safe display: first 4 characters plus a
// mask, or a full mask for short values.
func Redact(s string) string {
	if len(s) > 4 {
		return s[:4] + "****"
	}
	return "****"
}
