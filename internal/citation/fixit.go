package citation

import (
	"fmt"
	"strings"

	"github.com/custodia-project/custodia/pkg/model"
)

// FixIt explains why an uncited claim was flagged and how to remedy it,
// naming the specific triggering tokens. Fix-it records support iterative
// remediation without blocking (draft reporting).
type FixIt struct {
	Sentence   string `json:"sentence"`
	Triggers   string `json:"triggers"`
	SourceHint string `json:"source_hint"`
	ModeNote   string `json:"mode_note"`
}

// BuildFixIt constructs the remediation record for one naked claim.
// manifestFilenames should be sorted; the first two become candidate source
// suggestions.
func BuildFixIt(claim model.ClaimSentence, manifestFilenames []string, mode model.Mode) FixIt {
	var parts []string
	if hits, ok := claim.Examples[model.SignalProperNoun]; ok {
		parts = append(parts, fmt.Sprintf("proper noun(s) %s (NNP)", quoteJoin(hits)))
	}
	if hits, ok := claim.Examples[model.SignalNumber]; ok {
		parts = append(parts, fmt.Sprintf("number(s) %s (CD)", quoteJoin(hits)))
	}
	if hits, ok := claim.Examples[model.SignalComparative]; ok {
		parts = append(parts, fmt.Sprintf("comparative/superlative %s (JJR)", quoteJoin(hits)))
	}

	triggers := "a claim signal"
	if len(parts) > 0 {
		triggers = strings.Join(parts, " and ")
	}

	var sourceHint string
	if len(manifestFilenames) > 0 {
		candidates := manifestFilenames
		if len(candidates) > 2 {
			candidates = candidates[:2]
		}
		sourceHint = fmt.Sprintf(
			"Look up the relevant passage in %s (or another manifest document), then append its SHA256 from the manifest to this sentence.",
			quoteJoinWith(candidates, " or "))
	} else {
		sourceHint = "Find the source document in the manifest and append its SHA256 to this sentence."
	}

	modeNote := "In research mode this is a warning. Address before switching to compliance mode."
	if mode == model.ModeCompliance {
		modeNote = "In compliance mode every claim sentence must carry a citation."
	}

	return FixIt{
		Sentence:   claim.Text,
		Triggers:   triggers,
		SourceHint: sourceHint,
		ModeNote:   modeNote,
	}
}

func quoteJoin(words []string) string {
	return quoteJoinWith(words, ", ")
}

func quoteJoinWith(words []string, sep string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = "'" + w + "'"
	}
	return strings.Join(quoted, sep)
}
