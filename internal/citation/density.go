package citation

import (
	"regexp"
	"strings"

	"github.com/custodia-project/custodia/pkg/model"
)

// The claim detector is a crude lexical proxy, not grammatical tagging. Its
// signal definitions are load-bearing for compliance decisions; changing them
// changes which sentences require citations.

// Function words and calendar names excluded from the proper-noun signal.
var functionWords = map[string]struct{}{
	"The": {}, "A": {}, "An": {}, "This": {}, "That": {}, "These": {}, "Those": {},
	"It": {}, "He": {}, "She": {}, "We": {}, "They": {}, "I": {}, "You": {},
	"His": {}, "Her": {}, "Its": {}, "Our": {}, "Their": {},
	"If": {}, "When": {}, "While": {}, "Although": {}, "Because": {}, "Since": {},
	"After": {}, "Before": {}, "And": {}, "But": {}, "Or": {}, "Nor": {}, "So": {},
	"Yet": {}, "For": {}, "In": {}, "On": {}, "At": {}, "By": {}, "To": {},
	"Of": {}, "With": {}, "From": {}, "As": {},
	"Monday": {}, "Tuesday": {}, "Wednesday": {}, "Thursday": {}, "Friday": {},
	"Saturday": {}, "Sunday": {},
	"January": {}, "February": {}, "March": {}, "April": {}, "May": {}, "June": {},
	"July": {}, "August": {}, "September": {}, "October": {}, "November": {},
	"December": {},
}

var (
	capitalWord = regexp.MustCompile(`\b[A-Z][a-z]+\b`)

	numberPattern = regexp.MustCompile(`(?i)\b(?:` +
		`\d[\d,]*(?:\.\d+)?` +
		`|\d+%` +
		`|one|two|three|four|five|six|seven|eight|nine|ten` +
		`|eleven|twelve|thirteen|fourteen|fifteen|sixteen|seventeen|eighteen|nineteen` +
		`|twenty|thirty|forty|fifty|sixty|seventy|eighty|ninety` +
		`|hundred|thousand|million|billion|trillion` +
		`|percent` +
		`)\b`)

	comparativePattern = regexp.MustCompile(`(?i)\b(?:` +
		`\w+er|\w+est` +
		`|more\s+\w+|most\s+\w+` +
		`|fewer\s+\w+|least\s+\w+` +
		`|greater\s+than|higher\s+than|lower\s+than` +
		`)\b`)
)

const maxSignalExamples = 3

// SplitSentences splits text at boundaries of terminal punctuation followed
// by whitespace, trimming empty segments.
func SplitSentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i+1 < len(text); i++ {
		c := text[i]
		if (c == '.' || c == '!' || c == '?') && isSpaceByte(text[i+1]) {
			if seg := strings.TrimSpace(text[start : i+1]); seg != "" {
				out = append(out, seg)
			}
			start = i + 1
		}
	}
	if seg := strings.TrimSpace(text[start:]); seg != "" {
		out = append(out, seg)
	}
	return out
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

// signalExamples evaluates the three claim signals over a sentence and
// returns the fired signals with up to three triggering tokens each. The
// proper-noun signal ignores the sentence's leading word.
func signalExamples(sentence string) ([]model.ClaimSignal, map[model.ClaimSignal][]string) {
	tokens := strings.Fields(sentence)
	if len(tokens) == 0 {
		return nil, nil
	}

	var signals []model.ClaimSignal
	examples := make(map[model.ClaimSignal][]string)

	rest := strings.Join(tokens[1:], " ")
	var nnp []string
	for _, w := range capitalWord.FindAllString(rest, -1) {
		if _, stop := functionWords[w]; !stop {
			nnp = append(nnp, w)
		}
	}
	if len(nnp) > 0 {
		signals = append(signals, model.SignalProperNoun)
		examples[model.SignalProperNoun] = cap3(nnp)
	}

	if cd := numberPattern.FindAllString(sentence, -1); len(cd) > 0 {
		signals = append(signals, model.SignalNumber)
		examples[model.SignalNumber] = cap3(cd)
	}

	if jjr := comparativePattern.FindAllString(sentence, -1); len(jjr) > 0 {
		signals = append(signals, model.SignalComparative)
		examples[model.SignalComparative] = cap3(jjr)
	}

	if len(signals) == 0 {
		return nil, nil
	}
	return signals, examples
}

func cap3(hits []string) []string {
	if len(hits) > maxSignalExamples {
		return hits[:maxSignalExamples]
	}
	return hits
}

// DensityResult summarizes claim detection over one response text.
type DensityResult struct {
	TotalSentences int                   `json:"total_sentences"`
	Claims         []model.ClaimSentence `json:"claims"`
	CitedCount     int                   `json:"cited_count"`
	NakedClaims    []model.ClaimSentence `json:"naked_claims,omitempty"`
	NonClaimCount  int                   `json:"non_claim_count"`
	// Density is cited claims over total claims; nil when the text has no
	// claim sentences (the ratio is undefined, not zero).
	Density *float64 `json:"density"`
}

// ClaimCount returns the number of claim sentences.
func (r *DensityResult) ClaimCount() int {
	return len(r.Claims)
}

// Pass reports whether the density satisfies the threshold. An undefined
// density passes: with no claims there is nothing to cite.
func (r *DensityResult) Pass(threshold float64) bool {
	return r.Density == nil || *r.Density >= threshold
}

// Scorer computes claim detection and citation density against a verifier's
// known hash set. A claim sentence is cited iff it embeds a 64-hex token the
// manifest knows; a filename-only citation does not satisfy it.
type Scorer struct {
	verifier *Verifier
}

// NewScorer creates a scorer over the given verifier.
func NewScorer(v *Verifier) *Scorer {
	return &Scorer{verifier: v}
}

// Score runs claim detection over every sentence of text.
func (s *Scorer) Score(text string) *DensityResult {
	sentences := SplitSentences(text)
	res := &DensityResult{TotalSentences: len(sentences)}

	for _, sentence := range sentences {
		signals, examples := signalExamples(sentence)
		if len(signals) == 0 {
			res.NonClaimCount++
			continue
		}

		cited := false
		for _, h := range ExtractHashes(sentence) {
			if s.verifier.KnownHash(h) {
				cited = true
				break
			}
		}

		claim := model.ClaimSentence{
			Text:     sentence,
			Signals:  signals,
			Examples: examples,
			Cited:    cited,
		}
		res.Claims = append(res.Claims, claim)
		if cited {
			res.CitedCount++
		} else {
			res.NakedClaims = append(res.NakedClaims, claim)
		}
	}

	if n := len(res.Claims); n > 0 {
		d := float64(res.CitedCount) / float64(n)
		res.Density = &d
	}
	return res
}
