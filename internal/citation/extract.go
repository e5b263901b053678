// Package citation checks AI-drafted responses against the provenance
// ledger: citation extraction and verification, claim detection, and
// citation-density scoring.
package citation

import (
	"regexp"
	"sort"
	"strings"
)

var hashPattern = regexp.MustCompile(`\b[0-9a-f]{64}\b`)

// Filename citations come in several independent surface forms.
var filenamePatterns = []*regexp.Regexp{
	// Quoted key/value pairs naming a filename.
	regexp.MustCompile(`"filename"\s*:\s*"([^"]+)"`),
	regexp.MustCompile(`'filename'\s*:\s*'([^']+)'`),
	// A bare file: label followed by a dotted token.
	regexp.MustCompile(`\bfile[:\s]+([^\s,;"']+\.[a-zA-Z0-9]+)`),
	// Bare tokens ending in a document extension.
	regexp.MustCompile(`(?i)\b([\w.\-]+\.(?:pdf|docx|txt|json|csv|xlsx))\b`),
}

// ExtractHashes returns every 64-hex token in text, deduplicated and sorted.
func ExtractHashes(text string) []string {
	seen := make(map[string]struct{})
	for _, h := range hashPattern.FindAllString(text, -1) {
		seen[h] = struct{}{}
	}
	return sortedKeys(seen)
}

// ExtractFilenames returns every filename-like token in text, deduplicated
// across all surface forms and sorted.
func ExtractFilenames(text string) []string {
	seen := make(map[string]struct{})
	for _, re := range filenamePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			name := strings.TrimSpace(m[1])
			if name != "" {
				seen[name] = struct{}{}
			}
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
