// Package pii implements the sensitive-identifier smoke test: a pattern
// registry over extracted text and the quarantine decision derived from its
// matches. It is a lightweight heuristic, not a certified de-identification
// tool.
package pii

import (
	"regexp"
	"strings"

	"github.com/custodia-project/custodia/pkg/model"
)

// detector is one named pattern with a fixed confidence tier. An optional
// validate func filters raw regexp matches; Go's RE2 engine has no lookahead,
// so exclusion rules that the patterns cannot express live there.
type detector struct {
	name       string
	confidence model.Confidence
	re         *regexp.Regexp
	validate   func(string) bool
}

// registry is ordered; match position ties are broken by registry order.
var registry = []detector{
	// Social Security Number: 123-45-6789 or 123456789. Area 000/666/9xx,
	// group 00 and serial 0000 are never issued.
	{
		name:       "SSN",
		confidence: model.ConfidenceHigh,
		re:         regexp.MustCompile(`\b\d{3}[-\s]?\d{2}[-\s]?\d{4}\b`),
		validate:   validSSN,
	},

	// CMS Medicare Beneficiary Identifier: 1EG4-TE5-MK72 style, reduced to
	// its observable alphanumeric structure.
	{
		name:       "MBI",
		confidence: model.ConfidenceHigh,
		re: regexp.MustCompile(`(?i)\b[1-9][A-CEGHJ-NP-RT-Y][A-CEGHJ-NP-RT-Y0-9]\d` +
			`[A-CEGHJ-NP-RT-Y][A-CEGHJ-NP-RT-Y0-9]\d[A-CEGHJ-NP-RT-Y0-9]{2}\d{2}\b`),
	},

	// National Provider Identifier: exactly 10 digits, labeled.
	{
		name:       "NPI",
		confidence: model.ConfidenceHigh,
		re:         regexp.MustCompile(`(?i)\bNPI[:\s#]*\d{10}\b`),
	},

	// DEA registration number: 2 letters + 7 digits, labeled.
	{
		name:       "DEA_NUMBER",
		confidence: model.ConfidenceHigh,
		re:         regexp.MustCompile(`(?i)\bDEA[:\s#]*[A-Z]{2}\d{7}\b`),
	},

	// Explicitly labeled dates of birth, common US formats.
	{
		name:       "DATE_OF_BIRTH",
		confidence: model.ConfidenceHigh,
		re: regexp.MustCompile(`(?i)\b(?:DOB|D\.O\.B\.|date of birth|born)[:\s]*` +
			`(?:\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}|\w+ \d{1,2},?\s*\d{4})\b`),
	},

	// Generic numeric dates: very common in policy documents too.
	{
		name:       "DATE_PATTERN",
		confidence: model.ConfidenceMedium,
		re:         regexp.MustCompile(`\b(?:0?[1-9]|1[0-2])[/\-](?:0?[1-9]|[12]\d|3[01])[/\-](?:19|20)\d{2}\b`),
	},

	// US phone numbers.
	{
		name:       "PHONE_NUMBER",
		confidence: model.ConfidenceMedium,
		re:         regexp.MustCompile(`\b(?:\+?1[\s\-.]?)?\(?\d{3}\)?[\s\-.]?\d{3}[\s\-.]?\d{4}\b`),
	},

	// Email addresses.
	{
		name:       "EMAIL_ADDRESS",
		confidence: model.ConfidenceMedium,
		re:         regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`),
	},

	// Street addresses: number + street name + street type.
	{
		name:       "STREET_ADDRESS",
		confidence: model.ConfidenceMedium,
		re: regexp.MustCompile(`(?i)\b\d{1,5}\s+[A-Za-z][\w\s]{1,30}` +
			`(?:Street|St|Avenue|Ave|Boulevard|Blvd|Drive|Dr|Road|Rd|Lane|Ln|Court|Ct|Way|Place|Pl)\b`),
	},

	// Labeled Medicaid recipient/beneficiary IDs; state formats vary widely.
	{
		name:       "MEDICAID_ID",
		confidence: model.ConfidenceHigh,
		re:         regexp.MustCompile(`(?i)\b(?:medicaid\s*id|maid|recipient\s*id|rcn)[:\s#]*\d{7,12}\b`),
	},
}

// validSSN rejects SSN-shaped tokens that can never be issued.
func validSSN(match string) bool {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, match)
	if len(digits) != 9 {
		return false
	}
	area, group, serial := digits[0:3], digits[3:5], digits[5:9]
	if area == "000" || area == "666" || area[0] == '9' {
		return false
	}
	if group == "00" || serial == "0000" {
		return false
	}
	return true
}

// PatternNames returns the registry's detector names in order.
func PatternNames() []string {
	names := make([]string, len(registry))
	for i, d := range registry {
		names[i] = d.name
	}
	return names
}
