package model

// Confidence is the risk tier of a detected sensitive-identifier pattern.
type Confidence string

const (
	// ConfidenceHigh patterns are highly specific and rarely appear in
	// policy prose. A single match quarantines the document.
	ConfidenceHigh Confidence = "HIGH"
	// ConfidenceMedium patterns have many legitimate non-PII occurrences;
	// quarantine requires the count to reach a threshold.
	ConfidenceMedium Confidence = "MEDIUM"
)

// PiiMatch is one detector hit in the scanned text.
type PiiMatch struct {
	PatternName string     `json:"pattern_name"`
	Confidence  Confidence `json:"confidence"`
	MatchedText string     `json:"matched_text"`
	Start       int        `json:"start"`
	End         int        `json:"end"`
}

// RiskAssessment is the quarantine decision derived from a set of matches.
type RiskAssessment struct {
	Quarantine bool   `json:"quarantine"`
	Reason     string `json:"reason"`
}
