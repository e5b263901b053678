package model

import (
	"fmt"
	"time"
)

// ScoreNA is the not-applicable sentinel for runs with no claim sentences.
const ScoreNA = "N/A"

// AuditRow is one row in the append-only validation log. Rows are permanent
// once appended.
type AuditRow struct {
	Timestamp time.Time
	Revision  string
	Mode      string
	// Score is the citation density, or nil when undefined.
	Score  *float64
	Passed bool
}

// ScoreString formats the citation score to fixed precision, or N/A.
func (r AuditRow) ScoreString() string {
	if r.Score == nil {
		return ScoreNA
	}
	return fmt.Sprintf("%.4f", *r.Score)
}

// StatusString returns the PASS/FAIL column value.
func (r AuditRow) StatusString() string {
	if r.Passed {
		return "PASS"
	}
	return "FAIL"
}
