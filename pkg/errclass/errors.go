// Package errclass defines the stable, machine-readable error classes of the
// chain-of-custody core. Every fatal condition carries its specific triggering
// values; nothing is swallowed silently.
package errclass

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// CustodyError is a stable error class with an optional message and
// structured trigger details (expected vs actual hash, pattern names, and so
// on).
type CustodyError struct {
	Code    string
	Message string
	Details map[string]string
}

func (e *CustodyError) Error() string {
	var b strings.Builder
	b.WriteString(e.Code)
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " [%s=%s]", k, e.Details[k])
		}
	}
	return b.String()
}

// Is matches errors by class code, so wrapped instances compare equal to
// their sentinel.
func (e *CustodyError) Is(target error) bool {
	t, ok := target.(*CustodyError)
	return ok && e.Code == t.Code
}

// WithMessage returns a new error of the same class with a specific message.
func (e *CustodyError) WithMessage(msg string) *CustodyError {
	return &CustodyError{Code: e.Code, Message: msg, Details: e.Details}
}

// WithMessagef returns a new error of the same class with a formatted message.
func (e *CustodyError) WithMessagef(format string, args ...any) *CustodyError {
	return e.WithMessage(fmt.Sprintf(format, args...))
}

// WithDetails returns a new error carrying structured trigger values.
func (e *CustodyError) WithDetails(details map[string]string) *CustodyError {
	return &CustodyError{Code: e.Code, Message: e.Message, Details: details}
}

// Stable error classes.
var (
	// ErrIntegrityBreach: lockfile/manifest hash mismatch or unreadable
	// lockfile. Fatal; aborts before any mutation.
	ErrIntegrityBreach = &CustodyError{Code: "E_INTEGRITY_BREACH"}
	// ErrProvenanceBreach: a file's recomputed hash disagrees with its
	// manifest record. Fatal; aborts before parsing.
	ErrProvenanceBreach = &CustodyError{Code: "E_PROVENANCE_BREACH"}
	// ErrTrustFailure: signature invalid (any mode) or absent in
	// compliance mode.
	ErrTrustFailure = &CustodyError{Code: "E_TRUST_FAILURE"}
	// ErrPrivacyRisk: the PII scan crossed the quarantine threshold.
	ErrPrivacyRisk = &CustodyError{Code: "E_PRIVACY_RISK"}
	// ErrSchemaViolation: assembled output missing a required field or
	// containing an empty location.
	ErrSchemaViolation = &CustodyError{Code: "E_SCHEMA_VIOLATION"}
	// ErrValidationFailure: citation verification or density threshold not
	// met (downgraded to informational in draft mode).
	ErrValidationFailure = &CustodyError{Code: "E_VALIDATION_FAILURE"}
	// ErrNotIngested: the target file has no manifest record.
	ErrNotIngested = &CustodyError{Code: "E_NOT_INGESTED"}
	// ErrInputMissing: a required input (manifest, target file, response)
	// is missing or unreadable.
	ErrInputMissing = &CustodyError{Code: "E_INPUT_MISSING"}
	// ErrLockConflict: the manifest transaction lock could not be taken.
	ErrLockConflict = &CustodyError{Code: "E_LOCK_CONFLICT"}
)

// Exit codes of the logical process contract.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitMissing = 2
)

// ExitCode maps an error to the process exit code contract: 0 success,
// 1 gate or validation failure, 2 required input missing or unreadable.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, ErrInputMissing) {
		return ExitMissing
	}
	return ExitFailure
}
