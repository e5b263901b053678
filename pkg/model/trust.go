package model

import "fmt"

// SignatureState classifies the manifest's detached signature. It is an
// identity-attribution layer, orthogonal to content integrity: the lockfile
// hash guarantees content integrity with or without a signature.
type SignatureState string

const (
	// SignatureSigned means the signature artifact exists and verifies.
	SignatureSigned SignatureState = "SIGNED"
	// SignatureUnsigned means no signature artifact was found, or the
	// signing tool is not installed (degrade to least trusted, never fail).
	SignatureUnsigned SignatureState = "UNSIGNED"
	// SignatureInvalid means the artifact exists but fails verification,
	// which implies possible tampering after signing.
	SignatureInvalid SignatureState = "INVALID"
)

// Mode selects the rigor policy for a run: the signature-trust gate and the
// citation-density threshold. A mode must be applied consistently across a
// single run.
type Mode string

const (
	ModeResearch   Mode = "RESEARCH"
	ModeCompliance Mode = "COMPLIANCE"
)

// ParseMode converts a CLI mode string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "research", "RESEARCH", "":
		return ModeResearch, nil
	case "compliance", "COMPLIANCE":
		return ModeCompliance, nil
	}
	return "", fmt.Errorf("unknown mode %q (want research or compliance)", s)
}

// DefaultThreshold returns the citation-density threshold for the mode.
func (m Mode) DefaultThreshold() float64 {
	if m == ModeCompliance {
		return 1.00
	}
	return 0.70
}

// Label returns the audit-log mode label, with the draft sub-label applied.
func (m Mode) Label(draft bool) string {
	if draft {
		return string(m) + "-DRAFT"
	}
	return string(m)
}
