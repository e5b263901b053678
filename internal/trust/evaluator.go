// Package trust classifies the manifest's detached-signature state and
// applies the mode-dependent gate.
package trust

import (
	"os"

	"github.com/custodia-project/custodia/pkg/errclass"
	"github.com/custodia-project/custodia/pkg/model"
)

// Signer is the detached-signature tool capability. The core only consumes
// the resulting trust state; key management and invocation details live
// behind this interface so the decision logic is testable without the real
// tool installed.
type Signer interface {
	// IsAvailable reports whether the signing tool is installed.
	IsAvailable() bool
	// Verify checks the detached signature at sigPath against the manifest.
	// A non-nil error means the signature is present but does not verify.
	Verify(manifestPath, sigPath string) error
	// Sign writes a detached signature for the manifest. keyID may be empty
	// to use the tool's default key.
	Sign(manifestPath, keyID string) error
}

// SigPath returns the sibling signature artifact path for a manifest.
func SigPath(manifestPath string) string {
	return manifestPath + ".sig"
}

// Evaluator computes the signature trust state fresh per run.
type Evaluator struct {
	signer Signer
}

// NewEvaluator creates an evaluator over the given signer capability.
func NewEvaluator(signer Signer) *Evaluator {
	return &Evaluator{signer: signer}
}

// Evaluate classifies the manifest's current signature state and returns a
// human-readable note describing how the state was reached.
//
// Tool unavailability is distinguished from a negative result: a missing
// tool degrades to UNSIGNED (least trusted) rather than failing, while a
// present-but-failing signature is INVALID.
func (e *Evaluator) Evaluate(manifestPath string) (model.SignatureState, string) {
	sigPath := SigPath(manifestPath)
	if _, err := os.Stat(sigPath); os.IsNotExist(err) {
		return model.SignatureUnsigned, "no signature artifact found"
	}

	if !e.signer.IsAvailable() {
		return model.SignatureUnsigned, "signing tool not installed; cannot verify signature"
	}

	if err := e.signer.Verify(manifestPath, sigPath); err != nil {
		return model.SignatureInvalid, err.Error()
	}
	return model.SignatureSigned, "signature verified"
}

// Gate applies the mode policy to a signature state. INVALID is fatal in
// every mode: it implies tampering of signed material, a stronger signal
// than mere absence of a signature. UNSIGNED is fatal only in compliance
// mode; research mode proceeds with a warning and tags the output UNSIGNED.
func Gate(state model.SignatureState, mode model.Mode) error {
	switch state {
	case model.SignatureInvalid:
		return errclass.ErrTrustFailure.
			WithMessage("manifest signature is invalid; the manifest may have been tampered with after signing")
	case model.SignatureUnsigned:
		if mode == model.ModeCompliance {
			return errclass.ErrTrustFailure.
				WithMessage("unsigned manifest in compliance mode; full provenance attribution requires a signature")
		}
	}
	return nil
}
