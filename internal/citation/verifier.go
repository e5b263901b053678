package citation

import (
	"github.com/custodia-project/custodia/pkg/model"
)

const (
	hashUnverifiedDetail     = "SHA256 not found in manifest. Never ingested or fabricated."
	filenameUnverifiedDetail = "Filename not found in manifest. Never ingested or fabricated."
)

// Verifier classifies extracted citations against the manifest's known
// hash and filename sets. Verification is a pure exact lookup; there is no
// fuzzy matching, and an absent value is always reported as UNVERIFIED,
// never silently omitted.
type Verifier struct {
	hashes    map[model.HashValue]struct{}
	filenames map[string]struct{}
}

// NewVerifier builds a verifier over the given ledger.
func NewVerifier(m model.Manifest) *Verifier {
	return &Verifier{
		hashes:    m.HashSet(),
		filenames: m.FilenameSet(),
	}
}

// KnownHash reports whether h is a manifest-recorded content hash.
func (v *Verifier) KnownHash(h string) bool {
	_, ok := v.hashes[model.HashValue(h)]
	return ok
}

// Filenames returns the sorted manifest filenames (used for fix-it hints).
func (v *Verifier) Filenames() []string {
	return sortedKeys(v.filenames)
}

// Verify extracts and classifies every citation in text. Hashes and
// filenames are deduplicated separately and returned in deterministic order.
func (v *Verifier) Verify(text string) (verified, unverified []model.Citation) {
	for _, h := range ExtractHashes(text) {
		if v.KnownHash(h) {
			verified = append(verified, model.Citation{
				Kind: model.CitationHash, Value: h, Status: model.CitationVerified,
			})
		} else {
			unverified = append(unverified, model.Citation{
				Kind: model.CitationHash, Value: h, Status: model.CitationUnverified,
				Detail: hashUnverifiedDetail,
			})
		}
	}

	for _, name := range ExtractFilenames(text) {
		if _, ok := v.filenames[name]; ok {
			verified = append(verified, model.Citation{
				Kind: model.CitationFilename, Value: name, Status: model.CitationVerified,
			})
		} else {
			unverified = append(unverified, model.Citation{
				Kind: model.CitationFilename, Value: name, Status: model.CitationUnverified,
				Detail: filenameUnverifiedDetail,
			})
		}
	}

	return verified, unverified
}
