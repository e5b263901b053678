package model

// CitationKind distinguishes the two citation surface forms.
type CitationKind string

const (
	CitationHash     CitationKind = "sha256"
	CitationFilename CitationKind = "filename"
)

// CitationStatus is the verification result for one citation.
type CitationStatus string

const (
	CitationVerified   CitationStatus = "VERIFIED"
	CitationUnverified CitationStatus = "UNVERIFIED"
)

// Citation is a hash or filename reference extracted from free text and
// checked against the manifest by exact lookup.
type Citation struct {
	Kind   CitationKind   `json:"type"`
	Value  string         `json:"value"`
	Status CitationStatus `json:"status"`
	Detail string         `json:"detail,omitempty"`
}

// ClaimSignal names the lexical proxy that marked a sentence as a claim.
type ClaimSignal string

const (
	// SignalProperNoun: a capitalized mid-sentence word outside the
	// function-word stoplist.
	SignalProperNoun ClaimSignal = "NNP"
	// SignalNumber: a digit sequence, percentage, or spelled-out cardinal.
	SignalNumber ClaimSignal = "CD"
	// SignalComparative: a comparative or superlative form.
	SignalComparative ClaimSignal = "JJR"
)

// ClaimSentence is a sentence that exhibits at least one claim signal and is
// therefore treated as requiring a citation.
type ClaimSentence struct {
	Text     string                   `json:"sentence"`
	Signals  []ClaimSignal            `json:"signals"`
	Examples map[ClaimSignal][]string `json:"signal_examples,omitempty"`
	Cited    bool                     `json:"cited"`
}
