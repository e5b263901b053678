package model

import "time"

// SchemaVersion of the parsed-output document format.
const SchemaVersion = "1.0"

// UnknownStructure is the location sentinel used when the converter finds no
// structural label. Downstream consumers must never mistake a guessed label
// for a verified one, so an element either carries a real structural path or
// this literal.
const UnknownStructure = "UNKNOWN_STRUCTURE"

// Provenance binds a parsed output to its manifest record and trust state.
type Provenance struct {
	Filename          string         `json:"filename" validate:"required"`
	SHA256            HashValue      `json:"sha256" validate:"required,len=64,hexadecimal,lowercase"`
	IngestedAt        time.Time      `json:"ingested_at" validate:"required"`
	GitCommit         string         `json:"git_commit" validate:"required"`
	SourcePath        string         `json:"source_path" validate:"required"`
	ParsedAt          time.Time      `json:"parsed_at" validate:"required"`
	Verified          bool           `json:"verified"`
	ManifestSignature SignatureState `json:"manifest_signature" validate:"required,oneof=SIGNED UNSIGNED INVALID"`
}

// Element is one structured item extracted from a document. Location is a
// structural path string or the UnknownStructure sentinel; an empty location
// is a schema violation.
type Element struct {
	Type     string `json:"type" validate:"required"`
	Location string `json:"location" validate:"required"`
	Content  string `json:"content"`
}

// ParsedDocument is the schema-validated parse output.
type ParsedDocument struct {
	SchemaVersion string     `json:"schema_version" validate:"required"`
	Provenance    Provenance `json:"provenance" validate:"required"`
	Elements      []Element  `json:"elements" validate:"required,min=1,dive"`
}
