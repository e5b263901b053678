package model

import "time"

// HashValue is a SHA-256 content hash stored as 64 lowercase hex characters.
type HashValue string

// String returns the hash as a plain string.
func (h HashValue) String() string {
	return string(h)
}

// Short returns the first 12 characters for display.
func (h HashValue) Short() string {
	s := string(h)
	if len(s) >= 12 {
		return s[:12]
	}
	return s
}

// ManifestEntry is a single ingested-document record. Entries are immutable
// once appended and are never deleted.
type ManifestEntry struct {
	Filename   string    `json:"filename"`
	SHA256     HashValue `json:"sha256"`
	IngestedAt time.Time `json:"ingested_at"`
	SourcePath string    `json:"source_path"`
	GitCommit  string    `json:"git_commit"`
}

// Manifest is the append-only ledger of ingested documents.
type Manifest []ManifestEntry

// HashSet returns the set of content hashes known to the ledger.
func (m Manifest) HashSet() map[HashValue]struct{} {
	set := make(map[HashValue]struct{}, len(m))
	for _, e := range m {
		set[e.SHA256] = struct{}{}
	}
	return set
}

// FilenameSet returns the set of filenames known to the ledger.
func (m Manifest) FilenameSet() map[string]struct{} {
	set := make(map[string]struct{}, len(m))
	for _, e := range m {
		set[e.Filename] = struct{}{}
	}
	return set
}

// FindEntry returns the first entry matching the filename or source path,
// or nil if the document was never ingested.
func (m Manifest) FindEntry(filename, sourcePath string) *ManifestEntry {
	for i := range m {
		if m[i].Filename == filename || m[i].SourcePath == sourcePath {
			return &m[i]
		}
	}
	return nil
}

// FindByHash returns the first entry with the given content hash, or nil.
func (m Manifest) FindByHash(h HashValue) *ManifestEntry {
	for i := range m {
		if m[i].SHA256 == h {
			return &m[i]
		}
	}
	return nil
}

// Lockfile records the whole-ledger integrity hash. It always describes the
// manifest as last written; any divergence is an integrity breach.
type Lockfile struct {
	GeneratedBy    string    `json:"generated_by"`
	GeneratedAt    time.Time `json:"generated_at"`
	ManifestPath   string    `json:"manifest_path"`
	ManifestSHA256 HashValue `json:"manifest_sha256"`
	Note           string    `json:"note"`
}
