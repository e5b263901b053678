// Package manifest implements the append-only ledger of ingested documents
// and its whole-ledger integrity lockfile.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/custodia-project/custodia/pkg/errclass"
	"github.com/custodia-project/custodia/pkg/fsutil"
	"github.com/custodia-project/custodia/pkg/model"
)

const lockfileNote = "This file is generated automatically by custodia ingest. " +
	"Do not edit it by hand. Any manual change to the manifest " +
	"will be detected as a chain of custody breach."

// Store manages the manifest and its lockfile. The append transaction is
// protected by an in-process mutex plus a sidecar flock, so concurrent
// ingestions against the same manifest cannot interleave.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store for the manifest at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the manifest path.
func (s *Store) Path() string {
	return s.path
}

// LockfilePath returns the lockfile path: the manifest path with its
// extension replaced by .lock.
func (s *Store) LockfilePath() string {
	ext := filepath.Ext(s.path)
	return strings.TrimSuffix(s.path, ext) + ".lock"
}

func (s *Store) flockPath() string {
	return s.path + ".flock"
}

// Exists reports whether the manifest file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the manifest. A missing or unreadable manifest is an
// input-missing condition (the caller's required input does not exist).
func (s *Store) Load() (model.Manifest, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errclass.ErrInputMissing.WithMessagef("manifest not found: %s (run ingest first)", s.path)
		}
		return nil, errclass.ErrInputMissing.WithMessagef("read manifest: %v", err)
	}
	var m model.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errclass.ErrInputMissing.WithMessagef("parse manifest: %v", err)
	}
	return m, nil
}

// VerifyConsistency recomputes the manifest's content hash and compares it to
// the lockfile's recorded hash. No lockfile means a first run and passes; an
// unreadable or corrupt lockfile, or a hash mismatch, is an integrity breach.
// This check must run before any mutation of the manifest.
func (s *Store) VerifyConsistency() error {
	if !s.Exists() {
		return nil // nothing ingested yet
	}

	lockData, err := os.ReadFile(s.LockfilePath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil // first run, no lockfile yet
		}
		return errclass.ErrIntegrityBreach.
			WithMessage("lockfile is unreadable").
			WithDetails(map[string]string{"lockfile": s.LockfilePath(), "error": err.Error()})
	}

	var lock model.Lockfile
	if err := json.Unmarshal(lockData, &lock); err != nil {
		return errclass.ErrIntegrityBreach.
			WithMessage("lockfile is corrupt").
			WithDetails(map[string]string{"lockfile": s.LockfilePath(), "error": err.Error()})
	}

	actual, err := FileSHA256(s.path)
	if err != nil {
		return errclass.ErrIntegrityBreach.WithMessagef("hash manifest: %v", err)
	}
	if lock.ManifestSHA256 != actual {
		return errclass.ErrIntegrityBreach.
			WithMessage("manifest was modified outside of ingest").
			WithDetails(map[string]string{
				"expected": string(lock.ManifestSHA256),
				"actual":   string(actual),
			})
	}
	return nil
}

// AppendResult reports the outcome of an append transaction.
type AppendResult struct {
	Entry          model.ManifestEntry
	ManifestSHA256 model.HashValue
	// Duplicate names a prior entry with the same content hash, if any.
	// Duplicate ingestion is a warning, not a rejection: a second entry may
	// exist for the same bytes under a different name or time.
	Duplicate *model.ManifestEntry
}

// Append runs the full ledger transaction: verify consistency, append the
// entry, persist the manifest, then rewrite the lockfile to match. The whole
// sequence holds the sidecar flock so the two writes appear atomic to later
// readers.
func (s *Store) Append(entry model.ManifestEntry) (*AppendResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := &AppendResult{Entry: entry}
	err := fsutil.WithFlock(s.flockPath(), func() error {
		if err := s.VerifyConsistency(); err != nil {
			return err
		}

		var m model.Manifest
		if s.Exists() {
			loaded, err := s.Load()
			if err != nil {
				return err
			}
			m = loaded
		}

		res.Duplicate = m.FindByHash(entry.SHA256)

		m = append(m, entry)
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal manifest: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
			return fmt.Errorf("create manifest dir: %w", err)
		}
		if err := fsutil.AtomicWrite(s.path, data, 0644); err != nil {
			return fmt.Errorf("write manifest: %w", err)
		}

		sum, err := s.writeLockfile()
		if err != nil {
			return err
		}
		res.ManifestSHA256 = sum
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// writeLockfile records the hash of the manifest as written on disk.
func (s *Store) writeLockfile() (model.HashValue, error) {
	sum, err := FileSHA256(s.path)
	if err != nil {
		return "", fmt.Errorf("hash manifest: %w", err)
	}
	lock := model.Lockfile{
		GeneratedBy:    "custodia ingest",
		GeneratedAt:    time.Now().UTC(),
		ManifestPath:   s.path,
		ManifestSHA256: sum,
		Note:           lockfileNote,
	}
	data, err := json.MarshalIndent(lock, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal lockfile: %w", err)
	}
	if err := fsutil.AtomicWrite(s.LockfilePath(), data, 0644); err != nil {
		return "", fmt.Errorf("write lockfile: %w", err)
	}
	return sum, nil
}

// VerifyEntry recomputes the hash of the file at path and compares it to the
// entry's recorded hash. A mismatch means the file was modified, corrupted,
// or substituted since ingestion.
func (s *Store) VerifyEntry(path string, entry model.ManifestEntry) (model.HashValue, error) {
	actual, err := FileSHA256(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errclass.ErrInputMissing.WithMessagef("file not found: %s", path)
		}
		return "", errclass.ErrInputMissing.WithMessagef("read file: %v", err)
	}
	if actual != entry.SHA256 {
		return actual, errclass.ErrProvenanceBreach.
			WithMessagef("content hash of %s disagrees with its manifest record", filepath.Base(path)).
			WithDetails(map[string]string{
				"file":     path,
				"on_disk":  string(actual),
				"manifest": string(entry.SHA256),
			})
	}
	return actual, nil
}

// EntryResult is the verification outcome for one ledger entry.
type EntryResult struct {
	Entry   model.ManifestEntry `json:"entry"`
	Valid   bool                `json:"valid"`
	Missing bool                `json:"missing"`
	Error   string              `json:"error,omitempty"`
}

// VerifyAll checks the lockfile and then every entry's source file against
// its recorded hash. A missing source file is reported, not fatal: the file
// may have been quarantined or archived since ingestion.
func (s *Store) VerifyAll() ([]EntryResult, error) {
	if err := s.VerifyConsistency(); err != nil {
		return nil, err
	}
	m, err := s.Load()
	if err != nil {
		return nil, err
	}

	results := make([]EntryResult, 0, len(m))
	for _, entry := range m {
		res := EntryResult{Entry: entry}
		if _, err := os.Stat(entry.SourcePath); os.IsNotExist(err) {
			res.Missing = true
			res.Error = "source file not found"
			results = append(results, res)
			continue
		}
		if _, err := s.VerifyEntry(entry.SourcePath, entry); err != nil {
			res.Error = err.Error()
		} else {
			res.Valid = true
		}
		results = append(results, res)
	}
	return results, nil
}

// FileSHA256 streams the file at path through SHA-256.
func FileSHA256(path string) (model.HashValue, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return model.HashValue(hex.EncodeToString(h.Sum(nil))), nil
}
