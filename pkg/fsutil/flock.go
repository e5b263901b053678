package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// WithFlock runs fn while holding an exclusive advisory lock on the sidecar
// file at path, creating it if needed. This is the process-level mutual
// exclusion scope around read-check-modify-write transactions: two concurrent
// holders cannot interleave.
func WithFlock(path string, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("flock mkdir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("flock open: %w", err)
	}
	defer f.Close()

	if err := lockFile(f); err != nil {
		return fmt.Errorf("flock acquire: %w", err)
	}
	defer unlockFile(f)

	return fn()
}
