// Package fsutil provides filesystem utilities for atomic writes, durable
// renames, and advisory file locking.
package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// AtomicWrite writes data to a temporary file, fsyncs, then renames to the
// target path so readers never observe a partial write.
func AtomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".custodia-tmp-*")
	if err != nil {
		return fmt.Errorf("atomic write create tmp: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("atomic write: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return fmt.Errorf("atomic write chmod: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("atomic write fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("atomic write close: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("atomic write rename: %w", err)
	}
	if err := FsyncDir(dir); err != nil {
		return fmt.Errorf("atomic write fsync dir: %w", err)
	}

	success = true
	return nil
}

// FsyncDir fsyncs a directory to ensure rename visibility is durable.
func FsyncDir(dirPath string) error {
	d, err := os.Open(dirPath)
	if err != nil {
		return fmt.Errorf("fsync dir open: %w", err)
	}
	defer d.Close()
	return d.Sync()
}

// MoveFile relocates src to dst, falling back to copy-and-remove when the
// rename crosses filesystems (quarantine areas may live on another volume).
func MoveFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("move mkdir: %w", err)
	}
	if err := os.Rename(src, dst); err == nil {
		return FsyncDir(filepath.Dir(dst))
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("move open src: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("move stat src: %w", err)
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("move read src: %w", err)
	}
	if err := AtomicWrite(dst, data, info.Mode().Perm()); err != nil {
		return fmt.Errorf("move copy: %w", err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("move remove src: %w", err)
	}
	return nil
}
