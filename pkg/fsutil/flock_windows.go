//go:build windows

package fsutil

import "os"

// Advisory locking is a no-op on Windows; the in-process mutex held by
// callers provides sufficient protection for a single-user CLI tool.
func lockFile(_ *os.File) error   { return nil }
func unlockFile(_ *os.File) error { return nil }
