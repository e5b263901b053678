package trust

import (
	"fmt"
	"os/exec"
	"strings"
)

// GPGSigner shells out to the gpg binary for detached-signature operations.
type GPGSigner struct{}

// IsAvailable reports whether gpg is on PATH.
func (GPGSigner) IsAvailable() bool {
	_, err := exec.LookPath("gpg")
	return err == nil
}

// Verify runs gpg --verify on the detached signature.
func (GPGSigner) Verify(manifestPath, sigPath string) error {
	cmd := exec.Command("gpg", "--verify", sigPath, manifestPath)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("gpg verification failed: %s", firstLine(out))
	}
	return nil
}

// Sign creates a detached ASCII-armored signature for the manifest.
func (GPGSigner) Sign(manifestPath, keyID string) error {
	args := []string{"--yes", "--detach-sign", "--armor", "--output", SigPath(manifestPath)}
	if keyID != "" {
		args = append(args, "--local-user", keyID)
	}
	args = append(args, manifestPath)

	cmd := exec.Command("gpg", args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("gpg signing failed: %s", firstLine(out))
	}
	return nil
}

func firstLine(out []byte) string {
	s := strings.TrimSpace(string(out))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return "no output"
	}
	return s
}
