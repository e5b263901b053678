// Package revision resolves the code-revision token that binds ingested data
// state to code state.
package revision

import (
	"os/exec"
	"strings"
)

// NoCommit is recorded when the repository has no commits or the
// revision-control tool is unavailable.
const NoCommit = "NO_GIT_COMMIT"

// Querier resolves the current code-revision token.
type Querier interface {
	Current() string
}

// GitQuerier asks git for the current HEAD commit hash.
type GitQuerier struct {
	// Dir is the working directory for the query; empty means the
	// process working directory.
	Dir string
}

// Current returns the full HEAD commit hash, or NoCommit when git is not
// installed, the directory is not a repository, or there are no commits yet.
func (g GitQuerier) Current() string {
	cmd := exec.Command("git", "rev-parse", "HEAD")
	if g.Dir != "" {
		cmd.Dir = g.Dir
	}
	out, err := cmd.Output()
	if err != nil {
		return NoCommit
	}
	commit := strings.TrimSpace(string(out))
	if commit == "" {
		return NoCommit
	}
	return commit
}

// Static returns a querier with a fixed token (used by tests).
type Static string

func (s Static) Current() string { return string(s) }
