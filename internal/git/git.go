// Package git reads file revisions from a git repository so one side of a
// merge can be a committed version of a file.
package git

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// Repo represents a git repository at a specific directory.
type Repo struct {
	Dir string
}

// NewRepo creates a Repo pointing at the given directory.
func NewRepo(dir string) *Repo {
	return &Repo{Dir: dir}
}

// git runs a git command in the repo directory and returns trimmed stdout.
func (r *Repo) git(args ...string) (string, error) {
	out, err := r.raw(args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// raw runs a git command and returns stdout untouched.
func (r *Repo) raw(args ...string) ([]byte, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git %s: %w\n%s", strings.Join(args, " "), err, stderr.Bytes())
	}
	return stdout.Bytes(), nil
}

// validateRef rejects refs git would parse as options.
func validateRef(ref string) error {
	if ref == "" {
		return fmt.Errorf("empty revision")
	}
	if strings.HasPrefix(ref, "-") {
		return fmt.Errorf("invalid revision %q: must not start with '-'", ref)
	}
	return nil
}

// ResolveRev returns the commit hash rev refers to.
func (r *Repo) ResolveRev(rev string) (string, error) {
	if err := validateRef(rev); err != nil {
		return "", err
	}
	return r.git("rev-parse", "--verify", "--quiet", rev+"^{commit}")
}

// Show returns the content of path (relative to the repo directory) as of rev.
func (r *Repo) Show(rev, path string) ([]byte, error) {
	if err := validateRef(rev); err != nil {
		return nil, err
	}
	return r.raw("show", rev+":./"+strings.TrimPrefix(path, "./"))
}
