// Package difftool produces the hunk stream the merge engine consumes: a
// diff between two files in normal (non-context) notation.
package difftool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"slices"
	"strings"
)

// Producer writes the normal-format diff of file1 against file2 to w.
type Producer interface {
	Produce(ctx context.Context, file1, file2 string, w io.Writer) error
}

// Program runs an external diff program as "<Name> [Args...] file1 file2".
type Program struct {
	Name string
	Args []string
}

// Produce implements Producer. Exit status 1 means the files differ and is
// not an error.
func (p Program) Produce(ctx context.Context, file1, file2 string, w io.Writer) error {
	args := append(slices.Clone(p.Args), file1, file2)
	cmd := exec.CommandContext(ctx, p.Name, args...)
	var stderr bytes.Buffer
	cmd.Stdout = w
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s %s: %w\n%s", p.Name, strings.Join(args, " "), err, stderr.Bytes())
	}
	return nil
}

// Available reports whether the program can be found on PATH.
func (p Program) Available() bool {
	_, err := exec.LookPath(p.Name)
	return err == nil
}
