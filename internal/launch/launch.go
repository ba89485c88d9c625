// Package launch runs external commands synchronously on the operator's
// terminal.
package launch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
)

// ErrStart is returned when a command cannot be started at all.
var ErrStart = errors.New("cannot start command")

// Runner runs commands with the given standard streams. Nil streams default
// to the process's own.
type Runner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run starts name with args and waits for it. err is non-nil only when the
// command could not be started; the exit status is reported in code.
func (r *Runner) Run(ctx context.Context, name string, args ...string) (code int, err error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Start(); err != nil {
		return -1, fmt.Errorf("%w %s: %w", ErrStart, name, err)
	}
	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, fmt.Errorf("wait %s: %w", name, err)
	}
	return 0, nil
}

// DefaultShell returns the platform's command interpreter.
func DefaultShell() string {
	if runtime.GOOS == "windows" {
		return "cmd"
	}
	return "/bin/sh"
}

// ShellArgs returns the arguments that make shell run line as a command.
func ShellArgs(shell, line string) []string {
	if runtime.GOOS == "windows" && shell == "cmd" {
		return []string{"/c", line}
	}
	return []string{"-c", line}
}
