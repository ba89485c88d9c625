package merge

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/lundberg/idiff/internal/cursor"
)

// Separator divides file A's text from file B's in the editor's scratch file.
const Separator = "---\n"

// edit resolves the current hunk with whatever the operator leaves in a
// scratch file seeded with both sides.
func (e *Engine) edit(ctx context.Context) error {
	h, p := e.hunk.Adjusted(), e.progress

	// The gap before the hunk is the same in both files: take it from A and
	// skip it in B.
	if err := e.cfg.A.Copy(h.From1-1-p.To1, e.cfg.Out); err != nil {
		return err
	}
	if err := e.cfg.B.Skip(h.From2 - 1 - p.To2); err != nil {
		return err
	}

	f, err := e.cfg.Scratch.Create("idiff.*")
	if err != nil {
		return err
	}
	defer f.Remove()

	if err := e.cfg.A.Copy(h.To1+1-h.From1, f); err != nil {
		return err
	}
	if _, err := io.WriteString(f, Separator); err != nil {
		return fmt.Errorf("writing %s: %w", f.Name(), err)
	}
	if err := e.cfg.B.Copy(h.To2+1-h.From2, f); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", f.Name(), err)
	}

	name, args := splitCommand(e.cfg.Editor)
	code, err := e.cfg.Exec.Run(ctx, name, append(args, f.Name())...)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrEditorLaunch, e.cfg.Editor, err)
	}
	e.log.Debug("editor", "command", e.cfg.Editor, "file", f.Name(), "exit", code)
	if code != 0 {
		e.log.Warn("editor exited with non-zero status", "command", e.cfg.Editor, "exit", code)
	}

	if err := f.Reopen(); err != nil {
		return err
	}
	return cursor.New(f.Name(), f.File).CopyAll(e.cfg.Out)
}

// splitCommand splits an editor setting such as "code --wait" into a program
// and its leading arguments.
func splitCommand(s string) (string, []string) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields[1:]
}
