// Package merge walks an operator through the hunks of a normal diff and
// builds the merged file from their choices.
//
// The engine holds one forward-only cursor per input file and one over the
// hunk stream. Text between hunks is identical in both files and is never
// represented explicitly: each resolution copies "the gap plus the hunk" from
// the chosen file and skips the same span of the other, using the distance
// from the previous hunk's upper bounds (Progress).
package merge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/lundberg/idiff/internal/cursor"
	"github.com/lundberg/idiff/internal/hunk"
	"github.com/lundberg/idiff/internal/launch"
	"github.com/lundberg/idiff/internal/scratch"
)

// State is a state of the engine's per-hunk loop.
type State int

const (
	AwaitingHunk State = iota
	PresentingHunk
	AwaitingCommand
	Resolving
	Draining
	Done
)

func (s State) String() string {
	switch s {
	case AwaitingHunk:
		return "awaiting-hunk"
	case PresentingHunk:
		return "presenting-hunk"
	case AwaitingCommand:
		return "awaiting-command"
	case Resolving:
		return "resolving"
	case Draining:
		return "draining"
	case Done:
		return "done"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Executor runs an external command synchronously. err must be non-nil only
// when the command could not be started; the exit status goes in code.
type Executor interface {
	Run(ctx context.Context, name string, args ...string) (code int, err error)
}

// Progress holds the upper bounds of the last resolved hunk in each file.
type Progress struct {
	To1, To2 int
}

// Stats counts what happened during a session.
type Stats struct {
	Hunks      int // hunks read from the stream
	TookFirst  int
	TookSecond int
	Edited     int
	ShellRuns  int
	Rejected   int  // unusable operator commands
	Quit       bool // session ended with q< or q>
}

// Config wires an engine to its inputs, outputs and collaborators.
type Config struct {
	A, B  *cursor.Cursor // the two files being merged
	Hunks *cursor.Cursor // normal-format diff of A against B
	Out   io.Writer      // merged result

	Operator io.Reader // command input
	Display  io.Writer // hunk text and prompts
	Errors   io.Writer // operator error messages

	Exec    Executor
	Scratch *scratch.Set
	Logger  *slog.Logger

	Name   string // program name prefixed to operator error messages
	Prompt string
	Editor string // command line; the scratch path is appended
	Shell  string
	Color  bool
}

// Engine is the hunk-by-hunk merge state machine. It is single-use.
type Engine struct {
	cfg      Config
	operator *cursor.Cursor
	log      *slog.Logger

	state    State
	progress Progress
	hunk     hunk.Header // current hunk, as parsed
	stats    Stats
}

// New returns an engine in the AwaitingHunk state. Empty Prompt, Editor,
// Shell and Name fields get defaults.
func New(cfg Config) *Engine {
	if cfg.Prompt == "" {
		cfg.Prompt = "? "
	}
	if cfg.Editor == "" {
		cfg.Editor = "ed"
	}
	if cfg.Shell == "" {
		cfg.Shell = launch.DefaultShell()
	}
	if cfg.Name == "" {
		cfg.Name = "idiff"
	}
	if cfg.Errors == nil {
		cfg.Errors = io.Discard
	}
	if cfg.Scratch == nil {
		cfg.Scratch = scratch.New("")
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		cfg:      cfg,
		operator: cursor.New("operator input", byteReader{cfg.Operator}),
		log:      log,
		state:    AwaitingHunk,
	}
}

// State returns the current state.
func (e *Engine) State() State { return e.state }

// Progress returns the merge progress marks.
func (e *Engine) Progress() Progress { return e.progress }

// Stats returns the session counters.
func (e *Engine) Stats() Stats { return e.stats }

// Run drives the engine until the hunk stream is exhausted or the operator
// quits, then copies the rest of file A to the output. Operator mistakes are
// reported and re-prompted; any other error aborts the session.
func (e *Engine) Run(ctx context.Context) error {
	for e.state != Done {
		if err := ctx.Err(); err != nil {
			return err
		}
		next, err := e.step(ctx)
		if err != nil {
			e.log.Debug("session aborted", "state", e.state, "error", err)
			return err
		}
		e.state = next
	}
	e.log.Debug("session done",
		"hunks", e.stats.Hunks,
		"took_first", e.stats.TookFirst,
		"took_second", e.stats.TookSecond,
		"edited", e.stats.Edited,
		"quit", e.stats.Quit,
	)
	return nil
}

func (e *Engine) step(ctx context.Context) (State, error) {
	switch e.state {
	case AwaitingHunk:
		return e.awaitHunk()
	case PresentingHunk:
		return e.present()
	case AwaitingCommand:
		return e.awaitCommand(ctx)
	case Resolving:
		return e.resolve(), nil
	case Draining:
		return e.drain()
	}
	return Done, nil
}

func (e *Engine) awaitHunk() (State, error) {
	for {
		line, err := e.cfg.Hunks.ReadLine()
		if errors.Is(err, io.EOF) {
			return Draining, nil
		}
		if err != nil {
			return 0, err
		}
		if isMarker(line) {
			e.echo(line, false)
			continue
		}

		h, err := hunk.Parse(line)
		if err != nil {
			return 0, fmt.Errorf("hunk stream line %d: %w", e.cfg.Hunks.Line(), err)
		}
		if !follows(h, e.progress) {
			return 0, fmt.Errorf("%w %q: out of order after %s",
				hunk.ErrMalformedHeader, h.String(), hunk.FormatRange(e.progress.To1, e.progress.To2))
		}
		e.hunk = h
		e.stats.Hunks++
		e.log.Debug("hunk", "header", h.String(), "op", h.Op.String(), "body_lines", h.BodyLines())
		return PresentingHunk, nil
	}
}

// present echoes the header and its body so the operator can decide.
func (e *Engine) present() (State, error) {
	e.echo(e.hunk.Raw, true)
	want := e.hunk.BodyLines()
	for n := want; n > 0; {
		line, err := e.cfg.Hunks.ReadLine()
		if errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("%w %q: hunk stream ended after %d of %d body lines",
				hunk.ErrMalformedHeader, e.hunk.String(), want-n, want)
		}
		if err != nil {
			return 0, err
		}
		e.echo(line, false)
		if !isMarker(line) {
			n--
		}
	}
	return AwaitingCommand, nil
}

func (e *Engine) awaitCommand(ctx context.Context) (State, error) {
	fmt.Fprint(e.cfg.Display, e.cfg.Prompt)
	line, err := e.operator.ReadLine()
	if errors.Is(err, io.EOF) {
		return 0, ErrInputClosed
	}
	if err != nil {
		return 0, err
	}

	cmd, err := ParseCommand(line)
	if err != nil {
		e.stats.Rejected++
		fmt.Fprintf(e.cfg.Errors, "%s: %v\n", e.cfg.Name, err)
		return AwaitingCommand, nil
	}

	h, p := e.hunk, e.progress
	switch cmd.Kind {
	case TakeSecond:
		e.stats.TookSecond++
		if err := e.cfg.A.Skip(h.To1 - p.To1); err != nil {
			return 0, err
		}
		if err := e.cfg.B.Copy(h.To2-p.To2, e.cfg.Out); err != nil {
			return 0, err
		}
	case TakeFirst:
		e.stats.TookFirst++
		if err := e.cfg.B.Skip(h.To2 - p.To2); err != nil {
			return 0, err
		}
		if err := e.cfg.A.Copy(h.To1-p.To1, e.cfg.Out); err != nil {
			return 0, err
		}
	case Edit:
		e.stats.Edited++
		if err := e.edit(ctx); err != nil {
			return 0, err
		}
	case Shell:
		e.stats.ShellRuns++
		if err := e.shell(ctx, cmd.Text); err != nil {
			return 0, err
		}
		return AwaitingCommand, nil
	case Quit:
		e.stats.Quit = true
		return e.quit(cmd.Side)
	}
	e.log.Debug("resolved", "header", h.String(), "command", strings.TrimRight(line, "\r\n"))
	return Resolving, nil
}

// quit takes the rest of one file wholesale and ends the session.
func (e *Engine) quit(side Side) (State, error) {
	keep, drop := e.cfg.A, e.cfg.B
	if side == Second {
		keep, drop = e.cfg.B, e.cfg.A
	}
	if err := drop.SkipAll(); err != nil {
		return 0, err
	}
	if err := keep.CopyAll(e.cfg.Out); err != nil {
		return 0, err
	}
	e.log.Debug("quit", "header", e.hunk.String(), "kept", keep.Name())
	return Draining, nil
}

func (e *Engine) shell(ctx context.Context, line string) error {
	code, err := e.cfg.Exec.Run(ctx, e.cfg.Shell, launch.ShellArgs(e.cfg.Shell, line)...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrShellLaunch, err)
	}
	e.log.Debug("shell", "command", line, "exit", code)
	if code != 0 {
		fmt.Fprintf(e.cfg.Errors, "%s: command exited with status %d\n", e.cfg.Name, code)
	}
	fmt.Fprintln(e.cfg.Display, "!")
	return nil
}

func (e *Engine) resolve() State {
	e.progress = Progress{To1: e.hunk.To1, To2: e.hunk.To2}
	return AwaitingHunk
}

// drain copies whatever is left of file A.
func (e *Engine) drain() (State, error) {
	if err := e.cfg.A.CopyAll(e.cfg.Out); err != nil {
		return 0, err
	}
	return Done, nil
}

// byteReader hands out at most one byte per Read, so the operator cursor never
// consumes input beyond the current command. The editor and shell commands
// share that input and must see whatever follows.
type byteReader struct {
	r io.Reader
}

func (b byteReader) Read(p []byte) (int, error) {
	if len(p) > 1 {
		p = p[:1]
	}
	return b.r.Read(p)
}

// follows reports whether h starts after the lines already resolved in both
// files. The zero-width side of an add or delete names the line it follows,
// which may be the last one resolved.
func follows(h hunk.Header, p Progress) bool {
	if h.Op == hunk.Add {
		if h.From1 < p.To1 {
			return false
		}
	} else if h.From1 <= p.To1 {
		return false
	}
	if h.Op == hunk.Delete {
		return h.From2 >= p.To2
	}
	return h.From2 > p.To2
}

// isMarker reports whether line is a diff annotation such as
// "\ No newline at end of file" rather than a header or body line.
func isMarker(line string) bool {
	return strings.HasPrefix(line, `\`)
}
