// Package cli handles command-line argument parsing and configuration.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/lundberg/idiff/internal/launch"
	"github.com/lundberg/idiff/internal/logging"
)

// ErrHelp is returned when --help is requested.
var ErrHelp = errors.New("help requested")

// ErrUsage is returned for any invocation that cannot start a session.
var ErrUsage = errors.New("usage")

// Config holds the parsed CLI configuration.
type Config struct {
	File1   string // empty when Rev is set; file A is then Rev:File2
	File2   string
	Rev     string
	Output  string
	Editor  string
	Shell   string
	Diff    string // hunk-stream producer program
	Builtin bool   // produce the hunk stream in-process
	Prompt  string
	Color   string // "auto", "always" or "never"
	LogFile string
}

const long = `Interactively merge file1 and file2, hunk by hunk.

For each difference idiff shows the hunk and asks what to keep:
  <     take file1's side
  >     take file2's side
  e     edit both sides in $EDITOR (default ed)
  q<    take file1 for the rest of the merge and stop
  q>    take file2 for the rest of the merge and stop
  !cmd  run cmd in the shell, then ask again

Environment:
  EDITOR          editor for the e command
  SHELL           shell for the ! command
  IDIFF_DIFF      diff program producing the hunks
  IDIFF_LOG_FILE  append a debug log to this file`

// flags holds flag values, shared between newCommand and ParseArgs.
type flags struct {
	output  string
	editor  string
	shell   string
	diff    string
	builtin bool
	rev     string
	prompt  string
	color   string
	logFile string
}

func newCommand(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "idiff [flags] file1 file2",
		Short:         "Interactively merge two files",
		Long:          long,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			want := 2
			if f.rev != "" {
				want = 1
			}
			if len(args) != want {
				return fmt.Errorf("%w: expected %d file arguments, got %d", ErrUsage, want, len(args))
			}
			return nil
		},
		RunE: func(*cobra.Command, []string) error { return nil },
	}
	fs := cmd.Flags()
	fs.StringVarP(&f.output, "output", "o", "idiff.out", "merged output file")
	fs.StringVar(&f.editor, "editor", "ed", "editor for the e command (overrides $EDITOR)")
	fs.StringVar(&f.shell, "shell", launch.DefaultShell(), "shell for the ! command (overrides $SHELL)")
	fs.StringVar(&f.diff, "diff", "diff", "diff program producing the hunks (overrides $IDIFF_DIFF)")
	fs.BoolVar(&f.builtin, "builtin", false, "compute the hunks in-process instead of running a diff program")
	fs.StringVar(&f.rev, "rev", "", "merge the file as of this git revision (file1) with the working copy (file2)")
	fs.StringVar(&f.prompt, "prompt", "? ", "command prompt")
	fs.StringVar(&f.color, "color", "auto", "color hunks: auto, always or never")
	fs.StringVar(&f.logFile, "log-file", "", "append a debug log to this file (overrides $"+logging.EnvFile+")")
	return cmd
}

// ParseArgs parses command-line arguments into a Config. Unset flags fall
// back to their environment variables, then to built-in defaults. It does
// not touch the files named.
func ParseArgs(args []string) (*Config, error) {
	var f flags
	cmd := newCommand(&f)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)

	var positional []string
	ran := false
	cmd.RunE = func(_ *cobra.Command, args []string) error {
		ran = true
		positional = args
		return nil
	}

	if err := cmd.Execute(); err != nil {
		if errors.Is(err, ErrUsage) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if !ran {
		return nil, ErrHelp
	}

	if f.color != "auto" && f.color != "always" && f.color != "never" {
		return nil, fmt.Errorf("%w: invalid color %q: must be auto, always or never", ErrUsage, f.color)
	}
	if f.output == "" {
		return nil, fmt.Errorf("%w: output file must not be empty", ErrUsage)
	}

	fs := cmd.Flags()
	fromEnv(fs, "editor", "EDITOR", &f.editor)
	fromEnv(fs, "shell", "SHELL", &f.shell)
	fromEnv(fs, "diff", "IDIFF_DIFF", &f.diff)
	fromEnv(fs, "log-file", logging.EnvFile, &f.logFile)

	cfg := &Config{
		Rev:     f.rev,
		Output:  f.output,
		Editor:  f.editor,
		Shell:   f.shell,
		Diff:    f.diff,
		Builtin: f.builtin,
		Prompt:  f.prompt,
		Color:   f.color,
		LogFile: f.logFile,
	}
	if f.rev != "" {
		cfg.File2 = positional[0]
	} else {
		cfg.File1, cfg.File2 = positional[0], positional[1]
	}
	return cfg, nil
}

// fromEnv replaces value with the environment variable env when the flag was
// not given on the command line and env is set.
func fromEnv(fs *pflag.FlagSet, flag, env string, value *string) {
	if fs.Changed(flag) {
		return
	}
	if v := os.Getenv(env); v != "" {
		*value = v
	}
}

// PrintUsage writes usage information to w.
func PrintUsage(w io.Writer) {
	var f flags
	cmd := newCommand(&f)
	cmd.SetOut(w)
	_ = cmd.Help()
}
