// idiff interactively merges two files, hunk by hunk.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/term"

	"github.com/lundberg/idiff/internal/cli"
	"github.com/lundberg/idiff/internal/cursor"
	"github.com/lundberg/idiff/internal/difftool"
	"github.com/lundberg/idiff/internal/git"
	"github.com/lundberg/idiff/internal/launch"
	"github.com/lundberg/idiff/internal/logging"
	"github.com/lundberg/idiff/internal/merge"
	"github.com/lundberg/idiff/internal/scratch"
)

var progName = filepath.Base(os.Args[0])

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", progName, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		if errors.Is(err, cli.ErrHelp) {
			cli.PrintUsage(os.Stdout)
			return nil
		}
		if errors.Is(err, cli.ErrUsage) {
			cli.PrintUsage(os.Stderr)
		}
		return err
	}

	log, closeLog, err := logging.New(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	tmp := scratch.New("")
	defer tmp.RemoveAll()

	// Interrupts end the session; scratch files must not survive it.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	finished := make(chan struct{})
	defer close(finished)
	go func() {
		select {
		case <-finished:
		case <-ctx.Done():
			log.Debug("interrupted")
			_ = tmp.RemoveAll()
			fmt.Fprintln(os.Stderr)
			os.Exit(1)
		}
	}()

	file1 := cfg.File1
	if cfg.Rev != "" {
		file1, err = checkout(tmp, cfg.Rev, cfg.File2)
		if err != nil {
			return err
		}
	}

	a, err := cursor.Open(file1)
	if err != nil {
		return err
	}
	defer a.Close()
	b, err := cursor.Open(cfg.File2)
	if err != nil {
		return err
	}
	defer b.Close()

	out, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("%w: %w", cursor.ErrUnavailable, err)
	}
	defer out.Close()

	hunks, err := produceHunks(ctx, cfg, tmp, log, file1, cfg.File2)
	if err != nil {
		return err
	}
	defer hunks.Close()

	w := bufio.NewWriter(out)
	engine := merge.New(merge.Config{
		A:        a,
		B:        b,
		Hunks:    hunks,
		Out:      w,
		Operator: os.Stdin,
		Display:  os.Stdout,
		Errors:   os.Stderr,
		Exec:     &launch.Runner{},
		Scratch:  tmp,
		Logger:   log,
		Name:     progName,
		Prompt:   cfg.Prompt,
		Editor:   cfg.Editor,
		Shell:    cfg.Shell,
		Color:    useColor(cfg.Color),
	})
	if err := engine.Run(ctx); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", cfg.Output, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", cfg.Output, err)
	}

	fmt.Printf("%s: output in file %s\n", progName, cfg.Output)
	return nil
}

// produceHunks diffs the two files into a scratch file and returns a cursor
// over it.
func produceHunks(ctx context.Context, cfg *cli.Config, tmp *scratch.Set, log *slog.Logger, file1, file2 string) (*cursor.Cursor, error) {
	var producer difftool.Producer = difftool.Builtin{}
	if !cfg.Builtin {
		prog := difftool.Program{Name: cfg.Diff}
		if prog.Available() {
			producer = prog
		} else {
			fmt.Fprintf(os.Stderr, "%s: %s not found, using built-in diff\n", progName, cfg.Diff)
		}
	}
	log.Debug("producing hunks", "producer", fmt.Sprintf("%T", producer), "file1", file1, "file2", file2)

	f, err := tmp.Create("idiff-hunks.*")
	if err != nil {
		return nil, err
	}
	if err := producer.Produce(ctx, file1, file2, f); err != nil {
		return nil, fmt.Errorf("computing diff: %w", err)
	}
	if err := f.Reopen(); err != nil {
		return nil, err
	}
	return cursor.New(f.Name(), f), nil
}

// checkout writes rev's version of path to a scratch file and returns its name.
func checkout(tmp *scratch.Set, rev, path string) (string, error) {
	repo := git.NewRepo(filepath.Dir(path))
	if _, err := repo.ResolveRev(rev); err != nil {
		return "", err
	}
	content, err := repo.Show(rev, filepath.Base(path))
	if err != nil {
		return "", err
	}
	f, err := tmp.Create("idiff-rev.*")
	if err != nil {
		return "", err
	}
	if _, err := f.Write(content); err != nil {
		return "", fmt.Errorf("writing %s: %w", f.Name(), err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", f.Name(), err)
	}
	return f.Name(), nil
}

func useColor(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
