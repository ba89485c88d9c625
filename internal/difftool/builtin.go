package difftool

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/lundberg/idiff/internal/hunk"
)

// Builtin produces the hunk stream in-process, for systems without a diff
// program on PATH.
type Builtin struct{}

// Produce implements Producer.
func (Builtin) Produce(ctx context.Context, file1, file2 string, w io.Writer) error {
	oldText, err := os.ReadFile(file1)
	if err != nil {
		return fmt.Errorf("reading %s: %w", file1, err)
	}
	newText, err := os.ReadFile(file2)
	if err != nil {
		return fmt.Errorf("reading %s: %w", file2, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return WriteNormal(w, string(oldText), string(newText))
}

// ErrTooManyLines is returned when the inputs hold more distinct lines than
// the in-process diff can tell apart.
var ErrTooManyLines = errors.New("too many distinct lines for built-in diff")

// WriteNormal writes the line diff of oldText against newText in normal diff
// notation. Body lines always end in '\n' so that each hunk has exactly the
// number of body lines its header implies.
func WriteNormal(w io.Writer, oldText, newText string) error {
	var table lineTable
	rOld, err := table.encode(oldText)
	if err != nil {
		return err
	}
	rNew, err := table.encode(newText)
	if err != nil {
		return err
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMainRunes(rOld, rNew, false)
	diffs = dmp.DiffCleanupMerge(diffs)

	bw := bufio.NewWriter(w)
	var (
		line1, line2 int // lines of each file accounted for so far
		dels, ins    []string
	)

	flush := func() {
		if len(dels) == 0 && len(ins) == 0 {
			return
		}
		var header string
		switch {
		case len(dels) > 0 && len(ins) > 0:
			header = hunk.FormatRange(line1+1, line1+len(dels)) + string(hunk.Change) + hunk.FormatRange(line2+1, line2+len(ins))
		case len(dels) > 0:
			header = hunk.FormatRange(line1+1, line1+len(dels)) + string(hunk.Delete) + strconv.Itoa(line2)
		default:
			header = strconv.Itoa(line1) + string(hunk.Add) + hunk.FormatRange(line2+1, line2+len(ins))
		}
		bw.WriteString(header + "\n")
		writeBody(bw, "< ", dels)
		if len(dels) > 0 && len(ins) > 0 {
			bw.WriteString("---\n")
		}
		writeBody(bw, "> ", ins)
		line1 += len(dels)
		line2 += len(ins)
		dels, ins = nil, nil
	}

	for _, d := range diffs {
		lines := table.decode(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			line1 += len(lines)
			line2 += len(lines)
		case diffmatchpatch.DiffDelete:
			dels = append(dels, lines...)
		case diffmatchpatch.DiffInsert:
			ins = append(ins, lines...)
		}
	}
	flush()
	return bw.Flush()
}

// Distinct lines are diffed as runes, one per line. Indexes skip the UTF-16
// surrogate block, since surrogates do not survive conversion to string and
// go-diff hands diffs back as strings.
const (
	surrogateMin  = 0xD800
	surrogateSpan = 0xE000 - surrogateMin
)

type lineTable struct {
	lines []string
	index map[string]rune
}

func (t *lineTable) encode(text string) ([]rune, error) {
	if t.index == nil {
		t.index = make(map[string]rune)
	}
	var runes []rune
	for len(text) > 0 {
		n := strings.IndexByte(text, '\n') + 1
		if n == 0 {
			n = len(text)
		}
		line := text[:n]
		text = text[n:]

		r, ok := t.index[line]
		if !ok {
			r, ok = lineRune(len(t.lines))
			if !ok {
				return nil, fmt.Errorf("%w: more than %d", ErrTooManyLines, len(t.lines))
			}
			t.index[line] = r
			t.lines = append(t.lines, line)
		}
		runes = append(runes, r)
	}
	return runes, nil
}

func (t *lineTable) decode(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		if i := runeIndex(r); i >= 0 && i < len(t.lines) {
			out = append(out, t.lines[i])
		}
	}
	return out
}

// lineRune returns the rune standing for the i-th distinct line.
func lineRune(i int) (rune, bool) {
	if i >= surrogateMin {
		i += surrogateSpan
	}
	if i > utf8.MaxRune {
		return 0, false
	}
	return rune(i), true
}

func runeIndex(r rune) int {
	if r >= surrogateMin+surrogateSpan {
		return int(r) - surrogateSpan
	}
	return int(r)
}

func writeBody(bw *bufio.Writer, prefix string, lines []string) {
	for _, l := range lines {
		bw.WriteString(prefix)
		bw.WriteString(l)
		if !strings.HasSuffix(l, "\n") {
			bw.WriteByte('\n')
		}
	}
}
