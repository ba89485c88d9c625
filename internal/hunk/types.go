package hunk

import (
	"fmt"
	"strconv"
)

// Op is the operation a hunk applies to turn file A into file B.
type Op byte

// Operations recognized in a normal diff header.
const (
	Add    Op = 'a' // lines exist only in B
	Delete Op = 'd' // lines exist only in A
	Change Op = 'c' // lines differ between A and B
)

func (o Op) String() string {
	switch o {
	case Add:
		return "add"
	case Delete:
		return "delete"
	case Change:
		return "change"
	}
	return fmt.Sprintf("op(%q)", byte(o))
}

// Header describes one hunk of a normal diff, e.g. "3,5c4".
//
// Ranges are inclusive and 1-based. For Add the A side is the zero-width
// insertion point (From1 == To1 == line after which B's text goes); for
// Delete the B side is.
type Header struct {
	From1, To1 int
	From2, To2 int
	Op         Op
	Raw        string // header line as read, terminator included
}

// BodyLines is the number of lines following the header in the hunk stream.
// It must be called on the header as parsed, not on Adjusted().
func (h Header) BodyLines() int {
	n := (h.To1 - h.From1) + (h.To2 - h.From2) + 1
	if h.Op == Change {
		n += 2 // both sides plus the "---" separator
	}
	return n
}

// Adjusted returns a copy whose zero-width side has From bumped past the
// insertion point, so From-1 counts the unchanged lines before the hunk.
func (h Header) Adjusted() Header {
	switch h.Op {
	case Add:
		h.From1++
	case Delete:
		h.From2++
	}
	return h
}

// String renders the canonical header text without a terminator.
func (h Header) String() string {
	return FormatRange(h.From1, h.To1) + string(h.Op) + FormatRange(h.From2, h.To2)
}

// FormatRange renders "N" when from == to, otherwise "N,M".
func FormatRange(from, to int) string {
	if from == to {
		return strconv.Itoa(from)
	}
	return strconv.Itoa(from) + "," + strconv.Itoa(to)
}
