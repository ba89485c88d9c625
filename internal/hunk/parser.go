// Package hunk parses the range/command headers of a normal-format diff.
package hunk

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMalformedHeader is returned when a hunk header does not match R1<cmd>R2.
var ErrMalformedHeader = errors.New("malformed hunk header")

// Parse parses one header line such as "2c2", "5,7d4" or "0a1,3".
// A trailing line terminator is allowed; anything else after the second range
// is rejected.
func Parse(line string) (Header, error) {
	h := Header{Raw: line}
	s := strings.TrimRight(line, "\r\n")
	p := &scanner{s: s}

	var ok bool
	if h.From1, h.To1, ok = p.rng(); !ok {
		return Header{}, malformed(s, "expected line range for first file")
	}
	c, ok := p.next()
	if !ok {
		return Header{}, malformed(s, "missing command")
	}
	h.Op = Op(c)
	if h.From2, h.To2, ok = p.rng(); !ok {
		return Header{}, malformed(s, "expected line range for second file")
	}
	if p.i != len(s) {
		return Header{}, malformed(s, fmt.Sprintf("unexpected %q after header", s[p.i:]))
	}

	switch h.Op {
	case Add:
		if h.From1 != h.To1 {
			return Header{}, malformed(s, "add must name a single insertion point in the first file")
		}
	case Delete:
		if h.From2 != h.To2 {
			return Header{}, malformed(s, "delete must name a single insertion point in the second file")
		}
	case Change:
	default:
		return Header{}, malformed(s, fmt.Sprintf("unknown command %q", c))
	}
	// Neither BodyLines nor Adjusted may overflow.
	if h.To1-h.From1 > math.MaxInt-3-(h.To2-h.From2) ||
		(h.Op == Add && h.From1 == math.MaxInt) || (h.Op == Delete && h.From2 == math.MaxInt) {
		return Header{}, malformed(s, "ranges too large")
	}
	return h, nil
}

func malformed(s, why string) error {
	return fmt.Errorf("%w %q: %s", ErrMalformedHeader, s, why)
}

type scanner struct {
	s string
	i int
}

func (p *scanner) next() (byte, bool) {
	if p.i >= len(p.s) {
		return 0, false
	}
	c := p.s[p.i]
	p.i++
	return c, true
}

// num consumes leading decimal digits. A run too large for an int is not a
// number.
func (p *scanner) num() (int, bool) {
	start := p.i
	for p.i < len(p.s) && p.s[p.i] >= '0' && p.s[p.i] <= '9' {
		p.i++
	}
	if p.i == start {
		return 0, false
	}
	n, err := strconv.Atoi(p.s[start:p.i])
	if err != nil {
		return 0, false
	}
	return n, true
}

// rng consumes "N" or "N,M". A single number yields from == to.
func (p *scanner) rng() (from, to int, ok bool) {
	if from, ok = p.num(); !ok {
		return 0, 0, false
	}
	if p.i >= len(p.s) || p.s[p.i] != ',' {
		return from, from, true
	}
	p.i++
	if to, ok = p.num(); !ok || to < from {
		return 0, 0, false
	}
	return from, to, true
}
