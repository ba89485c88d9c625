// Package cursor provides forward-only line cursors over sequential input.
//
// A Cursor never seeks; the only ways to move it are ReadLine, Skip, Copy and
// their unbounded forms. Lines keep their original terminators and have no
// length limit.
package cursor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrUnavailable is returned by Open when the file cannot be opened.
var ErrUnavailable = errors.New("input unavailable")

// Cursor is a sequential read position over one line-oriented stream.
type Cursor struct {
	name   string
	r      *bufio.Reader
	closer io.Closer
	line   int
}

// New wraps r. name is used in error messages only.
func New(name string, r io.Reader) *Cursor {
	c := &Cursor{name: name, r: bufio.NewReader(r)}
	if rc, ok := r.(io.Closer); ok {
		c.closer = rc
	}
	return c
}

// Open opens path for reading.
func Open(path string) (*Cursor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return New(path, f), nil
}

// Name returns the name the cursor was created with.
func (c *Cursor) Name() string { return c.name }

// Line returns the number of lines consumed so far.
func (c *Cursor) Line() int { return c.line }

// ReadLine returns the next line including its terminator. The last line of
// a stream may lack one. At end of stream it returns "", io.EOF.
func (c *Cursor) ReadLine() (string, error) {
	s, err := c.r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read %s: %w", c.name, err)
	}
	if s == "" {
		return "", io.EOF
	}
	c.line++
	return s, nil
}

// Skip discards the next n lines. Reaching end of stream first is not an error.
func (c *Cursor) Skip(n int) error {
	return c.Copy(n, io.Discard)
}

// Copy writes the next n lines to w verbatim. Reaching end of stream first is
// not an error.
func (c *Cursor) Copy(n int, w io.Writer) error {
	for ; n > 0; n-- {
		s, err := c.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, s); err != nil {
			return fmt.Errorf("copy from %s: %w", c.name, err)
		}
	}
	return nil
}

// SkipAll discards everything up to end of stream.
func (c *Cursor) SkipAll() error {
	return c.CopyAll(io.Discard)
}

// CopyAll writes everything up to end of stream to w.
func (c *Cursor) CopyAll(w io.Writer) error {
	for {
		s, err := c.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, s); err != nil {
			return fmt.Errorf("copy from %s: %w", c.name, err)
		}
	}
}

// Close releases the underlying reader if it is closable.
func (c *Cursor) Close() error {
	if c.closer == nil {
		return nil
	}
	err := c.closer.Close()
	c.closer = nil
	return err
}
