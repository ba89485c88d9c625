package cursor

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopy(t *testing.T) {
	c := New("a", strings.NewReader("one\ntwo\nthree\n"))
	var out strings.Builder

	require.NoError(t, c.Copy(2, &out))
	assert.Equal(t, "one\ntwo\n", out.String())
	assert.Equal(t, 2, c.Line())

	require.NoError(t, c.Copy(1, &out))
	assert.Equal(t, "one\ntwo\nthree\n", out.String())
}

func TestCopy_PastEOF(t *testing.T) {
	c := New("a", strings.NewReader("one\ntwo\n"))
	var out strings.Builder

	require.NoError(t, c.Copy(10, &out))
	assert.Equal(t, "one\ntwo\n", out.String())
	assert.Equal(t, 2, c.Line())

	require.NoError(t, c.Copy(1, &out))
	assert.Equal(t, "one\ntwo\n", out.String())
}

func TestCopy_NonPositive(t *testing.T) {
	c := New("a", strings.NewReader("one\n"))
	var out strings.Builder

	require.NoError(t, c.Copy(0, &out))
	require.NoError(t, c.Copy(-3, &out))
	require.NoError(t, c.Skip(-1))
	assert.Empty(t, out.String())
	assert.Equal(t, 0, c.Line())
}

func TestCopy_KeepsTerminators(t *testing.T) {
	c := New("a", strings.NewReader("dos\r\nunix\nlast"))
	var out strings.Builder

	require.NoError(t, c.CopyAll(&out))
	assert.Equal(t, "dos\r\nunix\nlast", out.String())
	assert.Equal(t, 3, c.Line())
}

func TestCopy_LongLine(t *testing.T) {
	long := strings.Repeat("x", 100_000) + "\n"
	c := New("a", strings.NewReader(long+"short\n"))
	var out strings.Builder

	require.NoError(t, c.Copy(1, &out))
	assert.Equal(t, long, out.String())
	assert.Equal(t, 1, c.Line())
}

func TestSkip(t *testing.T) {
	c := New("a", strings.NewReader("a\nb\nc\nd\n"))
	var out strings.Builder

	require.NoError(t, c.Skip(2))
	require.NoError(t, c.CopyAll(&out))
	assert.Equal(t, "c\nd\n", out.String())
}

func TestSkipAll(t *testing.T) {
	c := New("a", strings.NewReader("a\nb\n"))
	require.NoError(t, c.SkipAll())
	assert.Equal(t, 2, c.Line())

	_, err := c.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadLine(t *testing.T) {
	c := New("a", strings.NewReader("x\ny"))

	s, err := c.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "x\n", s)

	s, err = c.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "y", s)

	_, err = c.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestCopy_WriteError(t *testing.T) {
	c := New("a", strings.NewReader("one\n"))
	err := c.Copy(1, failingWriter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("device gone") }

func TestReadLine_ReadError(t *testing.T) {
	c := New("a", failingReader{})
	_, err := c.ReadLine()
	require.Error(t, err)
	assert.NotErrorIs(t, err, io.EOF)
	assert.Error(t, c.Skip(1))
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\n"), 0o644))

	c, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, path, c.Name())

	var out strings.Builder
	require.NoError(t, c.CopyAll(&out))
	assert.Equal(t, "a\nb\n", out.String())
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
