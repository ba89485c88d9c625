package scratch

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndRemove(t *testing.T) {
	s := New(t.TempDir())

	f, err := s.Create("idiff.*")
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())

	_, err = f.WriteString("hello\n")
	require.NoError(t, err)
	name := f.Name()

	require.NoError(t, f.Remove())
	assert.Equal(t, 0, s.Len())
	_, err = os.Stat(name)
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, f.Remove())
}

func TestReopen(t *testing.T) {
	s := New(t.TempDir())
	f, err := s.Create("idiff.*")
	require.NoError(t, err)
	defer f.Remove()

	_, err = f.WriteString("a\nb\n")
	require.NoError(t, err)
	require.NoError(t, f.Reopen())

	b, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", string(b))
}

func TestRemoveAll(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	for range 3 {
		_, err := s.Create("idiff.*")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, s.Len())

	require.NoError(t, s.RemoveAll())
	assert.Equal(t, 0, s.Len())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRemove_AlreadyDeleted(t *testing.T) {
	s := New(t.TempDir())
	f, err := s.Create("idiff.*")
	require.NoError(t, err)

	require.NoError(t, os.Remove(f.Name()))
	require.NoError(t, f.Remove())
	assert.Equal(t, 0, s.Len())
}

func TestCreate_Unavailable(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "does", "not", "exist"))
	_, err := s.Create("idiff.*")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestReopen_AfterRemove(t *testing.T) {
	s := New(t.TempDir())
	f, err := s.Create("idiff.*")
	require.NoError(t, err)
	require.NoError(t, f.Remove())

	require.ErrorIs(t, f.Reopen(), ErrUnavailable)
	assert.Equal(t, 0, s.Len())
}

// RemoveAll runs on the signal goroutine while the session may be reopening
// the editor's file.
func TestRemoveAll_ConcurrentWithReopen(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	files := make([]*File, 20)
	for i := range files {
		f, err := s.Create("idiff.*")
		require.NoError(t, err)
		files[i] = f
	}

	var wg sync.WaitGroup
	for _, f := range files {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := f.Reopen(); err != nil {
				assert.ErrorIs(t, err, ErrUnavailable)
			}
		}()
	}
	require.NoError(t, s.RemoveAll())
	wg.Wait()
	require.NoError(t, s.RemoveAll())

	assert.Equal(t, 0, s.Len())
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
