// Package scratch manages short-lived temporary files that must not outlive
// the session, even when it is interrupted.
package scratch

import (
	"errors"
	"fmt"
	"os"
	"sync"
)

// ErrUnavailable is returned when a scratch file cannot be created or reopened.
var ErrUnavailable = errors.New("scratch file unavailable")

// Set tracks every live scratch file so an interrupt handler can remove them.
// It is safe for concurrent use.
type Set struct {
	dir string

	mu    sync.Mutex
	files map[string]*File
}

// New returns a Set creating files in dir ("" means os.TempDir()).
func New(dir string) *Set {
	return &Set{dir: dir, files: make(map[string]*File)}
}

// File is an open scratch file registered with a Set.
type File struct {
	*os.File
	name string
	set  *Set
}

// Create creates a new scratch file. pattern follows os.CreateTemp.
func (s *Set) Create(pattern string) (*File, error) {
	f, err := os.CreateTemp(s.dir, pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	sf := &File{File: f, name: f.Name(), set: s}
	s.mu.Lock()
	s.files[sf.name] = sf
	s.mu.Unlock()
	return sf, nil
}

// Reopen closes the write handle and reopens the file for reading from the
// start. The returned file is still owned by the Set. A file that has already
// been removed cannot be reopened.
func (f *File) Reopen() error {
	s := f.set
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.files[f.name] != f {
		return fmt.Errorf("%w: %s was removed", ErrUnavailable, f.name)
	}
	_ = f.File.Close()
	r, err := os.Open(f.name)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	f.File = r
	return nil
}

// Remove closes and deletes the file. It is safe to call more than once.
func (f *File) Remove() error {
	return f.set.remove(f.name)
}

func (s *Set) remove(name string) error {
	s.mu.Lock()
	f, ok := s.files[name]
	delete(s.files, name)
	var handle *os.File
	if ok {
		handle = f.File
	}
	s.mu.Unlock()
	if !ok {
		return nil
	}
	_ = handle.Close()
	if err := os.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Len returns the number of live scratch files.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

// RemoveAll removes every live scratch file and returns the joined errors.
func (s *Set) RemoveAll() error {
	s.mu.Lock()
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	s.mu.Unlock()

	var errs []error
	for _, name := range names {
		if err := s.remove(name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
