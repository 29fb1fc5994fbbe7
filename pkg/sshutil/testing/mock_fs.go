// Package testing fakes remote nodes for code built on sshutil.Conn.
// A MockConn serves "cat" from an in-memory filesystem, so tests can hand
// it /proc files and watch the counters change between ticks.
package testing

import (
	"errors"
	"path/filepath"
	"sync"
)

// ErrNotExist is returned for paths that were never written.
var ErrNotExist = errors.New("file not found")

// MockFS is an in-memory set of files keyed by clean absolute path.
type MockFS struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMockFS creates an empty filesystem.
func NewMockFS() *MockFS {
	return &MockFS{files: make(map[string][]byte)}
}

// WriteFile stores content at path, replacing any previous content.
func (fs *MockFS) WriteFile(path string, content []byte) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.files[filepath.Clean(path)] = append([]byte(nil), content...)
	return nil
}

// ReadFile returns a copy of the content at path.
func (fs *MockFS) ReadFile(path string) ([]byte, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	content, ok := fs.files[filepath.Clean(path)]
	if !ok {
		return nil, ErrNotExist
	}
	return append([]byte(nil), content...), nil
}

// Remove deletes path. Removing a missing path is not an error.
func (fs *MockFS) Remove(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	delete(fs.files, filepath.Clean(path))
	return nil
}

// Exists reports whether path was written.
func (fs *MockFS) Exists(path string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	_, ok := fs.files[filepath.Clean(path)]
	return ok
}
