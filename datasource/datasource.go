// Package datasource abstracts where dataset files come from: the local file
// system, memory, S3 or any S3-compatible object store. The search core only
// ever sees a byte stream.
package datasource

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotFound is returned when a dataset does not exist.
//
// Implementations should return an error that satisfies
// `errors.Is(err, ErrNotFound)`. The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Fetcher retrieves dataset files by name.
type Fetcher interface {
	// Fetch opens the named dataset for reading. The caller closes the
	// returned stream.
	Fetch(ctx context.Context, name string) (io.ReadCloser, error)
}

// Local implements Fetcher on a local directory.
type Local struct {
	root string
}

// NewLocal creates a fetcher rooted at the given directory.
func NewLocal(root string) *Local {
	return &Local{root: root}
}

func (l *Local) Fetch(_ context.Context, name string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(l.root, name))
}

// Memory is an in-memory Fetcher for testing. Thread-safe for concurrent
// reads and writes.
type Memory struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemory creates an empty in-memory fetcher.
func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte)}
}

// Put stores a dataset under the given name.
func (m *Memory) Put(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]byte, len(data))
	copy(copied, data)
	m.files[name] = copied
}

func (m *Memory) Fetch(_ context.Context, name string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.files[name]
	if !ok {
		return nil, ErrNotFound
	}

	copied := make([]byte, len(data))
	copy(copied, data)

	return io.NopCloser(bytes.NewReader(copied)), nil
}
