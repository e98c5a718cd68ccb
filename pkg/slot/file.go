package slot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileBackend stores each key in its own file under a directory.
type FileBackend struct {
	mu  sync.RWMutex
	dir string
}

// NewFileBackend creates a file backend rooted at dir, creating it if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create slot dir: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

// Get reads the file for key.
func (b *FileBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, err := os.ReadFile(b.Path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read slot file: %w", err)
	}
	return data, true, nil
}

// Set writes the file for key. The write goes through a temporary file so a
// crash never leaves a half-written slot behind.
func (b *FileBackend) Set(_ context.Context, key string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	path := b.Path(key)
	tmp, err := os.CreateTemp(b.dir, ".slot-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write slot file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write slot file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace slot file: %w", err)
	}
	return nil
}

// Delete removes the file for key.
func (b *FileBackend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := os.Remove(b.Path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove slot file: %w", err)
	}
	return nil
}

// Close does nothing for the file backend.
func (b *FileBackend) Close() error { return nil }

// Name returns "file".
func (b *FileBackend) Name() string { return "file" }

// Path returns the file that holds key.
func (b *FileBackend) Path(key string) string {
	return filepath.Join(b.dir, Hash(key)[:32]+".slot")
}

var _ Backend = (*FileBackend)(nil)
