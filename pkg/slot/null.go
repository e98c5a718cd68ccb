package slot

import "context"

// NullBackend is a no-op backend that never stores anything.
// Useful for testing or when persistence is disabled.
type NullBackend struct{}

// NewNullBackend creates a null backend.
func NewNullBackend() Backend {
	return &NullBackend{}
}

// Get always reports an empty slot.
func (NullBackend) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set does nothing.
func (NullBackend) Set(context.Context, string, []byte) error { return nil }

// Delete does nothing.
func (NullBackend) Delete(context.Context, string) error { return nil }

// Close does nothing.
func (NullBackend) Close() error { return nil }

// Name returns "null".
func (NullBackend) Name() string { return "null" }

var _ Backend = (*NullBackend)(nil)
