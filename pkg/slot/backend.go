package slot

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// Backend is a key/value store for sealed snapshots.
type Backend interface {
	// Get returns the value for key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores data under key, replacing any previous value.
	Set(ctx context.Context, key string, data []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases connections held by the backend.
	Close() error

	// Name identifies the backend in logs and hooks.
	Name() string
}

// Hash returns the hex SHA-256 of a key. File names are derived from it so
// that arbitrary keys are safe on disk.
func Hash(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
