package slot

import (
	"context"
	"time"

	"github.com/matzehuels/pipecanvas/pkg/errors"
	"github.com/matzehuels/pipecanvas/pkg/observability"
)

// Slot is the single persistence slot of one workspace.
type Slot struct {
	backend Backend
	key     string
}

// New binds key to a backend.
func New(backend Backend, key string) *Slot {
	return &Slot{backend: backend, key: key}
}

// Key returns the slot key.
func (s *Slot) Key() string { return s.key }

// Backend returns the backend the slot writes to.
func (s *Slot) Backend() Backend { return s.backend }

// Load returns the stored payload; ok is false when the slot is empty.
func (s *Slot) Load(ctx context.Context) (data []byte, ok bool, err error) {
	start := time.Now()
	defer func() {
		observability.Slot().OnSlotLoad(ctx, s.backend.Name(), len(data), ok, time.Since(start), err)
	}()

	var sealed []byte
	err = RetryWithBackoff(ctx, s.backend.Name(), func() error {
		var gerr error
		sealed, ok, gerr = s.backend.Get(ctx, s.key)
		return gerr
	})
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeStorage, err, "load slot %s", s.key)
	}
	if !ok {
		return nil, false, nil
	}
	data, err = Unseal(sealed)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Save seals and stores data, replacing the previous payload.
func (s *Slot) Save(ctx context.Context, data []byte) (err error) {
	start := time.Now()
	defer func() {
		observability.Slot().OnSlotSave(ctx, s.backend.Name(), len(data), time.Since(start), err)
	}()

	sealed, err := Seal(data)
	if err != nil {
		return err
	}
	err = RetryWithBackoff(ctx, s.backend.Name(), func() error {
		return s.backend.Set(ctx, s.key, sealed)
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save slot %s", s.key)
	}
	return nil
}

// Clear empties the slot.
func (s *Slot) Clear(ctx context.Context) error {
	err := RetryWithBackoff(ctx, s.backend.Name(), func() error {
		return s.backend.Delete(ctx, s.key)
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "clear slot %s", s.key)
	}
	return nil
}

// Close closes the backend.
func (s *Slot) Close() error { return s.backend.Close() }
