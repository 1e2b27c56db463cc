// Package codec persists the omikuji state as a single JSON document under
// one store key.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yiblet/omikuji/internal/model"
	"github.com/yiblet/omikuji/internal/store"
)

// CurrentKey is the storage key of the current schema.
const CurrentKey = "omikuji-data-v4"

// ErrCorrupt matches every CorruptError via errors.Is.
var ErrCorrupt = errors.New("stored state is corrupt")

// CorruptError reports bytes under a key that could not be decoded.
// Callers treat it like a missing key and start fresh.
type CorruptError struct {
	Key string
	Err error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt data under %q: %v", e.Key, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrCorrupt) match any CorruptError.
func (e *CorruptError) Is(target error) bool { return target == ErrCorrupt }

// WriteError reports a failed save.
type WriteError struct {
	Key string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %q: %v", e.Key, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Codec loads and saves the state under a single key.
type Codec struct {
	store store.Store
	key   string
}

// New creates a codec for the current schema key.
func New(s store.Store) *Codec {
	return NewWithKey(s, CurrentKey)
}

// NewWithKey creates a codec bound to a custom key.
func NewWithKey(s store.Store, key string) *Codec {
	return &Codec{store: s, key: key}
}

// Key returns the storage key this codec reads and writes.
func (c *Codec) Key() string {
	return c.key
}

// Load reads the state. It returns store.ErrNotFound when the key is
// absent and a *CorruptError when the stored bytes do not decode.
func (c *Codec) Load() (*model.State, error) {
	raw, err := c.store.Get(c.key)
	if err != nil {
		return nil, err
	}
	state, err := Decode([]byte(raw))
	if err != nil {
		return nil, &CorruptError{Key: c.key, Err: err}
	}
	return state, nil
}

// Save overwrites the whole entry with the encoded state.
func (c *Codec) Save(state *model.State) error {
	data, err := Encode(state)
	if err != nil {
		return &WriteError{Key: c.key, Err: err}
	}
	if err := c.store.Set(c.key, string(data)); err != nil {
		return &WriteError{Key: c.key, Err: err}
	}
	return nil
}

// Encode serializes the state. Map keys are emitted sorted, so encoding an
// unchanged state always yields the same bytes.
func Encode(state *model.State) ([]byte, error) {
	if state == nil {
		return nil, errors.New("cannot encode nil state")
	}
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return data, nil
}

// Decode parses a current-schema document and repairs its structural
// invariants (default collection present, modes defaulted).
func Decode(raw []byte) (*model.State, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errors.New("empty document")
	}
	var state model.State
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("failed to decode state: %w", err)
	}
	state.EnsureDefault()
	return &state, nil
}
