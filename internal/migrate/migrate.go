// Package migrate upgrades every previously shipped storage layout into the
// current state schema. Migration is one-way and eager: the first load that
// finds only legacy data writes the upgraded state under the current key,
// and later loads never look at the legacy keys again.
package migrate

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/yiblet/omikuji/internal/codec"
	"github.com/yiblet/omikuji/internal/model"
	"github.com/yiblet/omikuji/internal/store"
	"go.uber.org/zap"
)

// ErrUnrecognized is returned by Normalize when no schema matches the bytes.
// It also matches codec.ErrCorrupt.
var ErrUnrecognized = fmt.Errorf("%w: unrecognized layout", codec.ErrCorrupt)

// SeedSchemaName is reported when no stored data was usable.
const SeedSchemaName = "seed"

// Normalize upgrades raw bytes of any known layout into the current state.
// Nil, empty or whitespace-only input means nothing was stored and yields
// the seeded state.
func Normalize(raw []byte) (*model.State, error) {
	state, _, err := normalizeWith(Schemas, raw)
	return state, err
}

func normalizeWith(schemas []Schema, raw []byte) (*model.State, Schema, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return model.Seed(), nil, nil
	}
	for _, schema := range schemas {
		if !schema.Detect(raw) {
			continue
		}
		state, err := schema.Upgrade(raw)
		if err != nil {
			return nil, schema, &codec.CorruptError{Key: schema.Key(), Err: err}
		}
		return state, schema, nil
	}
	return nil, nil, ErrUnrecognized
}

// Report describes what a Load did.
type Report struct {
	// Schema is the name of the layout the state came from, or "seed".
	Schema string
	// Key is the storage key that was read, empty for a seed.
	Key string
	// Persisted is true when Load wrote the result under the current key.
	Persisted bool
	// Recovered is true when the current key held corrupt data and the
	// state was started fresh.
	Recovered bool
}

// Engine probes the store for every known layout, newest first.
type Engine struct {
	store   store.Store
	codec   *codec.Codec
	schemas []Schema
	logger  *zap.Logger
}

// NewEngine creates an engine over the shipped schema chain.
func NewEngine(s store.Store, logger *zap.Logger) *Engine {
	return NewEngineWithSchemas(s, Schemas, logger)
}

// NewEngineWithSchemas creates an engine over a custom chain. The first
// schema's key is treated as the current key.
func NewEngineWithSchemas(s store.Store, schemas []Schema, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:   s,
		codec:   codec.NewWithKey(s, schemas[0].Key()),
		schemas: schemas,
		logger:  logger.Named("migrate"),
	}
}

// Codec returns the codec bound to the current key.
func (e *Engine) Codec() *codec.Codec {
	return e.codec
}

// Load returns the state from the newest layout present.
//
// When the current key exists it always wins; if its bytes are corrupt the
// state starts fresh rather than falling back to an older key. Missing or
// corrupt legacy keys are skipped. Anything other than an intact current
// entry is written back under the current key before returning. Only
// failures to read the store at all are returned as errors.
func (e *Engine) Load() (*model.State, Report, error) {
	currentKey := e.codec.Key()

	for _, schema := range e.schemas {
		key := schema.Key()
		raw, err := e.store.Get(key)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, Report{}, fmt.Errorf("failed to read %s: %w", key, err)
		}

		state, detected, err := normalizeWith(e.schemas, []byte(raw))
		if err != nil {
			e.logger.Warn("Discarding unreadable stored state",
				zap.String("key", key),
				zap.Error(err),
			)
			if key == currentKey {
				state := model.Seed()
				report := Report{Schema: SeedSchemaName, Recovered: true}
				report.Persisted = e.persist(state)
				return state, report, nil
			}
			continue
		}

		report := Report{Schema: detected.Name(), Key: key}
		if key == currentKey && detected.Key() == currentKey {
			e.logger.Debug("Loaded current state", zap.String("key", key))
			return state, report, nil
		}

		e.logger.Info("Migrating stored state",
			zap.String("from_key", key),
			zap.String("schema", detected.Name()),
			zap.String("to_key", currentKey),
		)
		report.Persisted = e.persist(state)
		return state, report, nil
	}

	state := model.Seed()
	report := Report{Schema: SeedSchemaName}
	report.Persisted = e.persist(state)
	return state, report, nil
}

// persist writes the state under the current key. A failed write is logged
// and the in-memory state is still used; the next mutation retries it.
func (e *Engine) persist(state *model.State) bool {
	if err := e.codec.Save(state); err != nil {
		e.logger.Warn("Failed to persist migrated state", zap.Error(err))
		return false
	}
	return true
}
