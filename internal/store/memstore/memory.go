// Package memstore provides an in-memory implementation of store.Store.
// This implementation is designed for fast unit testing and the demo; it
// does not persist data.
package memstore

import (
	"fmt"
	"sort"
	"sync"

	"github.com/yiblet/omikuji/internal/store"
)

// MemoryStore is an in-memory implementation of store.Store.
// It is thread-safe via a mutex.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
	writes int
}

// NewMemoryStore creates a new empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string]string),
	}
}

// NewMemoryStoreWith creates an in-memory store pre-populated with values.
func NewMemoryStoreWith(values map[string]string) *MemoryStore {
	m := NewMemoryStore()
	for k, v := range values {
		m.values[k] = v
	}
	return m
}

// Get retrieves a value by key.
func (m *MemoryStore) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", store.ErrNotFound, key)
	}
	return value, nil
}

// Set stores a value, overwriting any previous one.
func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	m.writes++
	return nil
}

// Delete removes a key.
func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.values[key]; !ok {
		return fmt.Errorf("%w: %s", store.ErrNotFound, key)
	}
	delete(m.values, key)
	return nil
}

// Keys returns all keys sorted lexically.
func (m *MemoryStore) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Writes reports how many Set calls have succeeded (for testing).
func (m *MemoryStore) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

// Close releases resources (no-op for memory store).
func (m *MemoryStore) Close() error {
	return nil
}
