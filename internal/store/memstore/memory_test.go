package memstore

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/yiblet/omikuji/internal/store"
)

func TestMemoryStore_ImplementsStore(t *testing.T) {
	var _ store.Store = (*MemoryStore)(nil)
}

func TestMemoryStore_SetGetDelete(t *testing.T) {
	m := NewMemoryStore()

	if _, err := m.Get("missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := m.Set("omikuji-theme", "dark"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := m.Get("omikuji-theme")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "dark" {
		t.Errorf("Get() = %q, want dark", got)
	}

	if err := m.Delete("omikuji-theme"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := m.Delete("omikuji-theme"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestMemoryStore_Writes(t *testing.T) {
	m := NewMemoryStore()
	for i := 0; i < 3; i++ {
		if err := m.Set("k", "v"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	}
	if m.Writes() != 3 {
		t.Errorf("Writes() = %d, want 3", m.Writes())
	}
}

func TestNewMemoryStoreWith(t *testing.T) {
	seed := map[string]string{"b": "2", "a": "1"}
	m := NewMemoryStoreWith(seed)

	// Mutating the seed map must not leak into the store
	seed["c"] = "3"

	keys, err := m.Keys()
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if !reflect.DeepEqual(keys, []string{"a", "b"}) {
		t.Errorf("Keys() = %v, want [a b]", keys)
	}
	if m.Writes() != 0 {
		t.Errorf("seeding should not count as writes, got %d", m.Writes())
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	m := NewMemoryStore()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Set("shared", "value")
			_, _ = m.Get("shared")
			_, _ = m.Keys()
		}()
	}
	wg.Wait()

	if m.Writes() != 20 {
		t.Errorf("Writes() = %d, want 20", m.Writes())
	}
}
