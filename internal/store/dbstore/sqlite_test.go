package dbstore

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/yiblet/omikuji/internal/store"
)

// setupTestDB creates a temporary database for testing
func setupTestDB(t *testing.T) (*SQLiteStore, func()) {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	st, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}

	cleanup := func() {
		st.Close()
	}

	return st, cleanup
}

func TestSQLiteStore_ImplementsStore(t *testing.T) {
	var _ store.Store = (*SQLiteStore)(nil)
}

// TestNewSQLiteStore tests database initialization
func TestNewSQLiteStore(t *testing.T) {
	st, cleanup := setupTestDB(t)
	defer cleanup()

	if st == nil {
		t.Fatal("expected store to be created")
	}
	if !strings.HasSuffix(st.Path(), "test.db") {
		t.Errorf("unexpected path %s", st.Path())
	}

	keys, err := st.Keys()
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("expected empty store, got keys %v", keys)
	}
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	st, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := st.Get("omikuji-data-v4")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStore_SetAndGet(t *testing.T) {
	st, cleanup := setupTestDB(t)
	defer cleanup()

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "json document", key: "omikuji-data-v4", value: `{"selectedCollectionId":"default"}`},
		{name: "scalar", key: "omikuji-theme", value: "dark"},
		{name: "empty value", key: "blank", value: ""},
		{name: "unicode", key: "omikuji-lots-v2", value: `[{"id":1,"content":"大吉"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := st.Set(tt.key, tt.value); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			got, err := st.Get(tt.key)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got != tt.value {
				t.Errorf("Get() = %q, want %q", got, tt.value)
			}
		})
	}
}

func TestSQLiteStore_SetOverwrites(t *testing.T) {
	st, cleanup := setupTestDB(t)
	defer cleanup()

	if err := st.Set("omikuji-theme", "light"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := st.Set("omikuji-theme", "dark"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := st.Get("omikuji-theme")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "dark" {
		t.Errorf("expected overwritten value dark, got %s", got)
	}

	keys, err := st.Keys()
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if len(keys) != 1 {
		t.Errorf("expected a single key after overwrite, got %v", keys)
	}
}

func TestSQLiteStore_Delete(t *testing.T) {
	st, cleanup := setupTestDB(t)
	defer cleanup()

	if err := st.Set("k", "v"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := st.Delete("k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := st.Get("k"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := st.Delete("k"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestSQLiteStore_KeysSorted(t *testing.T) {
	st, cleanup := setupTestDB(t)
	defer cleanup()

	for _, k := range []string{"omikuji-theme", "omikuji-data-v4", "omikuji-lots-v2"} {
		if err := st.Set(k, "x"); err != nil {
			t.Fatalf("Set(%s) error = %v", k, err)
		}
	}

	keys, err := st.Keys()
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	want := []string{"omikuji-data-v4", "omikuji-lots-v2", "omikuji-theme"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("Keys() = %v, want %v", keys, want)
	}
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reopen.db")

	st, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	if err := st.Set("omikuji-theme", "light"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get("omikuji-theme")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "light" {
		t.Errorf("expected light after reopen, got %s", got)
	}
}
