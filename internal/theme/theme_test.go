package theme

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yiblet/omikuji/internal/store"
	"github.com/yiblet/omikuji/internal/store/memstore"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Theme
		wantErr bool
	}{
		{"light", Light, false},
		{" DARK ", Dark, false},
		{"system", System, false},
		{"sepia", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownTheme)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNext(t *testing.T) {
	assert.Equal(t, Light, System.Next())
	assert.Equal(t, Dark, Light.Next())
	assert.Equal(t, System, Dark.Next())
	assert.Equal(t, System, Theme("bogus").Next())
}

func TestLoadSave(t *testing.T) {
	s := memstore.NewMemoryStore()

	got, err := Load(s)
	require.NoError(t, err)
	assert.Equal(t, System, got)

	require.NoError(t, Save(s, Dark))
	raw, err := s.Get(Key)
	require.NoError(t, err)
	assert.Equal(t, "dark", raw)

	got, err = Load(s)
	require.NoError(t, err)
	assert.Equal(t, Dark, got)

	assert.ErrorIs(t, Save(s, Theme("sepia")), ErrUnknownTheme)
}

func TestLoad_GarbageIsSystem(t *testing.T) {
	s := memstore.NewMemoryStoreWith(map[string]string{Key: "neon"})
	got, err := Load(s)
	require.NoError(t, err)
	assert.Equal(t, System, got)
}

type brokenStore struct{ store.Store }

func (brokenStore) Get(string) (string, error) { return "", errors.New("io error") }

func TestLoad_ReadError(t *testing.T) {
	_, err := Load(brokenStore{})
	assert.Error(t, err)
}

func TestPaletteFor(t *testing.T) {
	assert.Equal(t, lightPalette, PaletteFor(Light))
	assert.Equal(t, darkPalette, PaletteFor(Dark))
	assert.True(t, Dark.Dark())
	assert.False(t, Light.Dark())
}
