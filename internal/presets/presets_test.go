package presets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yiblet/omikuji/internal/model"
)

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"deck", "fortune", "restaurant", "weekday", "yesno"}, Names())
	assert.Len(t, All(), len(Names()))
}

func TestGet(t *testing.T) {
	p, err := Get("Restaurant")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Pizza", "Sushi", "Burger", "Pasta", "Salad",
		"Chinese", "Tacos", "Steak", "Ramen", "Curry",
	}, p.Items)
	assert.Equal(t, model.ModeOmikuji, p.Mode)
}

func TestGet_Unknown(t *testing.T) {
	_, err := Get("lottery")
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestGet_ReturnsCopy(t *testing.T) {
	p, err := Get("yesno")
	require.NoError(t, err)
	p.Items[0] = "changed"

	again, err := Get("yesno")
	require.NoError(t, err)
	assert.Equal(t, "Yes", again.Items[0])
}

func TestDeck(t *testing.T) {
	p, err := Get("deck")
	require.NoError(t, err)
	assert.Equal(t, model.ModeCards, p.Mode)
	require.Len(t, p.Items, 52)

	seen := map[string]bool{}
	for _, c := range p.Items {
		assert.False(t, seen[c], "duplicate card %q", c)
		seen[c] = true
	}
	assert.True(t, seen["A of Spades"])
	assert.True(t, seen["10 of Hearts"])
	assert.True(t, seen["K of Clubs"])
}
