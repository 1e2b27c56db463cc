package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	s := Seed()

	require.Len(t, s.Collections, 1)
	def := s.Collections[DefaultCollectionID]
	require.NotNil(t, def)
	assert.Equal(t, DefaultCollectionName, def.Name)
	assert.Equal(t, ModeOmikuji, def.Mode)
	assert.Equal(t, DefaultCollectionID, s.SelectedCollectionID)
	assert.Empty(t, s.History)

	require.Len(t, def.Items, SeedItemCount)
	for i, it := range def.Items {
		n := i + 1
		assert.Equal(t, int64(n), it.ID)
		if n%2 == 0 {
			assert.Contains(t, it.Content, "(Even)", "item %d", n)
		} else {
			assert.Contains(t, it.Content, "(Odd)", "item %d", n)
		}
	}
	assert.Equal(t, "No.4 (Even)", def.Items[3].Content)
	assert.Equal(t, "No.5 (Odd)", def.Items[4].Content)
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "omikuji", want: ModeOmikuji},
		{in: "Dice", want: ModeDice},
		{in: " cards ", want: ModeCards},
		{in: "roulette", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMode_OrDefaultAndNext(t *testing.T) {
	assert.Equal(t, ModeOmikuji, Mode("").OrDefault())
	assert.Equal(t, ModeOmikuji, Mode("weird").OrDefault())
	assert.Equal(t, ModeDice, ModeDice.OrDefault())

	assert.Equal(t, ModeDice, ModeOmikuji.Next())
	assert.Equal(t, ModeCards, ModeDice.Next())
	assert.Equal(t, ModeOmikuji, ModeCards.Next())
	assert.Equal(t, ModeDice, Mode("").Next())
}

func TestEnsureDefault_RepairsDecodedState(t *testing.T) {
	s := &State{
		Collections: map[string]*Collection{
			"group_1": {Name: "Lunch", Items: nil},
			"broken":  nil,
		},
	}

	s.EnsureDefault()

	assert.Equal(t, DefaultCollectionID, s.SelectedCollectionID)
	assert.NotNil(t, s.History)
	require.Contains(t, s.Collections, DefaultCollectionID)
	assert.NotContains(t, s.Collections, "broken")

	lunch := s.Collections["group_1"]
	assert.Equal(t, "group_1", lunch.ID)
	assert.Equal(t, ModeOmikuji, lunch.Mode)
	assert.NotNil(t, lunch.Items)
}

func TestResolve_DanglingSelectionFallsBackToDefault(t *testing.T) {
	s := Seed()
	s.SelectedCollectionID = "group_gone"

	c := s.Selected()
	require.NotNil(t, c)
	assert.Equal(t, DefaultCollectionID, c.ID)

	assert.Equal(t, DefaultCollectionID, s.Resolve("").ID)
}

func TestResolve_MissingDefaultIsRecreated(t *testing.T) {
	s := &State{Collections: map[string]*Collection{}}

	c := s.Resolve("anything")
	require.NotNil(t, c)
	assert.Equal(t, DefaultCollectionID, c.ID)
}

func TestOrdered(t *testing.T) {
	s := NewState()
	s.Collections["group_b"] = &Collection{ID: "group_b"}
	s.Collections["group_a"] = &Collection{ID: "group_a"}

	ordered := s.Ordered()
	ids := make([]string, 0, len(ordered))
	for _, c := range ordered {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{DefaultCollectionID, "group_a", "group_b"}, ids)
}

func TestClone_IsDeep(t *testing.T) {
	s := Seed()
	s.History = append(s.History, HistoryEntry{ResultText: "x"})

	c := s.Clone()
	c.Collections[DefaultCollectionID].Items[0].Content = "changed"
	c.Collections[DefaultCollectionID].Name = "Renamed"
	c.History[0].ResultText = "y"

	assert.Equal(t, "No.1 (Odd)", s.Collections[DefaultCollectionID].Items[0].Content)
	assert.Equal(t, DefaultCollectionName, s.Collections[DefaultCollectionID].Name)
	assert.Equal(t, "x", s.History[0].ResultText)
}

func TestMaxItemID(t *testing.T) {
	c := &Collection{Items: []Item{{ID: 3}, {ID: 17}, {ID: 5}}}
	assert.Equal(t, int64(17), c.MaxItemID())
	assert.Equal(t, int64(0), (&Collection{}).MaxItemID())
}
