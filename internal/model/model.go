// Package model holds the persisted omikuji state: collections of drawable
// items, the active selection, and the draw history.
package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// DefaultCollectionID is reserved for the collection that always exists.
const DefaultCollectionID = "default"

// DefaultCollectionName is the display name of the seeded default collection.
const DefaultCollectionName = "Standard"

// SeedItemCount is how many placeholder items a fresh store starts with.
const SeedItemCount = 10

var ErrUnknownMode = errors.New("unknown mode")

// Mode selects which draw behavior a collection uses.
type Mode string

const (
	ModeOmikuji Mode = "omikuji"
	ModeDice    Mode = "dice"
	ModeCards   Mode = "cards"
)

// Modes lists every mode in display order.
var Modes = []Mode{ModeOmikuji, ModeDice, ModeCards}

// ParseMode converts a user-supplied name into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeOmikuji:
		return ModeOmikuji, nil
	case ModeDice:
		return ModeDice, nil
	case ModeCards:
		return ModeCards, nil
	}
	return "", fmt.Errorf("%w: %q (must be omikuji, dice or cards)", ErrUnknownMode, s)
}

// OrDefault returns the mode, treating empty or unknown values as omikuji.
func (m Mode) OrDefault() Mode {
	switch m {
	case ModeOmikuji, ModeDice, ModeCards:
		return m
	}
	return ModeOmikuji
}

// Next cycles to the following mode.
func (m Mode) Next() Mode {
	for i, mode := range Modes {
		if mode == m.OrDefault() {
			return Modes[(i+1)%len(Modes)]
		}
	}
	return ModeOmikuji
}

// Item is one drawable entry. IDs are unique within a collection only.
type Item struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
}

// Collection is a named, independently configured list of items.
type Collection struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Mode  Mode   `json:"mode"`
	Items []Item `json:"items"`
}

// MaxItemID returns the largest item id in the collection, or 0.
func (c *Collection) MaxItemID() int64 {
	var maxID int64
	for _, it := range c.Items {
		if it.ID > maxID {
			maxID = it.ID
		}
	}
	return maxID
}

// HistoryEntry records one draw. CollectionName is captured at draw time
// so it survives later renames or deletion.
type HistoryEntry struct {
	ResultText     string `json:"resultText"`
	CollectionName string `json:"collectionName"`
	Timestamp      string `json:"timestamp"`
}

// State is the root persisted object. History is most-recent-first.
type State struct {
	SelectedCollectionID string                 `json:"selectedCollectionId"`
	Collections          map[string]*Collection `json:"collections"`
	History              []HistoryEntry         `json:"history"`
}

// NewState returns a state holding only an empty default collection.
func NewState() *State {
	s := &State{
		SelectedCollectionID: DefaultCollectionID,
		Collections:          map[string]*Collection{},
		History:              []HistoryEntry{},
	}
	s.EnsureDefault()
	return s
}

// Seed returns the state used on first run: the default collection with
// SeedItemCount placeholder items alternating by 1-based parity.
func Seed() *State {
	s := NewState()
	def := s.Collections[DefaultCollectionID]
	def.Items = SeedItems(SeedItemCount)
	return s
}

// SeedItems builds n placeholder items with ids 1..n.
func SeedItems(n int) []Item {
	items := make([]Item, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, Item{ID: int64(i), Content: SeedLabel(i)})
	}
	return items
}

// SeedLabel is the placeholder text for the 1-based index n.
func SeedLabel(n int) string {
	if n%2 == 0 {
		return fmt.Sprintf("No.%d (Even)", n)
	}
	return fmt.Sprintf("No.%d (Odd)", n)
}

// EnsureDefault repairs the structural invariants after decoding: the
// default collection exists, maps and slices are non-nil, and every
// collection has a known mode and its map key as id.
func (s *State) EnsureDefault() {
	if s.Collections == nil {
		s.Collections = map[string]*Collection{}
	}
	if s.History == nil {
		s.History = []HistoryEntry{}
	}
	for id, c := range s.Collections {
		if c == nil {
			delete(s.Collections, id)
			continue
		}
		c.ID = id
		c.Mode = c.Mode.OrDefault()
		if c.Items == nil {
			c.Items = []Item{}
		}
	}
	if _, ok := s.Collections[DefaultCollectionID]; !ok {
		s.Collections[DefaultCollectionID] = &Collection{
			ID:    DefaultCollectionID,
			Name:  DefaultCollectionName,
			Mode:  ModeOmikuji,
			Items: []Item{},
		}
	}
	if s.SelectedCollectionID == "" {
		s.SelectedCollectionID = DefaultCollectionID
	}
}

// Resolve returns the collection with the given id, or the default
// collection when the id is empty, unknown or dangling.
func (s *State) Resolve(id string) *Collection {
	if c, ok := s.Collections[id]; ok {
		return c
	}
	if def, ok := s.Collections[DefaultCollectionID]; ok {
		return def
	}
	s.EnsureDefault()
	return s.Collections[DefaultCollectionID]
}

// Selected resolves the active collection.
func (s *State) Selected() *Collection {
	return s.Resolve(s.SelectedCollectionID)
}

// Lookup returns the collection with exactly this id.
func (s *State) Lookup(id string) (*Collection, bool) {
	c, ok := s.Collections[id]
	return c, ok
}

// Ordered returns the collections with the default first, then by id.
// Generated ids are time-ordered, so this is creation order.
func (s *State) Ordered() []*Collection {
	out := make([]*Collection, 0, len(s.Collections))
	for _, c := range s.Collections {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ID == DefaultCollectionID {
			return out[j].ID != DefaultCollectionID
		}
		if out[j].ID == DefaultCollectionID {
			return false
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	out := &State{
		SelectedCollectionID: s.SelectedCollectionID,
		Collections:          make(map[string]*Collection, len(s.Collections)),
		History:              append([]HistoryEntry{}, s.History...),
	}
	for id, c := range s.Collections {
		cc := *c
		cc.Items = append([]Item{}, c.Items...)
		out.Collections[id] = &cc
	}
	return out
}
