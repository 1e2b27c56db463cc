package migrate

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/yiblet/omikuji/internal/codec"
	"github.com/yiblet/omikuji/internal/model"
)

// Storage keys of previously shipped layouts. They are read during
// migration and never written or deleted.
const (
	GroupedKey = "omikuji-data-v3"
	FlatKey    = "omikuji-lots-v2"
)

// Schema describes one persisted layout: where it lives, how to recognise
// its bytes, and how to upgrade them into the current state.
type Schema interface {
	Name() string
	Key() string
	Detect(raw []byte) bool
	Upgrade(raw []byte) (*model.State, error)
}

// Schemas is the shipped chain, newest first.
var Schemas = []Schema{CurrentSchema{}, GroupedSchema{}, FlatSchema{}}

// CurrentSchema is the live layout: selectedCollectionId, collections and
// history.
type CurrentSchema struct{}

func (CurrentSchema) Name() string { return "current" }
func (CurrentSchema) Key() string  { return codec.CurrentKey }

func (CurrentSchema) Detect(raw []byte) bool {
	obj, ok := objectKeys(raw)
	if !ok {
		return false
	}
	_, has := obj["collections"]
	return has
}

func (CurrentSchema) Upgrade(raw []byte) (*model.State, error) {
	return codec.Decode(raw)
}

// GroupedSchema is the layout that introduced named groups but had no
// history and no per-group mode. Late writes under this key sometimes
// carried both; they are kept when present.
type GroupedSchema struct{}

type groupedDoc struct {
	SelectedGroupID string                       `json:"selectedGroupId"`
	Groups          map[string]*model.Collection `json:"groups"`
	History         []model.HistoryEntry         `json:"history"`
}

func (GroupedSchema) Name() string { return "grouped" }
func (GroupedSchema) Key() string  { return GroupedKey }

func (GroupedSchema) Detect(raw []byte) bool {
	obj, ok := objectKeys(raw)
	if !ok {
		return false
	}
	_, has := obj["groups"]
	return has
}

func (GroupedSchema) Upgrade(raw []byte) (*model.State, error) {
	var doc groupedDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode grouped layout: %w", err)
	}
	state := &model.State{
		SelectedCollectionID: doc.SelectedGroupID,
		Collections:          doc.Groups,
		History:              doc.History,
	}
	state.EnsureDefault()
	return state, nil
}

// FlatSchema is the original single list of {id, content} with no
// grouping; it becomes the default collection's items.
type FlatSchema struct{}

func (FlatSchema) Name() string { return "flat" }
func (FlatSchema) Key() string  { return FlatKey }

func (FlatSchema) Detect(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

func (FlatSchema) Upgrade(raw []byte) (*model.State, error) {
	var items []model.Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to decode flat layout: %w", err)
	}
	if items == nil {
		items = []model.Item{}
	}
	state := model.NewState()
	state.Collections[model.DefaultCollectionID].Items = items
	return state, nil
}

// objectKeys reports the top-level keys of a JSON object.
func objectKeys(raw []byte) (map[string]json.RawMessage, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}
	return obj, true
}
