// Package collections owns the in-memory state and every mutation on it.
// Each successful mutation writes the whole state through the Persister.
package collections

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yiblet/omikuji/internal/draw"
	"github.com/yiblet/omikuji/internal/model"
	"github.com/yiblet/omikuji/internal/presets"
)

const (
	DefaultMaxItems     = 24
	DefaultHistoryLimit = 50

	// IDPrefix starts every generated collection id.
	IDPrefix = "group_"
)

var (
	ErrProtectedCollection = errors.New("the default collection cannot be deleted")
	ErrCapacityExceeded    = errors.New("collection is full")
	ErrIndexOutOfRange     = errors.New("item index out of range")
	ErrCollectionNotFound  = errors.New("collection not found")
	ErrEmptyName           = errors.New("collection name must not be empty")
)

// Persister writes the full state.
type Persister interface {
	Save(state *model.State) error
}

// Manager applies mutations to one State. It is not safe for concurrent
// use; callers drive it from a single goroutine.
type Manager struct {
	state          *model.State
	persister      Persister
	engine         *draw.Engine
	maxItems       int
	historyLimit   int
	historyEnabled bool
	now            func() time.Time
	lastItemID     int64
	logger         *zap.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithMaxItems caps items per collection. Zero removes the cap.
func WithMaxItems(n int) Option {
	return func(m *Manager) {
		if n >= 0 {
			m.maxItems = n
		}
	}
}

// WithHistoryLimit sets how many history entries are kept.
func WithHistoryLimit(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.historyLimit = n
		}
	}
}

// WithHistoryEnabled turns history recording on or off.
func WithHistoryEnabled(enabled bool) Option {
	return func(m *Manager) { m.historyEnabled = enabled }
}

// WithClock replaces time.Now for timestamps and item ids.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithEngine sets the draw engine.
func WithEngine(e *draw.Engine) Option {
	return func(m *Manager) {
		if e != nil {
			m.engine = e
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager wraps a loaded state. A nil state starts from the seed.
func NewManager(state *model.State, p Persister, opts ...Option) *Manager {
	if state == nil {
		state = model.Seed()
	}
	state.EnsureDefault()

	m := &Manager{
		state:          state,
		persister:      p,
		engine:         draw.NewEngine(),
		maxItems:       DefaultMaxItems,
		historyLimit:   DefaultHistoryLimit,
		historyEnabled: true,
		now:            time.Now,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	if len(m.state.History) > m.historyLimit {
		m.state.History = m.state.History[:m.historyLimit]
	}
	return m
}

// MaxItems returns the per-collection item cap, zero meaning unlimited.
func (m *Manager) MaxItems() int {
	return m.maxItems
}

// HistoryLimit returns the configured history limit.
func (m *Manager) HistoryLimit() int {
	return m.historyLimit
}

// State returns a copy of the current state.
func (m *Manager) State() *model.State {
	return m.state.Clone()
}

// ActiveID returns the id of the resolved active collection.
func (m *Manager) ActiveID() string {
	return m.state.Selected().ID
}

// Active returns a copy of the active collection.
func (m *Manager) Active() model.Collection {
	return copyCollection(m.state.Selected())
}

// Collections returns copies of every collection, default first.
func (m *Manager) Collections() []model.Collection {
	ordered := m.state.Ordered()
	out := make([]model.Collection, 0, len(ordered))
	for _, c := range ordered {
		out = append(out, copyCollection(c))
	}
	return out
}

// Collection returns a copy of the collection with the given id. An empty
// id means the active collection.
func (m *Manager) Collection(id string) (model.Collection, error) {
	c, err := m.lookup(id)
	if err != nil {
		return model.Collection{}, err
	}
	return copyCollection(c), nil
}

// History returns the recorded draws, newest first.
func (m *Manager) History() []model.HistoryEntry {
	return append([]model.HistoryEntry{}, m.state.History...)
}

// Select makes id the active collection. Unknown ids select the default.
func (m *Manager) Select(id string) error {
	m.state.SelectedCollectionID = m.state.Resolve(id).ID
	return m.save("select")
}

// AddCollection creates an empty omikuji collection and makes it active.
func (m *Manager) AddCollection(name string) (model.Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Collection{}, ErrEmptyName
	}

	c := &model.Collection{
		ID:    m.newCollectionID(),
		Name:  name,
		Mode:  model.ModeOmikuji,
		Items: []model.Item{},
	}
	m.state.Collections[c.ID] = c
	m.state.SelectedCollectionID = c.ID
	return copyCollection(c), m.save("add collection")
}

// RenameCollection changes a collection's display name. Past history
// entries keep the old name.
func (m *Manager) RenameCollection(id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	c, err := m.lookup(id)
	if err != nil {
		return err
	}
	c.Name = name
	return m.save("rename collection")
}

// DeleteCollection removes a collection. Deleting the active collection
// makes the default active.
func (m *Manager) DeleteCollection(id string) error {
	c, err := m.lookup(id)
	if err != nil {
		return err
	}
	if c.ID == model.DefaultCollectionID {
		return ErrProtectedCollection
	}

	delete(m.state.Collections, c.ID)
	if m.state.SelectedCollectionID == c.ID {
		m.state.SelectedCollectionID = model.DefaultCollectionID
	}
	return m.save("delete collection")
}

// AddItem appends an item with a fresh id. Content is stored verbatim.
func (m *Manager) AddItem(id, content string) (model.Item, error) {
	c, err := m.lookup(id)
	if err != nil {
		return model.Item{}, err
	}
	if m.maxItems > 0 && len(c.Items) >= m.maxItems {
		return model.Item{}, fmt.Errorf("%w: %d of %d items", ErrCapacityExceeded, len(c.Items), m.maxItems)
	}

	item := model.Item{ID: m.nextItemID(c), Content: content}
	c.Items = append(c.Items, item)
	return item, m.save("add item")
}

// RemoveItem deletes the item at index, keeping the order of the rest.
func (m *Manager) RemoveItem(id string, index int) error {
	c, err := m.lookup(id)
	if err != nil {
		return err
	}
	if err := checkIndex(c, index); err != nil {
		return err
	}
	c.Items = append(c.Items[:index], c.Items[index+1:]...)
	return m.save("remove item")
}

// SetItemContent replaces the text of the item at index.
func (m *Manager) SetItemContent(id string, index int, content string) error {
	c, err := m.lookup(id)
	if err != nil {
		return err
	}
	if err := checkIndex(c, index); err != nil {
		return err
	}
	c.Items[index].Content = content
	return m.save("edit item")
}

// SetMode changes how a collection is drawn.
func (m *Manager) SetMode(id string, mode model.Mode) error {
	mode, err := model.ParseMode(string(mode))
	if err != nil {
		return err
	}
	c, err := m.lookup(id)
	if err != nil {
		return err
	}
	c.Mode = mode
	return m.save("set mode")
}

// ApplyPreset replaces the active collection's items and mode with the
// named preset.
func (m *Manager) ApplyPreset(name string) (model.Collection, error) {
	p, err := presets.Get(name)
	if err != nil {
		return model.Collection{}, err
	}

	c := m.state.Selected()
	c.Mode = p.Mode
	c.Items = m.presetItems(c, p)
	return copyCollection(c), m.save("apply preset")
}

// CreateFromPreset adds a new collection filled from the named preset and
// makes it active.
func (m *Manager) CreateFromPreset(name string) (model.Collection, error) {
	p, err := presets.Get(name)
	if err != nil {
		return model.Collection{}, err
	}

	c := &model.Collection{
		ID:    m.newCollectionID(),
		Name:  p.Title,
		Mode:  p.Mode,
		Items: []model.Item{},
	}
	c.Items = m.presetItems(c, p)
	m.state.Collections[c.ID] = c
	m.state.SelectedCollectionID = c.ID
	return copyCollection(c), m.save("create from preset")
}

// Draw draws from the active collection.
func (m *Manager) Draw() (draw.Result, error) {
	return m.DrawFrom("")
}

// DrawFrom draws from the given collection and records the result in the
// history. A failed draw, including one whose history could not be saved,
// leaves the history untouched and returns no result.
func (m *Manager) DrawFrom(id string) (draw.Result, error) {
	c, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	res, err := m.engine.Draw(c)
	if err != nil {
		return nil, err
	}
	if !m.historyEnabled {
		return res, nil
	}

	entry := model.HistoryEntry{
		ResultText:     res.Text(),
		CollectionName: c.Name,
		Timestamp:      m.now().UTC().Format(time.RFC3339),
	}
	history := make([]model.HistoryEntry, 0, len(m.state.History)+1)
	history = append(history, entry)
	history = append(history, m.state.History...)
	if len(history) > m.historyLimit {
		history = history[:m.historyLimit]
	}
	prev := m.state.History
	m.state.History = history
	if err := m.save("draw"); err != nil {
		m.state.History = prev
		return nil, err
	}
	return res, nil
}

// ClearHistory removes every history entry.
func (m *Manager) ClearHistory() error {
	m.state.History = []model.HistoryEntry{}
	return m.save("clear history")
}

func (m *Manager) lookup(id string) (*model.Collection, error) {
	if id == "" {
		return m.state.Selected(), nil
	}
	c, ok := m.state.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCollectionNotFound, id)
	}
	return c, nil
}

func (m *Manager) presetItems(c *model.Collection, p presets.Preset) []model.Item {
	contents := p.Items
	if m.maxItems > 0 && len(contents) > m.maxItems {
		contents = contents[:m.maxItems]
	}
	items := make([]model.Item, 0, len(contents))
	for _, content := range contents {
		items = append(items, model.Item{ID: m.nextItemID(c), Content: content})
	}
	return items
}

// nextItemID derives an id from the millisecond clock, bumped past the
// last id handed out and the collection's current max.
func (m *Manager) nextItemID(c *model.Collection) int64 {
	id := m.now().UnixMilli()
	if id <= m.lastItemID {
		id = m.lastItemID + 1
	}
	if maxID := c.MaxItemID(); id <= maxID {
		id = maxID + 1
	}
	m.lastItemID = id
	return id
}

func (m *Manager) newCollectionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return IDPrefix + id.String()
}

func (m *Manager) save(op string) error {
	if m.persister == nil {
		return nil
	}
	if err := m.persister.Save(m.state); err != nil {
		m.logger.Warn("failed to persist state", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	m.logger.Debug("state persisted", zap.String("op", op))
	return nil
}

func checkIndex(c *model.Collection, index int) error {
	if index < 0 || index >= len(c.Items) {
		return fmt.Errorf("%w: %d (collection has %d items)", ErrIndexOutOfRange, index, len(c.Items))
	}
	return nil
}

func copyCollection(c *model.Collection) model.Collection {
	out := *c
	out.Items = append([]model.Item{}, c.Items...)
	return out
}
