package tui

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/yiblet/omikuji/internal/clipboard"
	"github.com/yiblet/omikuji/internal/collections"
	"github.com/yiblet/omikuji/internal/draw"
	"github.com/yiblet/omikuji/internal/haptics"
	"github.com/yiblet/omikuji/internal/model"
	"github.com/yiblet/omikuji/internal/presets"
	"github.com/yiblet/omikuji/internal/store"
	"github.com/yiblet/omikuji/internal/theme"
)

// Tab is one of the top-level screens
type Tab int

const (
	DrawTab Tab = iota
	CollectionsTab
	HistoryTab
)

var tabNames = []string{"Draw", "Collections", "History"}

func (t Tab) String() string {
	if int(t) < len(tabNames) {
		return tabNames[t]
	}
	return "?"
}

// PaneType represents which pane of the Collections tab is focused
type PaneType int

const (
	CollectionsPane PaneType = iota
	ItemsPane
)

// UIMode represents the current modal state of the application
type UIMode int

const (
	NormalMode UIMode = iota
	InputMode
	ConfirmMode
	MessageMode
	HelpMode
	PresetMode
)

// confirmAction is what a confirmation modal does on "y"
type confirmAction int

const (
	confirmNone confirmAction = iota
	confirmDeleteCollection
	confirmClearHistory
)

const flashDuration = 2 * time.Second

// AppMsg represents messages that the app component handles
type AppMsg interface {
	isAppMsg()
}

type flashExpiredMsg struct{}

func (flashExpiredMsg) isAppMsg() {}

// Options wires the TUI to the rest of the program.
type Options struct {
	Manager   *collections.Manager
	Store     store.Store // theme persistence; may be nil
	Theme     theme.Theme
	Clipboard clipboard.Clipboard
	Haptics   haptics.Bridge
	Timing    draw.Timing
	Logger    *zap.Logger
	// Scheduler overrides the bubbletea tick scheduler.
	Scheduler draw.Scheduler
}

// AppModel orchestrates all sub-models
type AppModel struct {
	Width       int
	Height      int
	Tab         Tab
	ActivePane  PaneType
	CurrentMode UIMode

	// Sub-models
	CollectionList ListModel
	ItemList       ListModel
	HistoryList    ListModel
	PresetList     ListModel
	Input          InputModel
	Modal          ModalModel

	// Last drawn result, shown on the Draw tab
	LastResult draw.Result

	FlashMessage string
	FlashExpiry  time.Time
	FlashError   bool

	Theme  theme.Theme
	Styles Styles

	manager   *collections.Manager
	store     store.Store
	clipboard clipboard.Clipboard
	logger    *zap.Logger
	ticks     *teaScheduler
	seq       *draw.Sequencer

	pending       confirmAction
	pendingTarget string
}

// New builds the app model. Manager must be non-nil.
func New(opts Options) *AppModel {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Timing == (draw.Timing{}) {
		opts.Timing = draw.DefaultTiming()
	}

	a := &AppModel{
		Width:          100,
		Height:         24,
		Tab:            DrawTab,
		ActivePane:     CollectionsPane,
		CurrentMode:    NormalMode,
		CollectionList: NewListModel(30, 16),
		ItemList:       NewListModel(68, 16),
		HistoryList:    NewListModel(98, 16),
		PresetList:     NewListModel(60, 16),
		Modal:          NewModalModel(),
		Theme:          opts.Theme,
		Styles:         NewStyles(opts.Theme),
		manager:        opts.Manager,
		store:          opts.Store,
		clipboard:      opts.Clipboard,
		logger:         logger,
	}

	sched := opts.Scheduler
	if sched == nil {
		a.ticks = &teaScheduler{}
		sched = a.ticks
	}
	a.seq = draw.NewSequencer(sched, opts.Timing, draw.Hooks{
		OnShake:  func() { a.LastResult = nil },
		OnReveal: func(r draw.Result) { a.LastResult = r },
		OnError:  func(err error) { a.showError("Draw failed", err) },
	}, opts.Haptics)

	a.syncCursor()
	return a
}

// Init initializes the app model (required by tea.Model interface)
func (a *AppModel) Init() tea.Cmd {
	return nil
}

// Phase reports the draw sequencer's phase.
func (a *AppModel) Phase() draw.Phase {
	return a.seq.Phase()
}

// Update handles app-level messages and routes to appropriate sub-models
func (a *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(m.Width, m.Height)
		return a, nil
	case tea.KeyMsg:
		next, cmd := a.handleKeyPress(m)
		return next, tea.Batch(cmd, a.flush())
	case scheduledMsg:
		m.fn()
		return a, a.flush()
	case flashExpiredMsg:
		if !time.Now().Before(a.FlashExpiry) {
			a.FlashMessage = ""
			a.FlashExpiry = time.Time{}
			a.FlashError = false
		}
		return a, nil
	}
	return a, nil
}

func (a *AppModel) flush() tea.Cmd {
	if a.ticks == nil {
		return nil
	}
	return a.ticks.Flush()
}

// resize lays out the panes for a new window size
func (a *AppModel) resize(width, height int) {
	a.Width = max(width, 40)
	a.Height = max(height, 10)

	// tab bar, blank line, pane border and title, status line
	rows := max(a.Height-8, 1)

	leftWidth := min(32, a.Width/3)
	a.CollectionList.Update(ResizeListMsg{Width: leftWidth, Height: rows})
	a.ItemList.Update(ResizeListMsg{Width: a.Width - leftWidth, Height: rows})
	a.HistoryList.Update(ResizeListMsg{Width: a.Width, Height: rows})
	a.PresetList.Update(ResizeListMsg{Width: min(a.Width, 72), Height: rows})
}

// handleKeyPress processes key press events using mode-first architecture
func (a *AppModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.CurrentMode {
	case InputMode:
		return a.handleInputModeKeys(msg)
	case ConfirmMode:
		return a.handleConfirmModeKeys(key)
	case MessageMode:
		a.Modal.Update(HideModalMsg{})
		a.CurrentMode = NormalMode
		return a, nil
	case HelpMode:
		return a.handleHelpModeKeys(key)
	case PresetMode:
		return a.handlePresetModeKeys(key)
	default:
		return a.handleNormalModeKeys(key)
	}
}

// handleHelpModeKeys processes keys when in help mode
func (a *AppModel) handleHelpModeKeys(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "z", "esc", "q":
		a.CurrentMode = NormalMode
	}
	return a, nil
}

// handleNormalModeKeys processes keys when in normal mode
func (a *AppModel) handleNormalModeKeys(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "esc":
		return a, tea.Quit
	case "z":
		a.CurrentMode = HelpMode
		return a, nil
	case "t":
		return a, a.cycleTheme()
	case "1":
		a.switchTab(DrawTab)
		return a, nil
	case "2":
		a.switchTab(CollectionsTab)
		return a, nil
	case "3":
		a.switchTab(HistoryTab)
		return a, nil
	case "shift+tab":
		a.switchTab((a.Tab + Tab(len(tabNames)) - 1) % Tab(len(tabNames)))
		return a, nil
	}

	switch a.Tab {
	case DrawTab:
		return a.handleDrawKeys(key)
	case CollectionsTab:
		return a.handleCollectionsKeys(key)
	case HistoryTab:
		return a.handleHistoryKeys(key)
	}
	return a, nil
}

func (a *AppModel) switchTab(t Tab) {
	a.Tab = t
	a.ActivePane = CollectionsPane
	a.syncCursor()
}

// handleDrawKeys processes keys on the Draw tab
func (a *AppModel) handleDrawKeys(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "tab":
		a.switchTab(CollectionsTab)
	case " ", "space", "enter":
		a.seq.Trigger(a.manager.Draw)
	case "y":
		return a, a.copyResult()
	}
	return a, nil
}

// handleHistoryKeys processes keys on the History tab
func (a *AppModel) handleHistoryKeys(key string) (tea.Model, tea.Cmd) {
	maxIndex := len(a.manager.History()) - 1
	switch key {
	case "tab":
		a.switchTab(DrawTab)
	case "up", "k":
		a.HistoryList.Update(NavigateUpMsg{})
	case "down", "j":
		a.HistoryList.Update(NavigateDownMsg{MaxIndex: maxIndex})
	case "g":
		a.HistoryList.Update(GoToTopMsg{})
	case "G":
		a.HistoryList.Update(GoToBottomMsg{MaxIndex: maxIndex})
	case "C":
		if maxIndex < 0 {
			return a, a.setFlashMessage("History is already empty")
		}
		a.confirm(confirmClearHistory, "", ShowClearHistoryConfirmation(maxIndex+1))
	}
	return a, nil
}

// handleCollectionsKeys processes keys on the Collections tab
func (a *AppModel) handleCollectionsKeys(key string) (tea.Model, tea.Cmd) {
	cols := a.manager.Collections()
	viewed := a.viewedCollection()

	switch key {
	case "tab":
		if a.ActivePane == CollectionsPane {
			a.ActivePane = ItemsPane
		} else {
			a.ActivePane = CollectionsPane
		}
		return a, nil
	case "h", "left":
		a.ActivePane = CollectionsPane
		return a, nil
	case "l", "right":
		a.ActivePane = ItemsPane
		return a, nil
	case "up", "k", "down", "j", "g", "G":
		a.navigate(key, len(cols), len(viewed.Items))
		return a, nil
	case "enter":
		if err := a.manager.Select(viewed.ID); err != nil {
			a.showError("Select failed", err)
			return a, nil
		}
		return a, a.setFlashMessage(fmt.Sprintf("Drawing from %s", viewed.Name))
	case "a":
		a.startInput(StartInputMsg{Prompt: "New collection name", Purpose: inputAddCollection})
		return a, nil
	case "r":
		a.startInput(StartInputMsg{
			Prompt:  "Rename collection",
			Value:   viewed.Name,
			Purpose: inputRenameCollection,
			Target:  viewed.ID,
		})
		return a, nil
	case "D":
		if viewed.ID == model.DefaultCollectionID {
			a.showError("Cannot delete", collections.ErrProtectedCollection)
			return a, nil
		}
		a.confirm(confirmDeleteCollection, viewed.ID, ShowDeleteCollectionConfirmation(viewed.Name, len(viewed.Items)))
		return a, nil
	case "m":
		if err := a.manager.SetMode(viewed.ID, viewed.Mode.Next()); err != nil {
			a.showError("Mode change failed", err)
			return a, nil
		}
		return a, a.setFlashMessage(fmt.Sprintf("%s is now %s", viewed.Name, draw.Title(viewed.Mode.Next())))
	case "i":
		if limit := a.manager.MaxItems(); limit > 0 && len(viewed.Items) >= limit {
			a.showError("Cannot add item", fmt.Errorf("%w (%d)", collections.ErrCapacityExceeded, limit))
			return a, nil
		}
		a.startInput(StartInputMsg{Prompt: "New item", Purpose: inputAddItem, Target: viewed.ID})
		return a, nil
	case "e":
		if a.ActivePane != ItemsPane || len(viewed.Items) == 0 {
			return a, nil
		}
		idx := a.ItemList.Cursor
		a.startInput(StartInputMsg{
			Prompt:  fmt.Sprintf("Edit item %d", idx+1),
			Value:   viewed.Items[idx].Content,
			Purpose: inputEditItem,
			Target:  viewed.ID,
			Index:   idx,
		})
		return a, nil
	case "x":
		if a.ActivePane != ItemsPane || len(viewed.Items) == 0 {
			return a, nil
		}
		if err := a.manager.RemoveItem(viewed.ID, a.ItemList.Cursor); err != nil {
			a.showError("Remove failed", err)
			return a, nil
		}
		a.ItemList.Clamp(len(viewed.Items) - 1)
		return a, a.setFlashMessage("Item removed")
	case "p":
		a.PresetList.Update(GoToTopMsg{})
		a.CurrentMode = PresetMode
		return a, nil
	}
	return a, nil
}

// navigate moves the cursor of the focused Collections-tab pane
func (a *AppModel) navigate(key string, numCollections, numItems int) {
	list := &a.CollectionList
	maxIndex := numCollections - 1
	if a.ActivePane == ItemsPane {
		list = &a.ItemList
		maxIndex = numItems - 1
	}

	switch key {
	case "up", "k":
		list.Update(NavigateUpMsg{})
	case "down", "j":
		list.Update(NavigateDownMsg{MaxIndex: maxIndex})
	case "g":
		list.Update(GoToTopMsg{})
	case "G":
		list.Update(GoToBottomMsg{MaxIndex: maxIndex})
	}

	if a.ActivePane == CollectionsPane {
		a.ItemList.Update(GoToTopMsg{})
	}
}

// handlePresetModeKeys processes keys in the preset picker
func (a *AppModel) handlePresetModeKeys(key string) (tea.Model, tea.Cmd) {
	all := presets.All()
	switch key {
	case "esc", "q", "p":
		a.CurrentMode = NormalMode
	case "up", "k":
		a.PresetList.Update(NavigateUpMsg{})
	case "down", "j":
		a.PresetList.Update(NavigateDownMsg{MaxIndex: len(all) - 1})
	case "enter":
		p := all[a.PresetList.Cursor]
		a.CurrentMode = NormalMode
		if err := a.manager.Select(a.viewedCollection().ID); err != nil {
			a.showError("Preset failed", err)
			return a, nil
		}
		c, err := a.manager.ApplyPreset(p.Name)
		if err != nil {
			a.showError("Preset failed", err)
			return a, nil
		}
		a.ItemList.Update(GoToTopMsg{})
		return a, a.setFlashMessage(fmt.Sprintf("Applied %s to %s", p.Title, c.Name))
	case "n":
		p := all[a.PresetList.Cursor]
		a.CurrentMode = NormalMode
		c, err := a.manager.CreateFromPreset(p.Name)
		if err != nil {
			a.showError("Preset failed", err)
			return a, nil
		}
		a.focusCollection(c.ID)
		return a, a.setFlashMessage(fmt.Sprintf("Created %s", c.Name))
	}
	return a, nil
}

// handleConfirmModeKeys processes keys while a confirmation modal is shown
func (a *AppModel) handleConfirmModeKeys(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "Y":
		action, target := a.pending, a.pendingTarget
		a.closeModal()
		return a, a.runConfirmed(action, target)
	case "n", "N", "esc":
		a.closeModal()
	}
	return a, nil
}

func (a *AppModel) runConfirmed(action confirmAction, target string) tea.Cmd {
	switch action {
	case confirmDeleteCollection:
		if err := a.manager.DeleteCollection(target); err != nil {
			a.showError("Delete failed", err)
			return nil
		}
		a.CollectionList.Clamp(len(a.manager.Collections()))
		a.ItemList.Update(GoToTopMsg{})
		return a.setFlashMessage("Collection deleted")
	case confirmClearHistory:
		if err := a.manager.ClearHistory(); err != nil {
			a.showError("Clear failed", err)
			return nil
		}
		a.HistoryList.Update(GoToTopMsg{})
		return a.setFlashMessage("History cleared")
	}
	return nil
}

// handleInputModeKeys processes keys while the text prompt is open
func (a *AppModel) handleInputModeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.Input.Update(CancelInputMsg{})
		a.CurrentMode = NormalMode
		return a, nil
	case tea.KeyEnter:
		in := a.Input
		a.Input.Update(CancelInputMsg{})
		a.CurrentMode = NormalMode
		return a, a.submitInput(in)
	}
	a.Input.edit(msg)
	return a, nil
}

func (a *AppModel) submitInput(in InputModel) tea.Cmd {
	switch in.Purpose {
	case inputAddCollection:
		c, err := a.manager.AddCollection(in.Value)
		if err != nil {
			a.showError("Cannot add collection", err)
			return nil
		}
		a.focusCollection(c.ID)
		return a.setFlashMessage(fmt.Sprintf("Created %s", c.Name))
	case inputRenameCollection:
		if err := a.manager.RenameCollection(in.Target, in.Value); err != nil {
			a.showError("Rename failed", err)
			return nil
		}
		return a.setFlashMessage("Collection renamed")
	case inputAddItem:
		if _, err := a.manager.AddItem(in.Target, in.Value); err != nil {
			a.showError("Cannot add item", err)
			return nil
		}
		c, err := a.manager.Collection(in.Target)
		if err == nil {
			a.ItemList.Update(GoToBottomMsg{MaxIndex: len(c.Items) - 1})
		}
		return a.setFlashMessage("Item added")
	case inputEditItem:
		if err := a.manager.SetItemContent(in.Target, in.Index, in.Value); err != nil {
			a.showError("Edit failed", err)
			return nil
		}
		return a.setFlashMessage("Item updated")
	}
	return nil
}

func (a *AppModel) startInput(msg StartInputMsg) {
	a.Input.Update(msg)
	a.CurrentMode = InputMode
}

func (a *AppModel) confirm(action confirmAction, target string, msg ShowModalMsg) {
	a.pending = action
	a.pendingTarget = target
	a.Modal.Update(msg)
	a.CurrentMode = ConfirmMode
}

func (a *AppModel) closeModal() {
	a.pending = confirmNone
	a.pendingTarget = ""
	a.Modal.Update(HideModalMsg{})
	a.CurrentMode = NormalMode
}

// showError opens a modal that any key dismisses
func (a *AppModel) showError(title string, err error) {
	a.logger.Debug("tui action failed", zap.String("action", title), zap.Error(err))
	a.Input.Update(CancelInputMsg{})
	a.Modal.Update(ShowErrorMsg(title, err))
	a.CurrentMode = MessageMode
}

// viewedCollection is the collection under the Collections-tab cursor
func (a *AppModel) viewedCollection() model.Collection {
	cols := a.manager.Collections()
	if a.CollectionList.Cursor < len(cols) {
		return cols[a.CollectionList.Cursor]
	}
	return a.manager.Active()
}

// focusCollection moves the collections cursor onto id
func (a *AppModel) focusCollection(id string) {
	cols := a.manager.Collections()
	for i, c := range cols {
		if c.ID == id {
			a.CollectionList.Update(JumpToIndexMsg{Index: i, MaxIndex: len(cols) - 1})
			break
		}
	}
	a.ItemList.Update(GoToTopMsg{})
}

// syncCursor points the collections cursor at the active collection
func (a *AppModel) syncCursor() {
	if a.manager == nil {
		return
	}
	a.focusCollection(a.manager.ActiveID())
	a.HistoryList.Clamp(len(a.manager.History()))
}

// cycleTheme switches to the next theme and persists it
func (a *AppModel) cycleTheme() tea.Cmd {
	a.Theme = a.Theme.Next()
	a.Styles = NewStyles(a.Theme)
	if a.store != nil {
		if err := theme.Save(a.store, a.Theme); err != nil {
			a.logger.Warn("failed to save theme", zap.Error(err))
		}
	}
	return a.setFlashMessage(fmt.Sprintf("Theme: %s", a.Theme))
}

// copyResult copies the last drawn result to the clipboard
func (a *AppModel) copyResult() tea.Cmd {
	if a.LastResult == nil {
		return a.setFlashMessage("Nothing drawn yet")
	}
	msg, err := clipboard.Copy(a.clipboard, a.LastResult.Text())
	if err != nil {
		if !errors.Is(err, clipboard.ErrUnsupported) {
			a.logger.Warn("clipboard write failed", zap.Error(err))
		}
		return a.setErrorFlash(err.Error())
	}
	return a.setFlashMessage(msg)
}

// setFlashMessage sets a flash message that will disappear after a while
func (a *AppModel) setFlashMessage(message string) tea.Cmd {
	a.FlashMessage = message
	a.FlashExpiry = time.Now().Add(flashDuration)
	a.FlashError = false
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashExpiredMsg{}
	})
}

func (a *AppModel) setErrorFlash(message string) tea.Cmd {
	cmd := a.setFlashMessage(message)
	a.FlashError = true
	return cmd
}
