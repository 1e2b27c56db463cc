package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/yiblet/omikuji/internal/draw"
	"github.com/yiblet/omikuji/internal/model"
	"github.com/yiblet/omikuji/internal/presets"
)

// View method for tea.Model compatibility
func (a *AppModel) View() string {
	return AppView(a)
}

// AppView renders the complete application
func AppView(a *AppModel) string {
	if a.Width == 0 {
		return "Initializing..."
	}

	var body string
	switch {
	case a.CurrentMode == HelpMode:
		body = renderHelpView(a)
	case a.CurrentMode == PresetMode:
		body = renderPresetView(a)
	case a.Tab == CollectionsTab:
		body = renderCollectionsView(a)
	case a.Tab == HistoryTab:
		body = renderHistoryView(a)
	default:
		body = renderDrawView(a)
	}

	view := renderTabBar(a) + "\n\n" + body + "\n\n" + renderStatusLine(a)

	if a.Modal.Active {
		return ModalView(a.Modal, view, a.Width, a.Height, a.Styles)
	}
	return view
}

// renderTabBar renders the numbered tabs and the theme indicator
func renderTabBar(a *AppModel) string {
	var tabs []string
	for i, name := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if Tab(i) == a.Tab {
			tabs = append(tabs, a.Styles.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, a.Styles.Tab.Render(label))
		}
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	indicator := a.Styles.Muted.Render("theme: " + string(a.Theme))
	gap := max(a.Width-lipgloss.Width(bar)-lipgloss.Width(indicator), 1)
	return bar + strings.Repeat(" ", gap) + indicator
}

// renderDrawView renders the stick for the active collection
func renderDrawView(a *AppModel) string {
	active := a.manager.Active()
	mode := active.Mode.OrDefault()

	header := a.Styles.Title.Render(active.Name) + "  " +
		a.Styles.Muted.Render(fmt.Sprintf("%s · %d %s", draw.Title(mode), len(active.Items), pluralize(len(active.Items), "item", "items")))

	var stick, caption string
	switch a.seq.Phase() {
	case draw.Shaking:
		stick = a.Styles.Stick.Render("~ ~ ~")
		caption = a.Styles.Muted.Render("Shaking...")
	default:
		if a.LastResult == nil {
			stick = a.Styles.Stick.Render("?")
			caption = a.Styles.Muted.Render(drawHint(active))
			break
		}
		stick = a.Styles.Stick.Render(ResultLabel(a.LastResult))
		lines := WrapText(DisplayText(a.LastResult.Text()), max(a.Width-4, 10))
		caption = a.Styles.Result.Render(strings.Join(lines, "\n"))
	}

	block := lipgloss.JoinVertical(lipgloss.Center, stick, "", caption)
	return header + "\n\n" + lipgloss.PlaceHorizontal(a.Width, lipgloss.Center, block)
}

func drawHint(c model.Collection) string {
	if c.Mode.OrDefault() != model.ModeDice && len(c.Items) == 0 {
		return "This collection is empty. Add items on the Collections tab."
	}
	return "Press space to draw"
}

// renderCollectionsView renders the collection list beside the items of
// the collection under the cursor
func renderCollectionsView(a *AppModel) string {
	cols := a.manager.Collections()
	activeID := a.manager.ActiveID()

	rows := make([]string, len(cols))
	for i, c := range cols {
		marker := "  "
		if c.ID == activeID {
			marker = "* "
		}
		rows[i] = fmt.Sprintf("%s%s (%s)", marker, DisplayText(c.Name), c.Mode.OrDefault())
	}
	left := ListView(a.CollectionList, "Collections", rows, a.ActivePane == CollectionsPane, a.Styles)

	viewed := a.viewedCollection()
	itemRows := make([]string, len(viewed.Items))
	for i, it := range viewed.Items {
		itemRows[i] = fmt.Sprintf("%2d. %s", i+1, DisplayText(it.Content))
	}
	count := fmt.Sprintf("%d", len(viewed.Items))
	if limit := a.manager.MaxItems(); limit > 0 {
		count = fmt.Sprintf("%d/%d", len(viewed.Items), limit)
	}
	title := fmt.Sprintf("%s · %s · %s", DisplayText(viewed.Name), draw.Title(viewed.Mode.OrDefault()), count)
	right := ListView(a.ItemList, title, itemRows, a.ActivePane == ItemsPane, a.Styles)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// renderHistoryView renders the draw history, newest first
func renderHistoryView(a *AppModel) string {
	history := a.manager.History()
	rows := make([]string, len(history))
	for i, h := range history {
		rows[i] = fmt.Sprintf("%s  %s  %s",
			formatTimestamp(h.Timestamp),
			"["+DisplayText(h.CollectionName)+"]",
			DisplayText(h.ResultText))
	}
	title := fmt.Sprintf("History (%d/%d)", len(history), a.manager.HistoryLimit())
	return ListView(a.HistoryList, title, rows, true, a.Styles)
}

// formatTimestamp shows an RFC3339 timestamp in local time
func formatTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("2006-01-02 15:04")
}

// renderPresetView renders the preset picker
func renderPresetView(a *AppModel) string {
	all := presets.All()
	rows := make([]string, len(all))
	for i, p := range all {
		rows[i] = fmt.Sprintf("%-14s %-8s %s", p.Title, p.Mode, p.Description)
	}
	title := fmt.Sprintf("Presets for %s", DisplayText(a.viewedCollection().Name))
	return ListView(a.PresetList, title, rows, true, a.Styles)
}

// renderStatusLine renders the bottom status line
func renderStatusLine(a *AppModel) string {
	style := lipgloss.NewStyle().Width(a.Width)

	if a.CurrentMode == InputMode {
		return style.Render(fmt.Sprintf("%s: %s█  (Enter to save, Esc to cancel)", a.Input.Prompt, a.Input.Value))
	}

	if a.FlashMessage != "" && time.Now().Before(a.FlashExpiry) {
		if a.FlashError {
			return a.Styles.ErrorFlash.Width(a.Width).Render(a.FlashMessage)
		}
		return a.Styles.Flash.Width(a.Width).Render(a.FlashMessage)
	}

	var statusLine string
	switch {
	case a.CurrentMode == HelpMode:
		statusLine = "Help - Press z to return, ctrl+c to quit"
	case a.CurrentMode == PresetMode:
		statusLine = "enter apply to collection · n new collection · esc cancel"
	case a.Tab == DrawTab:
		statusLine = "space draw · y copy · t theme · z help · q quit"
	case a.Tab == CollectionsTab:
		statusLine = "enter select · a add · r rename · D delete · m mode · i/e/x items · p presets · z help"
	case a.Tab == HistoryTab:
		statusLine = "j/k scroll · C clear · z help · q quit"
	}
	return a.Styles.Muted.Width(a.Width).Render(statusLine)
}

// renderHelpView renders the help content as a single pane
func renderHelpView(a *AppModel) string {
	helpContent := `omikuji - Decision Randomizer

TABS:
  1, 2, 3     Draw, Collections, History
  shift+tab   Previous tab
  tab         Next pane (Collections) or next tab

DRAW:
  space       Draw from the active collection
  enter       Draw from the active collection
  y           Copy the last result to the clipboard

COLLECTIONS:
  j, k        Move down / up
  g, G        Go to top / bottom
  h, l        Focus collections / items
  enter       Make the collection under the cursor active
  a           Add a collection
  r           Rename the collection
  D           Delete the collection (Standard is protected)
  m           Cycle mode: omikuji, dice, cards
  i           Add an item
  e           Edit the selected item
  x           Remove the selected item
  p           Pick a preset

HISTORY:
  j, k        Scroll
  C           Clear history

GLOBAL:
  t           Cycle theme: system, light, dark
  z           Toggle this help screen
  q, esc      Quit
  ctrl+c      Force quit`

	helpStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.Styles.Palette.Border).
		Padding(1).
		Width(max(a.Width-4, 20))

	return helpStyle.Render(helpContent)
}
