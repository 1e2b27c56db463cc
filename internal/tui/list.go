package tui

import (
	"strings"
)

// ListMsg represents messages that a list component handles
type ListMsg interface {
	isListMsg()
}

type NavigateUpMsg struct{}

func (NavigateUpMsg) isListMsg() {}

type NavigateDownMsg struct {
	MaxIndex int // Maximum valid index for bounds checking
}

func (NavigateDownMsg) isListMsg() {}

type GoToTopMsg struct{}

func (GoToTopMsg) isListMsg() {}

type GoToBottomMsg struct {
	MaxIndex int
}

func (GoToBottomMsg) isListMsg() {}

type JumpToIndexMsg struct {
	Index    int
	MaxIndex int
}

func (JumpToIndexMsg) isListMsg() {}

type ResizeListMsg struct {
	Width  int
	Height int
}

func (ResizeListMsg) isListMsg() {}

// ListModel holds cursor and scroll state for a vertical list
type ListModel struct {
	Cursor int // Current cursor position
	Offset int // First visible row
	Width  int
	Height int // Rows available for items
}

// NewListModel creates a list with the given size
func NewListModel(width, height int) ListModel {
	return ListModel{Width: width, Height: height}
}

// Update handles list messages
func (l *ListModel) Update(msg ListMsg) {
	switch m := msg.(type) {
	case NavigateUpMsg:
		if l.Cursor > 0 {
			l.Cursor--
		}
	case NavigateDownMsg:
		if l.Cursor < m.MaxIndex {
			l.Cursor++
		}
	case GoToTopMsg:
		l.Cursor = 0
	case GoToBottomMsg:
		if m.MaxIndex >= 0 {
			l.Cursor = m.MaxIndex
		}
	case JumpToIndexMsg:
		if m.Index >= 0 && m.Index <= m.MaxIndex {
			l.Cursor = m.Index
		}
	case ResizeListMsg:
		l.Width = m.Width
		l.Height = m.Height
	}
	l.scroll()
}

// Clamp keeps the cursor inside a list of n rows.
func (l *ListModel) Clamp(n int) {
	if l.Cursor >= n {
		l.Cursor = n - 1
	}
	if l.Cursor < 0 {
		l.Cursor = 0
	}
	l.scroll()
}

func (l *ListModel) scroll() {
	rows := max(l.Height, 1)
	if l.Cursor < l.Offset {
		l.Offset = l.Cursor
	}
	if l.Cursor >= l.Offset+rows {
		l.Offset = l.Cursor - rows + 1
	}
	if l.Offset < 0 {
		l.Offset = 0
	}
}

// ListView renders the visible window of rows inside a bordered pane
func ListView(model ListModel, title string, rows []string, focused bool, styles Styles) string {
	pane := styles.Pane
	if focused {
		pane = styles.FocusPane
		title = "● " + title
	}
	innerWidth := max(model.Width-4, 1)

	var content strings.Builder
	content.WriteString(styles.Title.Render(title) + "\n\n")

	if len(rows) == 0 {
		content.WriteString(styles.Muted.Render("(none)") + "\n")
	}

	end := min(model.Offset+max(model.Height, 1), len(rows))
	for i := model.Offset; i < end; i++ {
		line := truncateWidth(rows[i], innerWidth)
		if i == model.Cursor && focused {
			line = styles.Selected.Width(innerWidth).Render(line)
		} else if i == model.Cursor {
			line = styles.Muted.Render("> ") + truncateWidth(rows[i], innerWidth-2)
		}
		content.WriteString(line + "\n")
	}

	return pane.Width(model.Width - 2).Render(strings.TrimRight(content.String(), "\n"))
}
