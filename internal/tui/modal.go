package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rivo/uniseg"
)

// modalMaxWidth caps the dialog box, border excluded.
const modalMaxWidth = 56

// ModalMsg represents messages that the modal component handles
type ModalMsg interface {
	isModalMsg()
}

// ShowModalMsg opens a dialog.
type ShowModalMsg struct {
	Title   string
	Content string
	Options string
}

func (ShowModalMsg) isModalMsg() {}

// HideModalMsg closes the open dialog.
type HideModalMsg struct{}

func (HideModalMsg) isModalMsg() {}

// ModalModel is the dialog currently shown over the view, if any.
type ModalModel struct {
	Active  bool
	Title   string
	Content string
	Options string
}

func NewModalModel() ModalModel {
	return ModalModel{}
}

func (m *ModalModel) Update(msg ModalMsg) {
	switch msg := msg.(type) {
	case ShowModalMsg:
		*m = ModalModel{Active: true, Title: msg.Title, Content: msg.Content, Options: msg.Options}
	case HideModalMsg:
		*m = ModalModel{}
	}
}

// ModalView centers the dialog over the background. Background text to the
// left and right of the box stays visible.
func ModalView(model ModalModel, background string, width, height int, styles Styles) string {
	if !model.Active {
		return background
	}

	box := strings.Split(renderModalBox(model, width, styles), "\n")
	top := max((height-len(box))/2, 0)
	left := max((width-lipgloss.Width(box[0]))/2, 0)

	lines := strings.Split(background, "\n")
	for len(lines) < top+len(box) {
		lines = append(lines, "")
	}
	for i, row := range box {
		lines[top+i] = overlayLine(lines[top+i], row, left)
	}
	return strings.Join(lines, "\n")
}

func renderModalBox(model ModalModel, width int, styles Styles) string {
	body := model.Title
	for _, part := range []string{model.Content, model.Options} {
		if part != "" {
			body += "\n\n" + part
		}
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.ModalBorder).
		Padding(1, 2).
		Width(max(min(modalMaxWidth, width-4), 16)).
		Align(lipgloss.Center).
		Render(body)
}

// overlayLine writes fg over bg starting at column x.
func overlayLine(bg, fg string, x int) string {
	left := truncateToVisualWidth(bg, x)
	if pad := x - lipgloss.Width(left); pad > 0 {
		left += strings.Repeat(" ", pad)
	}
	return left + fg + truncateFromVisualWidth(bg, x+lipgloss.Width(fg))
}

// ShowDeleteCollectionConfirmation creates a delete confirmation modal
func ShowDeleteCollectionConfirmation(name string, itemCount int) ShowModalMsg {
	return ShowModalMsg{
		Title: "Delete Collection?",
		Content: fmt.Sprintf("Collection: %s\nItems: %d\n\nThis cannot be undone.",
			truncateWidth(DisplayText(name), 40), itemCount),
		Options: "[Y] Yes, delete    [N] No, cancel",
	}
}

// ShowClearHistoryConfirmation creates a clear-history confirmation modal
func ShowClearHistoryConfirmation(entries int) ShowModalMsg {
	return ShowModalMsg{
		Title:   "Clear History?",
		Content: fmt.Sprintf("%d %s will be removed.", entries, pluralize(entries, "entry", "entries")),
		Options: "[Y] Yes, clear    [N] No, cancel",
	}
}

// ShowErrorMsg creates a modal reporting a failed action
func ShowErrorMsg(title string, err error) ShowModalMsg {
	return ShowModalMsg{
		Title:   title,
		Content: err.Error(),
		Options: "Press any key to continue",
	}
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// walkStyled calls fn for each ANSI escape sequence (width 0) and each
// grapheme cluster of s, stopping when fn returns false.
func walkStyled(s string, fn func(seg string, width int) bool) {
	for len(s) > 0 {
		if s[0] == '\x1b' {
			end := strings.IndexByte(s, 'm')
			if end < 0 {
				end = len(s) - 1
			}
			if !fn(s[:end+1], 0) {
				return
			}
			s = s[end+1:]
			continue
		}
		text := s
		if next := strings.IndexByte(s, '\x1b'); next >= 0 {
			text = s[:next]
		}
		cluster, _, width, _ := uniseg.FirstGraphemeClusterInString(text, -1)
		if !fn(cluster, width) {
			return
		}
		s = s[len(cluster):]
	}
}

// truncateToVisualWidth keeps the first targetWidth columns of a styled
// string. A wide cluster that would straddle the edge is dropped.
func truncateToVisualWidth(s string, targetWidth int) string {
	if targetWidth <= 0 {
		return ""
	}
	var b strings.Builder
	w := 0
	walkStyled(s, func(seg string, sw int) bool {
		if w+sw > targetWidth {
			return false
		}
		b.WriteString(seg)
		w += sw
		return true
	})
	return b.String()
}

// truncateFromVisualWidth returns a styled string from column startWidth
// on. Escape sequences before that column are kept so colors carry over;
// a wide cluster straddling the column is replaced by spaces.
func truncateFromVisualWidth(s string, startWidth int) string {
	if startWidth <= 0 {
		return s
	}
	var escapes, rest strings.Builder
	w := 0
	walkStyled(s, func(seg string, sw int) bool {
		switch {
		case w >= startWidth:
			if rest.Len() == 0 && w > startWidth {
				rest.WriteString(strings.Repeat(" ", w-startWidth))
			}
			rest.WriteString(seg)
		case sw == 0:
			escapes.WriteString(seg)
		default:
			w += sw
		}
		return true
	})
	if rest.Len() == 0 {
		return ""
	}
	return escapes.String() + rest.String()
}
