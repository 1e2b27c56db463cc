package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/yiblet/omikuji/internal/theme"
)

// Styles are the lipgloss styles derived from a theme palette.
type Styles struct {
	Palette     theme.Palette
	Title       lipgloss.Style
	Muted       lipgloss.Style
	Selected    lipgloss.Style
	ActiveTab   lipgloss.Style
	Tab         lipgloss.Style
	Pane        lipgloss.Style
	FocusPane   lipgloss.Style
	Stick       lipgloss.Style
	Result      lipgloss.Style
	Flash       lipgloss.Style
	ErrorFlash  lipgloss.Style
	ModalBorder lipgloss.Color
}

// NewStyles builds styles for the given theme.
func NewStyles(t theme.Theme) Styles {
	p := theme.PaletteFor(t)
	return Styles{
		Palette: p,
		Title:   lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		Muted:   lipgloss.NewStyle().Foreground(p.Muted),
		Selected: lipgloss.NewStyle().
			Background(p.Selection).
			Foreground(p.OnSelect),
		ActiveTab: lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(p.Accent).
			Foreground(p.OnSelect),
		Tab: lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(p.Muted),
		Pane: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
		FocusPane: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(p.Accent).
			Padding(0, 1),
		Stick: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(p.Stick).
			Foreground(p.Text).
			Bold(true).
			Padding(0, 2),
		Result:      lipgloss.NewStyle().Foreground(p.Text),
		Flash:       lipgloss.NewStyle().Foreground(p.Success),
		ErrorFlash:  lipgloss.NewStyle().Foreground(p.Error),
		ModalBorder: p.Error,
	}
}
