// Package theme stores the light/dark preference and maps it to terminal
// colors.
package theme

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yiblet/omikuji/internal/store"
)

// Key is where the preference lives in the store.
const Key = "omikuji-theme"

var ErrUnknownTheme = errors.New("unknown theme")

type Theme string

const (
	Light  Theme = "light"
	Dark   Theme = "dark"
	System Theme = "system"
)

var themes = []Theme{System, Light, Dark}

// Parse converts a user-supplied name into a Theme.
func Parse(s string) (Theme, error) {
	t := Theme(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range themes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q (must be light, dark or system)", ErrUnknownTheme, s)
}

// Next cycles system -> light -> dark -> system.
func (t Theme) Next() Theme {
	for i, known := range themes {
		if t == known {
			return themes[(i+1)%len(themes)]
		}
	}
	return System
}

// Dark reports whether the theme renders dark. System asks the terminal.
func (t Theme) Dark() bool {
	switch t {
	case Light:
		return false
	case Dark:
		return true
	default:
		return lipgloss.HasDarkBackground()
	}
}

// Load reads the stored preference. A missing or unrecognized value is
// System.
func Load(s store.Store) (Theme, error) {
	raw, err := store.GetOr(s, Key, string(System))
	if err != nil {
		return System, err
	}
	t, err := Parse(raw)
	if err != nil {
		return System, nil
	}
	return t, nil
}

// Save writes the preference.
func Save(s store.Store, t Theme) error {
	if _, err := Parse(string(t)); err != nil {
		return err
	}
	if err := s.Set(Key, string(t)); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	return nil
}

// Palette is the set of colors the UI draws with.
type Palette struct {
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Accent    lipgloss.Color
	Border    lipgloss.Color
	Selection lipgloss.Color
	OnSelect  lipgloss.Color
	Success   lipgloss.Color
	Error     lipgloss.Color
	Stick     lipgloss.Color
}

var (
	lightPalette = Palette{
		Text:      lipgloss.Color("0"),
		Muted:     lipgloss.Color("245"),
		Accent:    lipgloss.Color("160"),
		Border:    lipgloss.Color("250"),
		Selection: lipgloss.Color("224"),
		OnSelect:  lipgloss.Color("0"),
		Success:   lipgloss.Color("28"),
		Error:     lipgloss.Color("124"),
		Stick:     lipgloss.Color("94"),
	}
	darkPalette = Palette{
		Text:      lipgloss.Color("252"),
		Muted:     lipgloss.Color("241"),
		Accent:    lipgloss.Color("203"),
		Border:    lipgloss.Color("62"),
		Selection: lipgloss.Color("62"),
		OnSelect:  lipgloss.Color("230"),
		Success:   lipgloss.Color("10"),
		Error:     lipgloss.Color("9"),
		Stick:     lipgloss.Color("180"),
	}
)

// PaletteFor returns the colors for a theme.
func PaletteFor(t Theme) Palette {
	if t.Dark() {
		return darkPalette
	}
	return lightPalette
}
