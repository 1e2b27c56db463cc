// Package clipboard defines how a draw result is copied out of the app.
// Implementations live in sysboard (the real clipboard) and mockboard
// (tests).
package clipboard

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var ErrUnsupported = errors.New("clipboard not supported on this system")

// Clipboard copies text to a clipboard.
type Clipboard interface {
	// Write replaces the clipboard content with text.
	Write(text string) error

	// IsSupported reports whether Write can succeed on this system.
	IsSupported() bool
}

// Copy writes text and returns a short confirmation for the status line.
func Copy(cb Clipboard, text string) (string, error) {
	if cb == nil || !cb.IsSupported() {
		return "", ErrUnsupported
	}
	if err := cb.Write(text); err != nil {
		return "", fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return fmt.Sprintf("Copied %q (%d chars)", text, utf8.RuneCountInString(text)), nil
}
