// Package sysboard writes to the system clipboard. It prefers the native
// clipboard and falls back to pbcopy on macOS and xclip or xsel on Linux
// when the native one cannot be initialized (e.g. no display).
package sysboard

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"golang.design/x/clipboard"
)

var (
	initOnce sync.Once
	initErr  error
)

func nativeInit() error {
	initOnce.Do(func() {
		initErr = clipboard.Init()
	})
	return initErr
}

// SystemClipboard implements clipboard.Clipboard for the host.
type SystemClipboard struct{}

// New creates a new SystemClipboard.
func New() *SystemClipboard {
	return &SystemClipboard{}
}

// IsSupported reports whether either the native clipboard or a fallback
// command is available.
func (s *SystemClipboard) IsSupported() bool {
	if nativeInit() == nil {
		return true
	}
	for _, c := range fallbackCommands() {
		if _, err := exec.LookPath(c[0]); err == nil {
			return true
		}
	}
	return false
}

// Write replaces the clipboard content with text.
func (s *SystemClipboard) Write(text string) error {
	if err := nativeInit(); err == nil {
		clipboard.Write(clipboard.FmtText, []byte(text))
		return nil
	}

	commands := fallbackCommands()
	if len(commands) == 0 {
		return fmt.Errorf("clipboard operations not supported on %s: %w", runtime.GOOS, initErr)
	}

	var tried []string
	for _, c := range commands {
		if err := writeWithCommand(text, c[0], c[1:]...); err == nil {
			return nil
		}
		tried = append(tried, c[0])
	}
	return fmt.Errorf("failed to write clipboard (tried %s)", strings.Join(tried, " and "))
}

func fallbackCommands() [][]string {
	switch runtime.GOOS {
	case "darwin":
		return [][]string{{"pbcopy"}}
	case "linux":
		return [][]string{
			{"xclip", "-selection", "clipboard"},
			{"xsel", "--clipboard", "--input"},
		}
	default:
		return nil
	}
}

// writeWithCommand executes a command with text as stdin
func writeWithCommand(text, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}
