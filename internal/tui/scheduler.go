package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// scheduledMsg carries a deferred callback back into Update.
type scheduledMsg struct {
	fn func()
}

func (scheduledMsg) isAppMsg() {}

// teaScheduler implements draw.Scheduler on bubbletea's event loop:
// After queues a tick command, and the callback runs inside Update when
// the tick fires. Queued commands are handed to bubbletea by Flush.
type teaScheduler struct {
	pending []tea.Cmd
}

func (s *teaScheduler) After(d time.Duration, fn func()) {
	s.pending = append(s.pending, tea.Tick(d, func(time.Time) tea.Msg {
		return scheduledMsg{fn: fn}
	}))
}

// Flush returns every queued command as one batch and clears the queue.
func (s *teaScheduler) Flush() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}
