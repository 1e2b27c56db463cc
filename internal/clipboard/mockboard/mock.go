// Package mockboard provides an in-memory clipboard for tests.
package mockboard

import "sync"

// MockClipboard implements clipboard.Clipboard in memory.
type MockClipboard struct {
	mu     sync.Mutex
	text   string
	writes int

	// Err, when set, is returned from every Write.
	Err error
	// Unsupported makes IsSupported report false.
	Unsupported bool
}

// New creates an empty MockClipboard.
func New() *MockClipboard {
	return &MockClipboard{}
}

// Write stores text unless Err is set.
func (m *MockClipboard) Write(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.text = text
	m.writes++
	return nil
}

// IsSupported reports !Unsupported.
func (m *MockClipboard) IsSupported() bool {
	return !m.Unsupported
}

// Text returns the last written text.
func (m *MockClipboard) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// Writes returns how many writes succeeded.
func (m *MockClipboard) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
