package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// inputPurpose says what a finished text prompt does
type inputPurpose int

const (
	inputNone inputPurpose = iota
	inputAddCollection
	inputRenameCollection
	inputAddItem
	inputEditItem
)

// InputMsg represents messages that the text prompt handles
type InputMsg interface {
	isInputMsg()
}

type StartInputMsg struct {
	Prompt  string
	Value   string
	Purpose inputPurpose
	Target  string // collection id the prompt applies to
	Index   int    // item index for edits
}

func (StartInputMsg) isInputMsg() {}

type UpdateInputMsg struct {
	Value string
}

func (UpdateInputMsg) isInputMsg() {}

type CancelInputMsg struct{}

func (CancelInputMsg) isInputMsg() {}

// InputModel holds the state of a one-line text prompt
type InputModel struct {
	Active  bool
	Prompt  string
	Value   string
	Purpose inputPurpose
	Target  string
	Index   int
}

// Update handles prompt messages
func (in *InputModel) Update(msg InputMsg) {
	switch m := msg.(type) {
	case StartInputMsg:
		in.Active = true
		in.Prompt = m.Prompt
		in.Value = m.Value
		in.Purpose = m.Purpose
		in.Target = m.Target
		in.Index = m.Index
	case UpdateInputMsg:
		in.Value = m.Value
	case CancelInputMsg:
		*in = InputModel{}
	}
}

// edit applies a key to the value. It reports false for keys it ignores.
func (in *InputModel) edit(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyRunes:
		in.Update(UpdateInputMsg{Value: in.Value + string(msg.Runes)})
		return true
	case tea.KeySpace:
		in.Update(UpdateInputMsg{Value: in.Value + " "})
		return true
	case tea.KeyBackspace, tea.KeyCtrlH:
		runes := []rune(in.Value)
		if len(runes) > 0 {
			in.Update(UpdateInputMsg{Value: string(runes[:len(runes)-1])})
		}
		return true
	case tea.KeyCtrlU:
		in.Update(UpdateInputMsg{Value: ""})
		return true
	}
	return false
}
