package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

const chromeHeight = 4 // title, status bar and borders

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.editor.SetWidth(max(msg.Width-2, 20))
		m.editor.SetHeight(max(msg.Height/2-chromeHeight, 3))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case DebounceMsg:
		if msg.ID != m.debounceID {
			return m, nil
		}
		return m, m.completeCmd(msg.ID, false)

	case CompletionMsg:
		if msg.ID != m.debounceID {
			// Superseded by a newer keystroke or request
			return m, nil
		}
		m.suggestions = m.suggestions.SetLoading(false)
		if msg.Result == nil || len(msg.Result.Options) == 0 {
			m.result = nil
			m.suggestions = m.suggestions.Hide()
			return m, nil
		}
		m.result = msg.Result
		m.suggestions = m.suggestions.SetItems(msg.Result.Options).Show()
		m.statusMsg = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}
