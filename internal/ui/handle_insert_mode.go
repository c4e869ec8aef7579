// internal/ui/handle_insert_mode.go
// Key handling for the editor and the completion dropdown.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// handleKey processes a keystroke.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	keys := m.config.Keys

	if matchKey(msg, keys.Exit) {
		return m, tea.Quit
	}

	// Dropdown navigation / apply
	if m.suggestions.Visible() && m.suggestions.Len() > 0 {
		switch {
		case matchKey(msg, keys.Next):
			m.suggestions = m.suggestions.MoveDown()
			return m, nil
		case matchKey(msg, keys.Prev):
			m.suggestions = m.suggestions.MoveUp()
			return m, nil
		case matchKey(msg, keys.Accept):
			return m.applySelected(), nil
		}
	}
	if m.suggestions.Visible() && matchKey(msg, keys.Dismiss) {
		return m.cancelCompletion(), nil
	}

	// Ctrl+Space: complete now, even with nothing typed
	if matchKey(msg, keys.Trigger) {
		m.suggestions = m.suggestions.SetLoading(true).Show()
		return m.requestCompletion(true)
	}

	before, beforeCursor := m.editor.Value(), cursorOffset(m.editor)
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	if m.editor.Value() == before && cursorOffset(m.editor) == beforeCursor {
		return m, cmd
	}

	m = m.refineSuggestions()
	m, tick := m.scheduleCompletion()
	return m, tea.Batch(cmd, tick)
}

// refineSuggestions narrows the visible list locally while the typed text
// stays valid for the last result; a fresh result follows after the debounce.
func (m Model) refineSuggestions() Model {
	if m.result == nil || !m.suggestions.Visible() {
		return m
	}
	text, cursor := m.editor.Value(), cursorOffset(m.editor)
	if cursor < m.result.From || m.result.From > len(text) {
		m.suggestions = m.suggestions.Hide()
		return m
	}
	opts, ok := m.result.Refine(text[m.result.From:cursor])
	if !ok || len(opts) == 0 {
		m.suggestions = m.suggestions.Hide()
		return m
	}
	m.suggestions = m.suggestions.SetItems(opts)
	return m
}

// applySelected writes the selected candidate over the partial token.
func (m Model) applySelected() Model {
	c, ok := m.suggestions.SelectedItem()
	if !ok || m.result == nil {
		return m
	}
	text, cursor := applyCandidate(m.editor.Value(), m.result, cursorOffset(m.editor), c)
	m.editor.SetValue(text)
	setCursorOffset(&m.editor, cursor)
	m.statusMsg = "inserted " + c.Kind.String() + " " + c.Label
	return m.cancelCompletion()
}
