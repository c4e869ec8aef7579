package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// scheduleCompletion invalidates any pending request and arms a new debounce timer.
func (m Model) scheduleCompletion() (Model, tea.Cmd) {
	m.debounceID++
	id := m.debounceID
	return m, tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return DebounceMsg{ID: id}
	})
}

// requestCompletion starts an immediate completion tagged with a fresh ID.
func (m Model) requestCompletion(explicit bool) (Model, tea.Cmd) {
	m.debounceID++
	return m, m.completeCmd(m.debounceID, explicit)
}

// completeCmd snapshots the buffer and cursor and runs the engine off the
// update loop.
func (m Model) completeCmd(id int, explicit bool) tea.Cmd {
	engine, ctx := m.engine, m.ctx
	text := m.editor.Value()
	cursor := cursorOffset(m.editor)
	return func() tea.Msg {
		return CompletionMsg{ID: id, Result: engine.Complete(ctx, text, cursor, explicit)}
	}
}

// cancelCompletion drops whatever request is in flight.
func (m Model) cancelCompletion() Model {
	m.debounceID++
	m.result = nil
	m.suggestions = m.suggestions.Hide()
	return m
}
