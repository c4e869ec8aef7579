package ui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhath/ezcomplete/internal/autocomplete"
	"github.com/nhath/ezcomplete/internal/config"
	"github.com/nhath/ezcomplete/internal/db"
	"github.com/nhath/ezcomplete/internal/metacache"
	"github.com/nhath/ezcomplete/internal/schema"
)

func newTestModel(t *testing.T, text string) Model {
	t.Helper()
	tree := schema.FromSnapshot(schema.Snapshot{
		Functions: []string{"count", "countIf"},
		Databases: []schema.Database{
			{Name: "raw", Tables: []schema.Table{
				{Name: "events", Columns: []db.Column{{Name: "event_id", Type: "UUID"}}},
			}},
		},
	})
	engine := autocomplete.New(metacache.New(tree, tree, metacache.Options{}), autocomplete.Options{})
	m := NewModel(context.Background(), config.DefaultConfig(), engine, Source{Name: "test", Type: "snapshot"})
	m.editor.SetValue(text)
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	um, ok := next.(Model)
	require.True(t, ok)
	return um, cmd
}

func TestExplicitTriggerAndAccept(t *testing.T) {
	m := newTestModel(t, "SELECT * FROM ev")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlAt})
	require.NotNil(t, cmd)
	msg, ok := cmd().(CompletionMsg)
	require.True(t, ok)

	m, _ = update(t, m, msg)
	require.True(t, m.suggestions.Visible())
	c, _ := m.suggestions.SelectedItem()
	assert.Equal(t, "events", c.Label)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "SELECT * FROM events", m.Value())
	assert.Equal(t, len("SELECT * FROM events"), cursorOffset(m.editor))
	assert.False(t, m.suggestions.Visible())
}

func TestStaleCompletionDropped(t *testing.T) {
	m := newTestModel(t, "SELECT * FROM ev")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlAt})
	stale := cmd().(CompletionMsg)

	// A keystroke supersedes the in-flight request
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	m, _ = update(t, m, stale)
	assert.Nil(t, m.result)

	m, _ = update(t, m, DebounceMsg{ID: stale.ID})
	assert.Nil(t, m.result)
}

func TestDebounceStartsCompletion(t *testing.T) {
	m := newTestModel(t, "SELECT * FROM e")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("v")})
	_, cmd := update(t, m, DebounceMsg{ID: m.debounceID})
	require.NotNil(t, cmd)

	msg := cmd().(CompletionMsg)
	require.NotNil(t, msg.Result)
	assert.Equal(t, autocomplete.ContextTable, msg.Result.Context)
	assert.Equal(t, "ev", msg.Result.Partial)
}

func TestDismiss(t *testing.T) {
	m := newTestModel(t, "SELECT * FROM ev")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlAt})
	m, _ = update(t, m, cmd())
	require.True(t, m.suggestions.Visible())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.suggestions.Visible())
	assert.Equal(t, "SELECT * FROM ev", m.Value())
}

func TestApplyCandidate(t *testing.T) {
	res := &autocomplete.Result{From: 9}
	text, cursor := applyCandidate("SELECT o.cu FROM orders o", res, 11, autocomplete.Candidate{Label: "customer_id"})
	assert.Equal(t, "SELECT o.customer_id FROM orders o", text)
	assert.Equal(t, 20, cursor)

	snippet := autocomplete.Candidate{Label: "select from", Apply: "SELECT *\nFROM t"}
	text, cursor = applyCandidate("sel", &autocomplete.Result{From: 0}, 3, snippet)
	assert.Equal(t, "SELECT *\nFROM t", text)
	assert.Equal(t, len(text), cursor)
}

func TestOffsetToRowCol(t *testing.T) {
	text := "SELECT *\nFROM é.events"

	row, col := offsetToRowCol(text, len("SELECT *\nFROM é."))
	assert.Equal(t, 1, row)
	assert.Equal(t, 7, col)

	row, col = offsetToRowCol(text, 100)
	assert.Equal(t, 1, row)
	assert.Equal(t, 13, col)

	assert.Equal(t, len("FROM é"), runeColToByte("FROM é.events", 6))
	assert.Equal(t, len("ab"), runeColToByte("ab", 10))
}

func TestSetCursorOffset(t *testing.T) {
	m := newTestModel(t, "SELECT *\nFROM events\nWHERE 1")

	setCursorOffset(&m.editor, len("SELECT *\nFROM"))
	assert.Equal(t, 1, m.editor.Line())
	assert.Equal(t, len("SELECT *\nFROM"), cursorOffset(m.editor))
}
