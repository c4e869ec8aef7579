// internal/ui/model.go
// Root Model struct, constructor, and Init
package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/ezcomplete/internal/autocomplete"
	"github.com/nhath/ezcomplete/internal/config"
	"github.com/nhath/ezcomplete/internal/ui/components/suggestions"
)

// Source describes where schema metadata comes from, for the status bar.
type Source struct {
	Name string
	Type string // postgres, mysql, sqlite, snapshot
}

// Model is the root Bubble Tea model: a SQL editor with completion.
type Model struct {
	ctx    context.Context
	config *config.Config
	engine *autocomplete.Engine
	source Source

	width, height int
	editor        textarea.Model

	// Completion
	suggestions suggestions.Model
	result      *autocomplete.Result
	// debounceID tags every completion request; replies carrying an older ID
	// are stale and dropped.
	debounceID int
	debounce   time.Duration

	statusMsg string
}

// NewModel creates a new UI model
func NewModel(ctx context.Context, cfg *config.Config, engine *autocomplete.Engine, source Source) Model {
	InitStyles(cfg.Theme)

	ti := textarea.New()
	ti.Placeholder = "Type SQL; completions appear as you type (Ctrl+Space to force)"
	ti.Focus()
	ti.CharLimit = 20000
	ti.SetHeight(8)
	ti.SetWidth(80)
	ti.ShowLineNumbers = true
	// Remove cursor line background
	ti.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ti.BlurredStyle.CursorLine = lipgloss.NewStyle()
	ti.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.TextFaint))

	sg := suggestions.New().SetStyles(suggestions.Styles{
		Box:      SuggestionBoxStyle,
		Item:     SuggestionItemStyle,
		Selected: SuggestionSelectedStyle,
		Detail:   MetaStyle,
		Loading:  MetaStyle,
	})

	return Model{
		ctx:         ctx,
		config:      cfg,
		engine:      engine,
		source:      source,
		editor:      ti,
		suggestions: sg,
		debounce:    cfg.Completion.Debounce(),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Value returns the editor buffer.
func (m Model) Value() string {
	return m.editor.Value()
}
