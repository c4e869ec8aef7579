// Package suggestions provides the completion dropdown component.
package suggestions

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/ezcomplete/internal/autocomplete"
	"github.com/nhath/ezcomplete/internal/ui/icons"
)

// Styles for the suggestions dropdown
type Styles struct {
	Box      lipgloss.Style
	Item     lipgloss.Style
	Selected lipgloss.Style
	Detail   lipgloss.Style
	Loading  lipgloss.Style
}

// DefaultStyles returns default styling
func DefaultStyles() Styles {
	return Styles{
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4C566A")).
			Padding(0, 1),
		Item: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D8DEE9")),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2E3440")).
			Background(lipgloss.Color("#8FBCBB")).
			Bold(true),
		Detail: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4C566A")),
		Loading: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4C566A")).
			Italic(true),
	}
}

// Model represents the suggestions state
type Model struct {
	items    []autocomplete.Candidate
	selected int
	visible  bool
	loading  bool
	maxShow  int
	styles   Styles
}

// New creates a new suggestions model
func New() Model {
	return Model{maxShow: 8, styles: DefaultStyles()}
}

// SetItems replaces the candidates and resets the selection
func (m Model) SetItems(items []autocomplete.Candidate) Model {
	m.items = items
	m.selected = 0
	return m
}

// SetStyles sets custom styles
func (m Model) SetStyles(s Styles) Model {
	m.styles = s
	return m
}

// SetMaxShow sets maximum visible items
func (m Model) SetMaxShow(n int) Model {
	if n > 0 {
		m.maxShow = n
	}
	return m
}

// Show makes the dropdown visible
func (m Model) Show() Model {
	m.visible = true
	return m
}

// Hide hides the dropdown
func (m Model) Hide() Model {
	m.visible = false
	m.loading = false
	m.selected = 0
	return m
}

// SetLoading sets loading state
func (m Model) SetLoading(loading bool) Model {
	m.loading = loading
	return m
}

// Visible reports whether the dropdown is shown
func (m Model) Visible() bool {
	return m.visible
}

// Loading returns loading state
func (m Model) Loading() bool {
	return m.loading
}

// Selected returns the selected index
func (m Model) Selected() int {
	return m.selected
}

// SelectedItem returns the selected candidate
func (m Model) SelectedItem() (autocomplete.Candidate, bool) {
	if m.selected >= 0 && m.selected < len(m.items) {
		return m.items[m.selected], true
	}
	return autocomplete.Candidate{}, false
}

// Items returns all candidates
func (m Model) Items() []autocomplete.Candidate {
	return m.items
}

// Len returns number of items
func (m Model) Len() int {
	return len(m.items)
}

// MoveUp moves selection up, wrapping to the bottom
func (m Model) MoveUp() Model {
	if len(m.items) == 0 {
		return m
	}
	m.selected--
	if m.selected < 0 {
		m.selected = len(m.items) - 1
	}
	return m
}

// MoveDown moves selection down, wrapping to the top
func (m Model) MoveDown() Model {
	if len(m.items) == 0 {
		return m
	}
	m.selected = (m.selected + 1) % len(m.items)
	return m
}

// window returns the [start, end) range of items to draw, keeping the
// selection roughly centered.
func (m Model) window() (int, int) {
	start := 0
	if m.selected > m.maxShow/2 {
		start = m.selected - m.maxShow/2
	}
	end := start + m.maxShow
	if end > len(m.items) {
		end = len(m.items)
		start = max(end-m.maxShow, 0)
	}
	return start, end
}

// View renders the suggestions dropdown
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	if m.loading && len(m.items) == 0 {
		return m.styles.Box.Render(m.styles.Loading.Render("Loading schema..."))
	}
	if len(m.items) == 0 {
		return ""
	}

	start, end := m.window()
	var views []string
	for i := start; i < end; i++ {
		c := m.items[i]
		style := m.styles.Item
		prefix := "  "
		if i == m.selected {
			style = m.styles.Selected
			prefix = icons.IconSelect + " "
		}
		line := style.Render(prefix + icons.ForKind(c.Kind) + " " + c.Label)
		if c.Detail != "" {
			line += " " + m.styles.Detail.Render(c.Detail)
		}
		views = append(views, line)
	}
	return m.styles.Box.Render(strings.Join(views, "\n"))
}
