// internal/ui/model_render.go
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/ezcomplete/internal/autocomplete"
	"github.com/nhath/ezcomplete/internal/ui/highlight"
	"github.com/nhath/ezcomplete/internal/ui/icons"
)

// View renders the editor, the dropdown, the snippet preview and the status bar.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("ezcomplete"))
	b.WriteString("\n")
	b.WriteString(InputStyle.Render(m.editor.View()))
	b.WriteString("\n")

	if dropdown := m.suggestions.View(); dropdown != "" {
		if preview := m.renderPreview(); preview != "" {
			dropdown = lipgloss.JoinHorizontal(lipgloss.Top, dropdown, " ", preview)
		}
		b.WriteString(dropdown)
		b.WriteString("\n")
	}

	b.WriteString(m.renderStatusBar())
	return b.String()
}

// renderPreview shows a highlighted snippet body for the selected candidate.
func (m Model) renderPreview() string {
	c, ok := m.suggestions.SelectedItem()
	if !ok || c.Kind != autocomplete.KindSnippet {
		return ""
	}
	return PreviewStyle.Render(highlight.SQL(c.InsertText(), m.config.Theme.ChromaStyle))
}

func (m Model) renderStatusBar() string {
	left := ConnectionStyle.Render(icons.GetDatabaseIcon(m.source.Type) + " " + m.source.Name)

	var info string
	switch {
	case m.statusMsg != "":
		info = SuccessStyle.Render(m.statusMsg)
	case m.result != nil && m.suggestions.Visible():
		info = MetaStyle.Render(fmt.Sprintf("%s context · %d candidates", m.result.Context, m.suggestions.Len()))
	}

	hints := MetaStyle.Render(fmt.Sprintf("%s complete · %s accept · %s quit",
		firstKey(m.config.Keys.Trigger), firstKey(m.config.Keys.Accept), firstKey(m.config.Keys.Exit)))

	bar := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", info)
	gap := m.width - lipgloss.Width(bar) - lipgloss.Width(hints)
	if gap > 0 {
		bar += strings.Repeat(" ", gap)
	} else {
		bar += " "
	}
	return StatusBarStyle.Render(bar + hints)
}

func firstKey(keys []string) string {
	if len(keys) == 0 {
		return "-"
	}
	return keys[0]
}
