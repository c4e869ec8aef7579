// internal/ui/styles.go
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/ezcomplete/internal/config"
)

var (
	StatusBarStyle          lipgloss.Style
	TitleStyle              lipgloss.Style
	ConnectionStyle         lipgloss.Style
	MetaStyle               lipgloss.Style
	InputStyle              lipgloss.Style
	PreviewStyle            lipgloss.Style
	SuggestionBoxStyle      lipgloss.Style
	SuggestionItemStyle     lipgloss.Style
	SuggestionSelectedStyle lipgloss.Style
	SuccessStyle            lipgloss.Style
)

// InitStyles initializes the global styles based on the provided configuration theme
func InitStyles(theme config.Theme) {
	textPrimary := lipgloss.Color(theme.TextPrimary)
	textFaint := lipgloss.Color(theme.TextFaint)
	accent := lipgloss.Color(theme.Accent)
	highlight := lipgloss.Color(theme.Highlight)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(textPrimary).
		Background(lipgloss.Color(theme.BgSecondary))

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(accent)

	ConnectionStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(lipgloss.Color(theme.BgPrimary)).
		Foreground(lipgloss.Color(theme.TextSecondary))

	MetaStyle = lipgloss.NewStyle().
		Foreground(textFaint).
		Italic(true)

	InputStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), true, false, true, false).
		BorderForeground(textFaint)

	PreviewStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(highlight).
		Padding(0, 1)

	SuggestionBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(textFaint).
		Padding(0, 1)

	SuggestionItemStyle = lipgloss.NewStyle().
		Foreground(textPrimary)

	SuggestionSelectedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.BgPrimary)).
		Background(highlight).
		Bold(true)

	SuccessStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Success))
}
