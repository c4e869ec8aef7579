package ui

import (
	"slices"

	tea "github.com/charmbracelet/bubbletea"
)

// matchKey reports whether msg is one of the configured bindings.
func matchKey(msg tea.KeyMsg, bindings []string) bool {
	return slices.Contains(bindings, msg.String())
}
