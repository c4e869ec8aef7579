// internal/ui/messages.go
package ui

import "github.com/nhath/ezcomplete/internal/autocomplete"

// DebounceMsg fires once typing pauses; it starts a completion if no newer
// keystroke has arrived since.
type DebounceMsg struct {
	ID int
}

// CompletionMsg carries the engine's answer for request ID.
type CompletionMsg struct {
	ID     int
	Result *autocomplete.Result
}
