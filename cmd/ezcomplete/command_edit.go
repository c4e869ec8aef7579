package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/ezcomplete/internal/ui"
)

// EditCmd runs the interactive editor
type EditCmd struct {
	SourceFlags `embed:""`

	Print bool `help:"Print the buffer to stdout on exit"`
}

// Run executes the edit command
func (cmd *EditCmd) Run(appCtx *Context) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := openSession(appCtx, cmd.SourceFlags)
	if err != nil {
		return err
	}
	defer s.Close()

	model := ui.NewModel(ctx, s.cfg, s.engine, s.source)
	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	if m, ok := final.(ui.Model); ok && cmd.Print {
		fmt.Fprintln(os.Stdout, m.Value())
	}
	return nil
}
