// cmd/ezcomplete/main.go
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
)

// Context carries global flags into every command
type Context struct {
	Config string
	Debug  bool
}

// CLI represents the command-line interface
var CLI struct {
	Config   string      `help:"Configuration file path (default: XDG config dir)" type:"path"`
	Debug    bool        `help:"Enable debug logging to debug.log"`
	Complete CompleteCmd `cmd:"" help:"Print completions for a SQL buffer"`
	Edit     EditCmd     `cmd:"" default:"withargs" help:"Open the interactive SQL editor"`
	Profile  ProfileCmd  `cmd:"" help:"Manage metadata source profiles"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("ezcomplete"),
		kong.Description("Context-aware SQL completion over live or snapshot schemas."),
		kong.UsageOnError(),
	)

	// Logging stays silent unless --debug
	log.SetOutput(io.Discard)
	if CLI.Debug {
		f, err := tea.LogToFile("debug.log", "debug")
		if err != nil {
			fmt.Fprintf(os.Stderr, "fatal: could not open debug log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	}

	err := ctx.Run(&Context{Config: CLI.Config, Debug: CLI.Debug})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
