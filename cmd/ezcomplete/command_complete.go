package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nhath/ezcomplete/internal/autocomplete"
	"github.com/nhath/ezcomplete/internal/ui/components/table"
)

// cursorMarker marks the cursor in the buffer when --cursor is not given.
const cursorMarker = "|"

// CompleteCmd prints ranked completions for one buffer and cursor
type CompleteCmd struct {
	SourceFlags `embed:""`

	File     string `help:"Read the buffer from a file instead of stdin" type:"existingfile" short:"f"`
	Cursor   int    `help:"Cursor byte offset; default is the first | in the buffer, else its end" default:"-1"`
	Explicit bool   `help:"Complete even when no token is being typed"`
	JSON     bool   `help:"Print the result as JSON"`
	Stats    bool   `help:"Print metadata fetch counters to stderr"`
}

type completeOutput struct {
	From    int                      `json:"from"`
	Context string                   `json:"context"`
	Partial string                   `json:"partial"`
	Options []autocomplete.Candidate `json:"options"`
}

// Run executes the complete command
func (cmd *CompleteCmd) Run(appCtx *Context) error {
	buf, err := cmd.readBuffer()
	if err != nil {
		return err
	}
	text, cursor, err := splitCursor(buf, cmd.Cursor)
	if err != nil {
		return err
	}

	ctx := context.Background()
	s, err := openSession(appCtx, cmd.SourceFlags)
	if err != nil {
		return err
	}
	defer s.Close()

	res := s.engine.Complete(ctx, text, cursor, cmd.Explicit)
	if cmd.Stats {
		st := s.cache.Stats()
		fmt.Fprintf(os.Stderr, "fetches: %d, failures: %d\n", st.Fetches, st.Failures)
	}
	return writeResult(os.Stdout, res, cmd.JSON)
}

func (cmd *CompleteCmd) readBuffer() (string, error) {
	if cmd.File != "" {
		data, err := os.ReadFile(cmd.File)
		if err != nil {
			return "", fmt.Errorf("read buffer: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

// splitCursor resolves the cursor: an explicit offset, else the first marker
// (removed from the buffer), else the end of the buffer. A single trailing
// newline, as left by editors and heredocs, is not part of the buffer.
func splitCursor(buf string, cursor int) (string, int, error) {
	buf = strings.TrimSuffix(buf, "\n")
	marker := strings.Index(buf, cursorMarker)

	switch {
	case cursor >= 0 && marker >= 0:
		return "", 0, ErrCursorAmbiguous
	case cursor >= 0:
		if cursor > len(buf) {
			return "", 0, fmt.Errorf("%w: %d > %d", ErrCursorRange, cursor, len(buf))
		}
		return buf, cursor, nil
	case marker >= 0:
		return buf[:marker] + buf[marker+len(cursorMarker):], marker, nil
	default:
		return buf, len(buf), nil
	}
}

func writeResult(w io.Writer, res *autocomplete.Result, asJSON bool) error {
	if asJSON {
		out := completeOutput{Options: []autocomplete.Candidate{}}
		if res != nil {
			out = completeOutput{From: res.From, Context: res.Context.String(), Partial: res.Partial, Options: res.Options}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if res == nil {
		_, err := fmt.Fprintln(w, "no completion at cursor (use --explicit to force)")
		return err
	}
	if _, err := fmt.Fprintf(w, "context: %s  from: %d  partial: %q\n", res.Context, res.From, res.Partial); err != nil {
		return err
	}
	if len(res.Options) == 0 {
		_, err := fmt.Fprintln(w, "no candidates")
		return err
	}
	_, err := fmt.Fprintln(w, table.FromCandidates(res.Options).View())
	return err
}
