package ui

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textarea"

	"github.com/nhath/ezcomplete/internal/autocomplete"
)

// cursorOffset converts the editor's row/column cursor into a byte offset
// into Value().
func cursorOffset(ta textarea.Model) int {
	lines := strings.Split(ta.Value(), "\n")
	row := min(ta.Line(), len(lines)-1)
	li := ta.LineInfo()
	col := li.StartColumn + li.ColumnOffset

	off := 0
	for i := 0; i < row; i++ {
		off += len(lines[i]) + 1
	}
	return off + runeColToByte(lines[row], col)
}

// runeColToByte maps a rune column within line to a byte index, clamped to the line.
func runeColToByte(line string, col int) int {
	n := 0
	for i := range line {
		if n == col {
			return i
		}
		n++
	}
	return len(line)
}

// offsetToRowCol maps a byte offset into text to a row and rune column.
func offsetToRowCol(text string, off int) (row, col int) {
	off = max(0, min(off, len(text)))
	before := text[:off]
	row = strings.Count(before, "\n")
	if i := strings.LastIndexByte(before, '\n'); i >= 0 {
		before = before[i+1:]
	}
	return row, utf8.RuneCountInString(before)
}

// setCursorOffset moves the editor cursor to byte offset off.
func setCursorOffset(ta *textarea.Model, off int) {
	row, col := offsetToRowCol(ta.Value(), off)
	// CursorUp/Down step through soft-wrapped lines, so loop on the logical row.
	for guard := 0; ta.Line() > row && guard < 1<<16; guard++ {
		ta.CursorUp()
	}
	for guard := 0; ta.Line() < row && guard < 1<<16; guard++ {
		ta.CursorDown()
	}
	ta.SetCursor(col)
}

// applyCandidate replaces [res.From, cursor) with the candidate's insert text
// and returns the new buffer and cursor.
func applyCandidate(text string, res *autocomplete.Result, cursor int, c autocomplete.Candidate) (string, int) {
	cursor = max(0, min(cursor, len(text)))
	from := max(0, min(res.From, cursor))
	insert := c.InsertText()
	return text[:from] + insert + text[cursor:], from + len(insert)
}
