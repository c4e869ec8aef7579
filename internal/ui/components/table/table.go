// Package table renders completion candidates with bubble-table.
package table

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	bbtable "github.com/evertras/bubble-table/table"

	"github.com/nhath/ezcomplete/internal/autocomplete"
)

// Nord colors
const (
	ColorForeground = "#D8DEE9"
	ColorComment    = "#4C566A"
	ColorCyan       = "#88C0D0"
	ColorGreen      = "#A3BE8C"
	ColorOrange     = "#D08770"
	ColorPurple     = "#B48EAD"
	ColorYellow     = "#EBCB8B"
	ColorTeal       = "#8FBCBB"
)

const (
	colRank   = "#"
	colLabel  = "Label"
	colKind   = "Kind"
	colDetail = "Detail"
	colBoost  = "Boost"

	maxLabelWidth  = 48
	maxDetailWidth = 40
)

// New creates a new bubble-table with Nord theme (no background)
func New(cols []bbtable.Column) bbtable.Model {
	return bbtable.New(cols).
		WithBaseStyle(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorForeground))).
		HeaderStyle(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorTeal)).
			Bold(true)).
		HighlightStyle(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorGreen)).
			Bold(true)).
		BorderRounded()
}

// FromCandidates builds a static table of ranked candidates, best first.
// Multi-line snippet bodies are not shown; the label names the snippet.
func FromCandidates(cands []autocomplete.Candidate) bbtable.Model {
	headers := []string{colRank, colLabel, colKind, colDetail, colBoost}
	rowsData := make([][]string, 0, len(cands))
	for i, c := range cands {
		rowsData = append(rowsData, []string{
			strconv.Itoa(i + 1),
			c.Label,
			c.Kind.String(),
			c.Detail,
			strconv.Itoa(c.Boost),
		})
	}

	widths := calculateColumnWidths(headers, rowsData)
	widths[colLabel] = min(widths[colLabel], maxLabelWidth)
	widths[colDetail] = min(widths[colDetail], maxDetailWidth)

	cols := make([]bbtable.Column, 0, len(headers))
	for _, h := range headers {
		cols = append(cols, bbtable.NewColumn(h, h, widths[h]))
	}

	rows := make([]bbtable.Row, 0, len(cands))
	for i, c := range cands {
		rd := rowsData[i]
		rows = append(rows, bbtable.NewRow(bbtable.RowData{
			colRank:   bbtable.NewStyledCell(rd[0], lipgloss.NewStyle().Foreground(lipgloss.Color(ColorComment))),
			colLabel:  rd[1],
			colKind:   bbtable.NewStyledCell(rd[2], KindStyle(c.Kind)),
			colDetail: bbtable.NewStyledCell(rd[3], lipgloss.NewStyle().Foreground(lipgloss.Color(ColorComment))),
			colBoost:  rd[4],
		}))
	}

	return New(cols).WithRows(rows).WithNoPagination()
}

func calculateColumnWidths(headers []string, rows [][]string) map[string]int {
	widths := make(map[string]int)
	for _, h := range headers {
		widths[h] = lipgloss.Width(h)
	}

	for _, row := range rows {
		for i, val := range row {
			if i < len(headers) {
				// Only the first line of a multi-line value is measured
				first, _, _ := strings.Cut(val, "\n")
				widths[headers[i]] = max(widths[headers[i]], lipgloss.Width(first))
			}
		}
	}

	// Add padding
	for h := range widths {
		widths[h] += 2
	}
	return widths
}

// KindStyle colors a candidate kind
func KindStyle(k autocomplete.Kind) lipgloss.Style {
	switch k {
	case autocomplete.KindKeyword:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorCyan))
	case autocomplete.KindFunction:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPurple))
	case autocomplete.KindDatabase, autocomplete.KindTable:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow))
	case autocomplete.KindColumn:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGreen))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorOrange))
	}
}
