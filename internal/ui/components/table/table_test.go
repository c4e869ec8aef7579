package table

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhath/ezcomplete/internal/autocomplete"
)

func TestCalculateColumnWidths(t *testing.T) {
	widths := calculateColumnWidths(
		[]string{"Label", "Kind"},
		[][]string{{"customer_id", "column"}, {"with cte\nSELECT", "snippet"}},
	)
	assert.Equal(t, map[string]int{"Label": 13, "Kind": 9}, widths)
}

func TestFromCandidatesView(t *testing.T) {
	view := FromCandidates([]autocomplete.Candidate{
		{Label: "event_id", Kind: autocomplete.KindColumn, Detail: "UUID (raw.events)", Boost: 20},
		{Label: "events", Kind: autocomplete.KindTable, Detail: "raw", Boost: 20},
	}).View()

	assert.Contains(t, view, "event_id")
	assert.Contains(t, view, "UUID (raw.events)")
	assert.Contains(t, view, "table")
}
