package suggestions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhath/ezcomplete/internal/autocomplete"
)

func cands(labels ...string) []autocomplete.Candidate {
	out := make([]autocomplete.Candidate, len(labels))
	for i, l := range labels {
		out[i] = autocomplete.Candidate{Label: l, Kind: autocomplete.KindColumn}
	}
	return out
}

func TestNavigationWraps(t *testing.T) {
	m := New().SetItems(cands("a", "b", "c")).Show()

	m = m.MoveUp()
	assert.Equal(t, 2, m.Selected())
	m = m.MoveDown()
	assert.Equal(t, 0, m.Selected())

	c, ok := m.MoveDown().SelectedItem()
	assert.True(t, ok)
	assert.Equal(t, "b", c.Label)
}

func TestSetItemsResetsSelection(t *testing.T) {
	m := New().SetItems(cands("a", "b", "c")).MoveDown().MoveDown()
	m = m.SetItems(cands("x"))
	assert.Equal(t, 0, m.Selected())

	_, ok := New().SelectedItem()
	assert.False(t, ok)
}

func TestWindowFollowsSelection(t *testing.T) {
	m := New().SetMaxShow(4).SetItems(cands("a", "b", "c", "d", "e", "f", "g", "h", "i", "j"))

	start, end := m.window()
	assert.Equal(t, [2]int{0, 4}, [2]int{start, end})

	for range 9 {
		m = m.MoveDown()
	}
	start, end = m.window()
	assert.Equal(t, [2]int{6, 10}, [2]int{start, end})
}

func TestViewHiddenOrEmpty(t *testing.T) {
	assert.Empty(t, New().SetItems(cands("a")).View())
	assert.Empty(t, New().Show().View())
	assert.Contains(t, New().Show().SetLoading(true).View(), "Loading")
	assert.Contains(t, New().SetItems(cands("order_id")).Show().View(), "order_id")
}
