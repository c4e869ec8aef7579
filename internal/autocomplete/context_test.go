package autocomplete

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		before string
		want   Classification
	}{
		{"SELECT * FROM db.", Classification{Class: ContextDot, Qualifier: "db"}},
		{"select * from raw.e", Classification{Class: ContextDot, Qualifier: "raw", Partial: "e"}},
		{"SELECT o.na", Classification{Class: ContextDot, Qualifier: "o", Partial: "na"}},
		{"SELECT raw.events.ev", Classification{Class: ContextDot, Database: "raw", Qualifier: "events", Partial: "ev"}},
		{`SELECT "my db".t`, Classification{Class: ContextDot, Qualifier: "my db", Partial: "t"}},
		{"SELECT * FROM ev", Classification{Class: ContextTable, Partial: "ev"}},
		{"SELECT * FROM Shop.or", Classification{Class: ContextDot, Qualifier: "Shop", Partial: "or"}},
		{"INSERT INTO ", Classification{Class: ContextTable}},
		{"SELECT * FROM `ev", Classification{Class: ContextTable, Partial: "`ev"}},
		{"SELECT * FROM orders o\nJOIN ", Classification{Class: ContextTable}},
		{"SELECT * FROM t WHERE ", Classification{Class: ContextColumn}},
		{"SELECT * FROM t ORDER BY cr", Classification{Class: ContextColumn, Partial: "cr"}},
		{"SELECT * FROM t WHERE a = 1 and us", Classification{Class: ContextColumn, Partial: "us"}},
		{"SELECT coun", Classification{Class: ContextColumn, Partial: "coun"}},
		{"SELECT count(us", Classification{Class: ContextFunction, Function: "count", Partial: "us"}},
		{"SELECT countIf( ", Classification{Class: ContextFunction, Function: "countIf"}},
		{"", Classification{Class: ContextDefault}},
		{"SEL", Classification{Class: ContextDefault, Partial: "SEL"}},
		{"SELECT 1 +", Classification{Class: ContextDefault}},
		{"SELECT a, b", Classification{Class: ContextDefault, Partial: "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.before, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.before, 0))
		})
	}
}

func TestClassifyWindow(t *testing.T) {
	far := "SELECT * FROM " + strings.Repeat(" ", 1200) + "ev"
	assert.Equal(t, ContextDefault, Classify(far, 0).Class)
	assert.Equal(t, ContextTable, Classify(far, 2000).Class)

	near := strings.Repeat("x ", 2000) + "FROM ev"
	assert.Equal(t, ContextTable, Classify(near, 10).Class)
}

func TestTailKeepsRuneBoundary(t *testing.T) {
	s := "éé"
	assert.Equal(t, "é", tail(s, 3))
	assert.Equal(t, s, tail(s, 10))
}

func TestContextClassString(t *testing.T) {
	assert.Equal(t, "dot", ContextDot.String())
	assert.Equal(t, "function", ContextFunction.String())
	assert.Equal(t, "default", ContextClass(42).String())
}
