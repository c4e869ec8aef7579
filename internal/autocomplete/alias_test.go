package autocomplete

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestBuildAliasMap(t *testing.T) {
	tests := []struct {
		name string
		text string
		want AliasMap
	}{
		{
			name: "join with and without AS",
			text: "SELECT * FROM orders o JOIN customers AS c ON o.id = c.id",
			want: AliasMap{"o": {Table: "orders"}, "c": {Table: "customers"}},
		},
		{
			name: "quoted qualified reference",
			text: `SELECT e. FROM "raw"."events" e`,
			want: AliasMap{"e": {Database: "raw", Table: "events"}},
		},
		{
			name: "clause keyword is not an alias",
			text: "SELECT * FROM orders WHERE total > 10",
			want: AliasMap{},
		},
		{
			name: "comma separated FROM list",
			text: "SELECT * FROM orders o, shop.customers c WHERE o.customer_id = c.id",
			want: AliasMap{"o": {Table: "orders"}, "c": {Database: "shop", Table: "customers"}},
		},
		{
			name: "later alias wins",
			text: "SELECT * FROM a x JOIN b x ON 1 = 1",
			want: AliasMap{"x": {Table: "b"}},
		},
		{
			name: "join keyword after reference without alias",
			text: "SELECT * FROM orders\nLEFT JOIN customers c ON c.id = orders.customer_id",
			want: AliasMap{"c": {Table: "customers"}},
		},
		{
			name: "incomplete statement",
			text: "SELECT * FROM",
			want: AliasMap{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, BuildAliasMap(tt.text)); diff != "" {
				t.Errorf("BuildAliasMap() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildReferencedTables(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "dedup in first-seen order",
			text: "SELECT * FROM orders JOIN orders o2 ON 1 = 1 JOIN raw.events e ON 1 = 1",
			want: []string{"orders", "raw.events"},
		},
		{
			name: "quotes are stripped",
			text: "SELECT * FROM `shop`.`orders`",
			want: []string{"shop.orders"},
		},
		{
			name: "subquery tables are not scoped",
			text: "SELECT * FROM (SELECT id FROM inner_t) sub JOIN outer_t ON 1 = 1",
			want: []string{"inner_t", "outer_t"},
		},
		{
			name: "no references",
			text: "SELECT 1",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildReferencedTables(tt.text))
		})
	}
}

func TestParseTableRef(t *testing.T) {
	assert.Equal(t, TableRef{Table: "orders"}, ParseTableRef("orders"))
	assert.Equal(t, TableRef{Database: "shop", Table: "orders"}, ParseTableRef("shop.orders"))
	assert.Equal(t, TableRef{Database: "a", Table: "b"}, ParseTableRef("a.b.c"))
}

func TestAliasMapLookup(t *testing.T) {
	m := AliasMap{"o": {Table: "orders"}, "Cust": {Table: "customers"}}

	ref, ok := m.Lookup("o")
	assert.True(t, ok)
	assert.Equal(t, "orders", ref.Table)

	ref, ok = m.Lookup("cust")
	assert.True(t, ok)
	assert.Equal(t, "customers", ref.Table)

	_, ok = m.Lookup("x")
	assert.False(t, ok)
}

func TestAliasesOf(t *testing.T) {
	m := AliasMap{
		"o2": {Table: "orders"},
		"o1": {Table: "ORDERS"},
		"c":  {Table: "customers"},
		"so": {Database: "shop", Table: "orders"},
	}
	assert.Equal(t, []string{"o1", "o2"}, m.AliasesOf(TableRef{Table: "orders"}))
	assert.Equal(t, []string{"so"}, m.AliasesOf(TableRef{Database: "shop", Table: "orders"}))
	assert.Empty(t, m.AliasesOf(TableRef{Table: "users"}))
}
