package autocomplete

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhath/ezcomplete/internal/db"
	"github.com/nhath/ezcomplete/internal/metacache"
	"github.com/nhath/ezcomplete/internal/schema"
)

func fixtureSnapshot() schema.Snapshot {
	return schema.Snapshot{
		Functions: []string{"count", "countIf", "sum", "uniqExact"},
		Keywords:  []string{"SELECT", "FROM", "WHERE", "GROUP"},
		Databases: []schema.Database{
			{Name: "shop", Tables: []schema.Table{
				{Name: "orders", Columns: []db.Column{{Name: "id", Type: "Int32"}, {Name: "customer_id", Type: "Int32"}, {Name: "total", Type: "Decimal"}}},
				{Name: "customers", Columns: []db.Column{{Name: "id", Type: "Int32"}, {Name: "name", Type: "String"}}},
				{Name: "accounts", Columns: []db.Column{{Name: "id", Type: "Int32"}, {Name: "owner", Type: "String"}}},
			}},
			{Name: "raw", Tables: []schema.Table{
				{Name: "events", Columns: []db.Column{{Name: "event_id", Type: "UUID"}, {Name: "payload", Type: "String"}}},
			}},
			{Name: "curated", Tables: []schema.Table{
				{Name: "events", Columns: []db.Column{{Name: "event_id", Type: "UUID"}, {Name: "user_id", Type: "UInt64"}}},
				{Name: "users"},
			}},
		},
	}
}

func newTestEngine(t *testing.T, opts Options) (*Engine, *metacache.Cache) {
	t.Helper()
	cache := metacache.New(schema.FromSnapshot(fixtureSnapshot()), nil, metacache.Options{})
	return New(cache, opts), cache
}

// completeAt completes with the cursor at the first "|" in text.
func completeAt(t *testing.T, e *Engine, text string, explicit bool) *Result {
	t.Helper()
	cursor := strings.Index(text, "|")
	require.GreaterOrEqual(t, cursor, 0, "missing cursor marker")
	return e.Complete(context.Background(), strings.Replace(text, "|", "", 1), cursor, explicit)
}

type labelDetail struct{ Label, Detail string }

func labelsAndDetails(cands []Candidate) []labelDetail {
	out := make([]labelDetail, 0, len(cands))
	for _, c := range cands {
		out = append(out, labelDetail{c.Label, c.Detail})
	}
	return out
}

func TestCompleteDotPrefersAlias(t *testing.T) {
	e, _ := newTestEngine(t, Options{})

	res := completeAt(t, e, "SELECT o.| FROM orders o JOIN customers c ON o.id = c.id", false)

	require.NotNil(t, res)
	assert.Equal(t, ContextDot, res.Context)
	assert.Equal(t, 9, res.From)
	want := []labelDetail{
		{"id", "Int32 (shop.orders)"},
		{"customer_id", "Int32 (shop.orders)"},
		{"total", "Decimal (shop.orders)"},
	}
	if diff := cmp.Diff(want, labelsAndDetails(res.Options)); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestCompleteDotDatabaseBeatsTable(t *testing.T) {
	e, _ := newTestEngine(t, Options{})

	res := completeAt(t, e, "SELECT * FROM shop.|", false)

	require.NotNil(t, res)
	assert.Equal(t, ContextDot, res.Context)
	for _, c := range res.Options {
		assert.Equal(t, KindTable, c.Kind)
		assert.Equal(t, "shop", c.Detail)
	}
	assert.Equal(t, []labelDetail{{"orders", "shop"}, {"customers", "shop"}, {"accounts", "shop"}}, labelsAndDetails(res.Options))
}

func TestCompleteDotQualifiedTable(t *testing.T) {
	e, _ := newTestEngine(t, Options{})

	res := completeAt(t, e, "SELECT raw.events.| FROM raw.events", false)

	require.NotNil(t, res)
	assert.Equal(t, []labelDetail{
		{"event_id", "UUID (raw.events)"},
		{"payload", "String (raw.events)"},
	}, labelsAndDetails(res.Options))
}

func TestCompleteDotSearchesEveryDatabase(t *testing.T) {
	e, _ := newTestEngine(t, Options{})

	res := completeAt(t, e, "SELECT events.ev|", false)

	require.NotNil(t, res)
	assert.Equal(t, 14, res.From)
	assert.Equal(t, []labelDetail{
		{"event_id", "UUID (raw.events)"},
		{"event_id", "UUID (curated.events)"},
	}, labelsAndDetails(res.Options))
}

func TestCompleteDotUnknownQualifier(t *testing.T) {
	e, _ := newTestEngine(t, Options{})

	res := completeAt(t, e, "SELECT zz.|", false)

	require.NotNil(t, res)
	assert.Empty(t, res.Options)
}

func TestCompleteTableInEveryDatabase(t *testing.T) {
	e, _ := newTestEngine(t, Options{})

	res := completeAt(t, e, "SELECT * FROM events|", false)

	require.NotNil(t, res)
	assert.Equal(t, ContextTable, res.Context)
	require.GreaterOrEqual(t, len(res.Options), 2)
	assert.Equal(t, []labelDetail{{"events", "raw"}, {"events", "curated"}}, labelsAndDetails(res.Options[:2]))

	var qualified []string
	for _, c := range res.Options {
		if strings.Contains(c.Label, ".") {
			qualified = append(qualified, c.Label)
		}
	}
	assert.Equal(t, []string{"raw.events", "curated.events"}, qualified)
}

func TestCompleteTableOffersDatabases(t *testing.T) {
	e, _ := newTestEngine(t, Options{})

	res := completeAt(t, e, "SELECT * FROM cur|", false)

	require.NotNil(t, res)
	var dbs []string
	for _, c := range res.Options {
		if c.Kind == KindDatabase {
			dbs = append(dbs, c.Label)
		}
	}
	assert.Equal(t, []string{"curated"}, dbs)
}

func TestCompleteColumnUnionAcrossDatabases(t *testing.T) {
	e, _ := newTestEngine(t, Options{})

	res := completeAt(t, e, "SELECT | FROM events", true)

	require.NotNil(t, res)
	assert.Equal(t, ContextColumn, res.Context)
	want := []labelDetail{
		{"event_id", "UUID (raw.events)"},
		{"payload", "String (raw.events)"},
		{"event_id", "UUID (curated.events)"},
		{"user_id", "UInt64 (curated.events)"},
	}
	if diff := cmp.Diff(want, labelsAndDetails(res.Options)); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestCompleteColumnAliasFormsOutrankBare(t *testing.T) {
	e, _ := newTestEngine(t, Options{})

	res := completeAt(t, e, "SELECT | FROM orders o", true)

	require.NotNil(t, res)
	require.Len(t, res.Options, 6)
	for i, c := range res.Options {
		if i < 3 {
			assert.True(t, strings.HasPrefix(c.Label, "o."), c.Label)
			assert.Equal(t, boostAliasColumn, c.Boost)
		} else {
			assert.False(t, strings.Contains(c.Label, "."), c.Label)
			assert.Equal(t, boostColumn, c.Boost)
		}
	}
}

func TestCompleteFunctionArguments(t *testing.T) {
	e, _ := newTestEngine(t, Options{})

	res := completeAt(t, e, "SELECT countIf(ev| FROM events", false)

	require.NotNil(t, res)
	assert.Equal(t, ContextFunction, res.Context)
	require.NotEmpty(t, res.Options)
	assert.Equal(t, "event_id", res.Options[0].Label)
	for _, c := range res.Options {
		assert.Contains(t, []Kind{KindColumn, KindFunction}, c.Kind)
	}
}

func TestCompleteSelectCounRanksCountFamilyFirst(t *testing.T) {
	e, _ := newTestEngine(t, Options{})

	res := completeAt(t, e, "SELECT coun|", false)

	require.NotNil(t, res)
	assert.Equal(t, ContextDefault, res.Context)
	require.NotEmpty(t, res.Options)

	lastCount, firstTable := -1, len(res.Options)
	for i, c := range res.Options {
		isCount := strings.HasPrefix(strings.ToLower(c.Label), "count")
		if isCount && (c.Kind == KindFunction || c.Kind == KindSnippet) {
			lastCount = i
		}
		if c.Kind == KindTable && i < firstTable {
			firstTable = i
		}
	}
	require.GreaterOrEqual(t, lastCount, 0)
	assert.Less(t, lastCount, firstTable)
	assert.Contains(t, []Kind{KindFunction, KindSnippet}, res.Options[0].Kind)
}

func TestCompleteEmptyPartialOrderedByBoost(t *testing.T) {
	e, _ := newTestEngine(t, Options{})

	res := completeAt(t, e, "|", true)

	require.NotNil(t, res)
	require.NotEmpty(t, res.Options)
	for i := 1; i < len(res.Options); i++ {
		assert.GreaterOrEqual(t, res.Options[i-1].Boost, res.Options[i].Boost, "at %d", i)
	}
	assert.Equal(t, KindSnippet, res.Options[0].Kind)
}

func TestCompleteNilWithoutToken(t *testing.T) {
	e, _ := newTestEngine(t, Options{})

	assert.Nil(t, completeAt(t, e, "SELECT * FROM orders WHERE |", false))
	assert.Nil(t, completeAt(t, e, "SELECT 1 + |", false))
	assert.NotNil(t, completeAt(t, e, "SELECT 1 + |", true))
}

func TestCompleteQuotedPartial(t *testing.T) {
	e, _ := newTestEngine(t, Options{})

	text := `SELECT * FROM "ev`
	res := e.Complete(context.Background(), text, len(text), false)

	require.NotNil(t, res)
	assert.Equal(t, len(text)-3, res.From)
	assert.Equal(t, `"ev`, res.Partial)
	assert.Equal(t, "events", res.Options[0].Label)
	assert.True(t, res.ValidFor.MatchString(`ents"`))
	assert.False(t, res.ValidFor.MatchString("ents "))
}

func TestCompleteClampsCursor(t *testing.T) {
	e, _ := newTestEngine(t, Options{})

	res := e.Complete(context.Background(), "SEL", 99, false)
	require.NotNil(t, res)
	assert.Equal(t, 0, res.From)
	assert.Equal(t, "SEL", res.Partial)

	res = e.Complete(context.Background(), "SEL", -4, true)
	require.NotNil(t, res)
	assert.Equal(t, 0, res.From)
	assert.Equal(t, "", res.Partial)
}

func TestCompleteDeterministic(t *testing.T) {
	e, _ := newTestEngine(t, Options{})
	text := "SELECT e| FROM events JOIN shop.orders o ON 1 = 1"

	first := completeAt(t, e, text, false)
	second := completeAt(t, e, text, false)

	if diff := cmp.Diff(first.Options, second.Options); diff != "" {
		t.Errorf("results differ between runs (-first +second):\n%s", diff)
	}
}

func TestCompleteBoundedAndDeduplicated(t *testing.T) {
	snap := fixtureSnapshot()
	big := schema.Database{Name: "big"}
	for i := range 400 {
		big.Tables = append(big.Tables, schema.Table{Name: fmt.Sprintf("t_%03d", i)})
	}
	snap.Databases = append(snap.Databases, big)
	cache := metacache.New(schema.FromSnapshot(snap), nil, metacache.Options{})

	res := New(cache, Options{}).Complete(context.Background(), "", 0, true)
	require.NotNil(t, res)
	assert.Len(t, res.Options, MaxResultsCeiling)

	seen := make(map[candidateKey]bool)
	for _, c := range res.Options {
		key := candidateKey{c.Label, c.Kind, c.Detail}
		assert.False(t, seen[key], "duplicate %+v", key)
		seen[key] = true
	}

	res = New(cache, Options{MaxResults: 5}).Complete(context.Background(), "", 0, true)
	assert.Len(t, res.Options, 5)
}

func TestCompleteReusesCache(t *testing.T) {
	e, cache := newTestEngine(t, Options{})

	completeAt(t, e, "SELECT | FROM events", true)
	after := cache.Stats()
	require.Positive(t, after.Fetches)

	completeAt(t, e, "SELECT us| FROM events", false)
	assert.Equal(t, after, cache.Stats())
}

func TestCompleteUserSnippets(t *testing.T) {
	body := "SELECT toDate(ts) AS day, count()\nFROM events\nGROUP BY day"
	e, _ := newTestEngine(t, Options{Snippets: []Snippet{{Label: "daily events", Body: body}}})

	res := completeAt(t, e, "dai|", false)

	require.NotNil(t, res)
	require.NotEmpty(t, res.Options)
	assert.Equal(t, "daily events", res.Options[0].Label)
	assert.Equal(t, body, res.Options[0].InsertText())
}

func TestCompleteRecoversFromFailure(t *testing.T) {
	e := New(nil, Options{})

	res := e.Complete(context.Background(), "SELECT * FROM ev", 16, false)

	require.NotNil(t, res)
	assert.Equal(t, ContextTable, res.Context)
	assert.Empty(t, res.Options)
}

// crashingSource serves the fixture but panics when listing tables of one database.
type crashingSource struct {
	*schema.Tree
	database string
}

func (s crashingSource) ListTables(ctx context.Context, database string) ([]string, error) {
	if database == s.database {
		panic("driver bug")
	}
	return s.Tree.ListTables(ctx, database)
}

func TestCompleteSurvivesPanickingSource(t *testing.T) {
	src := crashingSource{Tree: schema.FromSnapshot(fixtureSnapshot()), database: "raw"}
	cache := metacache.New(src, nil, metacache.Options{})
	e := New(cache, Options{})

	res := e.Complete(context.Background(), "SELECT * FROM ev", 16, false)

	require.NotNil(t, res)
	assert.Equal(t, ContextTable, res.Context)
	assert.Contains(t, labelsAndDetails(res.Options), labelDetail{"events", "curated"})
	assert.NotContains(t, labelsAndDetails(res.Options), labelDetail{"events", "raw"})
	assert.EqualValues(t, 1, cache.Stats().Failures)
}

func TestCompleteQualifiedRefIgnoresCase(t *testing.T) {
	e, cache := newTestEngine(t, Options{})

	res := completeAt(t, e, "SELECT o.| FROM Shop.Orders o", false)
	require.NotNil(t, res)
	assert.Equal(t, []labelDetail{
		{"id", "Int32 (shop.orders)"},
		{"customer_id", "Int32 (shop.orders)"},
		{"total", "Decimal (shop.orders)"},
	}, labelsAndDetails(res.Options))

	res = completeAt(t, e, "SELECT * FROM SHOP.orders WHERE to|", false)
	require.NotNil(t, res)
	require.NotEmpty(t, res.Options)
	assert.Equal(t, labelDetail{"total", "Decimal (shop.orders)"}, labelsAndDetails(res.Options)[0])

	res = completeAt(t, e, "SELECT Raw.EVENTS.| FROM raw.events", false)
	require.NotNil(t, res)
	assert.Len(t, res.Options, 2)

	// Case variants resolve onto the one cached key; nothing misses.
	assert.Zero(t, cache.Stats().Failures)
}

func TestResultRefine(t *testing.T) {
	e, _ := newTestEngine(t, Options{})

	res := completeAt(t, e, "SELECT | FROM events", true)
	require.NotNil(t, res)

	opts, ok := res.Refine("us")
	require.True(t, ok)
	assert.Equal(t, []labelDetail{{"user_id", "UInt64 (curated.events)"}}, labelsAndDetails(opts))

	_, ok = res.Refine("us ")
	assert.False(t, ok)

	var nilResult *Result
	_, ok = nilResult.Refine("x")
	assert.False(t, ok)
}
