package autocomplete

// Snippet is a canned multi-line query skeleton offered in default context.
type Snippet struct {
	Label  string
	Detail string
	Body   string
}

// DefaultSnippets are offered before any user-configured snippets.
var DefaultSnippets = []Snippet{
	{Label: "select from", Detail: "SELECT ... FROM", Body: "SELECT *\nFROM table_name\nLIMIT 100"},
	{Label: "select where", Detail: "SELECT ... WHERE", Body: "SELECT *\nFROM table_name\nWHERE condition\nLIMIT 100"},
	{Label: "count by group", Detail: "count() per group", Body: "SELECT column_name, count() AS cnt\nFROM table_name\nGROUP BY column_name\nORDER BY cnt DESC"},
	{Label: "countIf by group", Detail: "countIf() per group", Body: "SELECT column_name, countIf(condition) AS cnt\nFROM table_name\nGROUP BY column_name\nORDER BY cnt DESC"},
	{Label: "join on", Detail: "two-table join", Body: "SELECT a.*, b.*\nFROM table_a a\nJOIN table_b b ON a.id = b.a_id"},
	{Label: "insert into values", Detail: "INSERT", Body: "INSERT INTO table_name (column_a, column_b)\nVALUES (value_a, value_b)"},
	{Label: "update set where", Detail: "UPDATE", Body: "UPDATE table_name\nSET column_name = value\nWHERE condition"},
	{Label: "with cte", Detail: "common table expression", Body: "WITH cte AS (\n    SELECT *\n    FROM table_name\n)\nSELECT *\nFROM cte"},
}

func snippetCandidates(snippets []Snippet, boost int) []Candidate {
	out := make([]Candidate, 0, len(snippets))
	for _, s := range snippets {
		if s.Label == "" || s.Body == "" {
			continue
		}
		out = append(out, Candidate{Label: s.Label, Detail: s.Detail, Kind: KindSnippet, Boost: boost, Apply: s.Body})
	}
	return out
}
