package autocomplete

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/nhath/ezcomplete/internal/db"
	"github.com/nhath/ezcomplete/internal/metacache"
)

// resolvedTable is a table whose owning database is known.
type resolvedTable struct {
	database string
	table    string
	columns  []db.Column
}

func (t resolvedTable) owner() string {
	return t.database + "." + t.table
}

// request carries the per-invocation state shared by the builders.
type request struct {
	ctx         context.Context
	cache       *metacache.Cache
	aliases     AliasMap
	refs        []string
	concurrency int
	snippets    []Snippet
}

// tablesByDatabase lists every known database with its tables, in database order.
func (r *request) tablesByDatabase() ([]string, [][]string) {
	dbs := r.cache.EnsureDatabases(r.ctx)
	tables := make([][]string, len(dbs))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, name := range dbs {
		g.Go(func() error {
			tables[i] = r.cache.EnsureTables(r.ctx, name)
			return nil
		})
	}
	_ = g.Wait()
	return dbs, tables
}

// searchTable finds every database holding a table named name. An unqualified
// table may legally live in several databases; all of them are returned.
func (r *request) searchTable(name string) []resolvedTable {
	dbs := r.cache.EnsureDatabases(r.ctx)
	found := make([]*resolvedTable, len(dbs))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, database := range dbs {
		g.Go(func() error {
			for _, t := range r.cache.EnsureTables(r.ctx, database) {
				if strings.EqualFold(t, name) {
					found[i] = &resolvedTable{
						database: database,
						table:    t,
						columns:  r.cache.EnsureColumns(r.ctx, database, t),
					}
					break
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	var out []resolvedTable
	for _, t := range found {
		if t != nil {
			out = append(out, *t)
		}
	}
	return out
}

func (r *request) resolve(ref TableRef) []resolvedTable {
	if ref.Table == "" {
		return nil
	}
	if ref.Database == "" {
		return r.searchTable(ref.Table)
	}
	database, table, ok := r.canonicalTable(ref)
	if !ok {
		return nil
	}
	return []resolvedTable{{
		database: database,
		table:    table,
		columns:  r.cache.EnsureColumns(r.ctx, database, table),
	}}
}

// canonicalTable maps a qualified reference onto the names the source reports,
// ignoring case. ok is false when either part is unknown.
func (r *request) canonicalTable(ref TableRef) (database, table string, ok bool) {
	database, ok = r.isDatabase(ref.Database)
	if !ok {
		return "", "", false
	}
	for _, t := range r.cache.EnsureTables(r.ctx, database) {
		if strings.EqualFold(t, ref.Table) {
			return database, t, true
		}
	}
	return "", "", false
}

func (r *request) isDatabase(name string) (string, bool) {
	for _, database := range r.cache.EnsureDatabases(r.ctx) {
		if strings.EqualFold(database, name) {
			return database, true
		}
	}
	return "", false
}

func columnDetail(c db.Column, t resolvedTable) string {
	if c.Type == "" {
		return t.owner()
	}
	return c.Type + " (" + t.owner() + ")"
}

func memberColumns(tables []resolvedTable) []Candidate {
	var out []Candidate
	for _, t := range tables {
		for _, c := range t.columns {
			out = append(out, Candidate{Label: c.Name, Detail: columnDetail(c, t), Kind: KindColumn, Boost: boostDotMember})
		}
	}
	return out
}

// buildDot completes the member after "qualifier.". Aliases bind tighter than
// database names, which bind tighter than table names.
func (r *request) buildDot(cls Classification) []Candidate {
	if cls.Database != "" {
		return memberColumns(r.resolve(TableRef{Database: cls.Database, Table: cls.Qualifier}))
	}
	if ref, ok := r.aliases.Lookup(cls.Qualifier); ok {
		return memberColumns(r.resolve(ref))
	}
	if database, ok := r.isDatabase(cls.Qualifier); ok {
		var out []Candidate
		for _, t := range r.cache.EnsureTables(r.ctx, database) {
			out = append(out, Candidate{Label: t, Detail: database, Kind: KindTable, Boost: boostDotMember})
		}
		return out
	}
	return memberColumns(r.searchTable(cls.Qualifier))
}

type tableBoosts struct {
	bare, qualified, database int
}

func (r *request) tableCandidates(b tableBoosts) []Candidate {
	dbs, tables := r.tablesByDatabase()
	var out []Candidate
	for i, database := range dbs {
		for _, t := range tables[i] {
			out = append(out,
				Candidate{Label: t, Detail: database, Kind: KindTable, Boost: b.bare},
				Candidate{Label: database + "." + t, Detail: database, Kind: KindTable, Boost: b.qualified},
			)
		}
	}
	for _, database := range dbs {
		out = append(out, Candidate{Label: database, Kind: KindDatabase, Boost: b.database})
	}
	return out
}

func (r *request) buildTable() []Candidate {
	return r.tableCandidates(tableBoosts{bare: boostTable, qualified: boostQualifiedTable, database: boostTableDatabase})
}

// columnCandidates emits the columns of every referenced table, bare and
// qualified by each alias bound to that table.
func (r *request) columnCandidates(bare, aliased int) []Candidate {
	var out []Candidate
	for _, raw := range r.refs {
		ref := ParseTableRef(raw)
		aliases := r.aliases.AliasesOf(ref)
		for _, t := range r.resolve(ref) {
			for _, c := range t.columns {
				detail := columnDetail(c, t)
				out = append(out, Candidate{Label: c.Name, Detail: detail, Kind: KindColumn, Boost: bare})
				for _, a := range aliases {
					out = append(out, Candidate{Label: a + "." + c.Name, Detail: detail, Kind: KindColumn, Boost: aliased})
				}
			}
		}
	}
	return out
}

func (r *request) buildColumn() []Candidate {
	return r.columnCandidates(boostColumn, boostAliasColumn)
}

func (r *request) functionCandidates(boost int) []Candidate {
	var out []Candidate
	for _, f := range r.cache.EnsureFunctionsAndKeywords(r.ctx).Functions {
		out = append(out, Candidate{Label: f, Kind: KindFunction, Boost: boost})
	}
	return out
}

func (r *request) buildFunction() []Candidate {
	out := r.functionCandidates(boostFunctionCall)
	return append(out, r.columnCandidates(boostFunctionColumn, boostFunctionColumn)...)
}

func (r *request) buildDefault() []Candidate {
	out := snippetCandidates(r.snippets, boostDefaultSnippet)
	builtins := r.cache.EnsureFunctionsAndKeywords(r.ctx)
	for _, k := range builtins.Keywords {
		out = append(out, Candidate{Label: k, Kind: KindKeyword, Boost: boostDefaultKeyword})
	}
	out = append(out, r.functionCandidates(boostDefaultFunction)...)
	out = append(out, r.tableCandidates(tableBoosts{
		bare:      boostDefaultTable,
		qualified: boostDefaultQualifiedTable,
		database:  boostDefaultDatabase,
	})...)
	return append(out, r.columnCandidates(boostDefaultColumn, boostDefaultColumn)...)
}
