// Package schema holds an in-memory schema tree: the host's own view of the
// databases, tables and columns it has browsed or loaded from a snapshot file.
package schema

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/goccy/go-yaml"

	"github.com/nhath/ezcomplete/internal/db"
)

var ErrNotInSnapshot = errors.New("not in schema snapshot")

// Snapshot is the on-disk form of a tree.
type Snapshot struct {
	Functions []string   `yaml:"functions,omitempty"`
	Keywords  []string   `yaml:"keywords,omitempty"`
	Databases []Database `yaml:"databases"`
}

type Database struct {
	Name   string  `yaml:"name"`
	Tables []Table `yaml:"tables,omitempty"`
}

type Table struct {
	Name    string      `yaml:"name"`
	Columns []db.Column `yaml:"columns,omitempty"`
}

// Tree is safe for concurrent use. A database or table is "known" once it has
// been put, even with no children; only then do lookups report ok.
type Tree struct {
	mu        sync.RWMutex
	builtins  db.Builtins
	databases []string
	tables    map[string][]string
	columns   map[string][]db.Column
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{
		tables:  make(map[string][]string),
		columns: make(map[string][]db.Column),
	}
}

// Load reads a YAML snapshot file.
func Load(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema snapshot: %w", err)
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse schema snapshot %s: %w", path, err)
	}
	return FromSnapshot(snap), nil
}

// FromSnapshot builds a tree where every listed database and table is known.
func FromSnapshot(snap Snapshot) *Tree {
	t := NewTree()
	t.builtins = db.Builtins{Functions: snap.Functions, Keywords: snap.Keywords}
	for _, d := range snap.Databases {
		names := make([]string, 0, len(d.Tables))
		for _, tbl := range d.Tables {
			names = append(names, tbl.Name)
			t.PutColumns(d.Name, tbl.Name, tbl.Columns)
		}
		t.PutTables(d.Name, names)
	}
	return t
}

// PutTables records the full table list of a database.
func (t *Tree) PutTables(database string, tables []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.tables[database]; !ok {
		t.databases = append(t.databases, database)
	}
	if tables == nil {
		tables = []string{}
	}
	t.tables[database] = tables
}

// PutColumns records the columns of database.table.
func (t *Tree) PutColumns(database, table string, cols []db.Column) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if cols == nil {
		cols = []db.Column{}
	}
	t.columns[database+"."+table] = cols
}

// Databases reports the databases put so far; ok is false for an empty tree so
// the cache falls through to the server.
func (t *Tree) Databases() ([]string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.databases) == 0 {
		return nil, false
	}
	return append([]string(nil), t.databases...), true
}

func (t *Tree) Tables(database string) ([]string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	tables, ok := t.tables[database]
	return tables, ok
}

func (t *Tree) Columns(database, table string) ([]db.Column, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	cols, ok := t.columns[database+"."+table]
	return cols, ok
}

// Snapshot sources: a tree can also stand in for a server when no profile is
// configured. Unknown keys are reported as errors, which the cache caches as empty.

func (t *Tree) FunctionsAndKeywords(ctx context.Context) (db.Builtins, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.builtins, nil
}

func (t *Tree) ListDatabases(ctx context.Context) ([]string, error) {
	dbs, _ := t.Databases()
	return dbs, nil
}

func (t *Tree) ListTables(ctx context.Context, database string) ([]string, error) {
	if tables, ok := t.Tables(database); ok {
		return tables, nil
	}
	return nil, fmt.Errorf("%w: database %s", ErrNotInSnapshot, database)
}

func (t *Tree) ListColumns(ctx context.Context, database, table string) ([]db.Column, error) {
	if cols, ok := t.Columns(database, table); ok {
		return cols, nil
	}
	return nil, fmt.Errorf("%w: table %s.%s", ErrNotInSnapshot, database, table)
}
