// Package metacache memoizes schema metadata for the completion engine.
//
// Every lookup is get-or-fetch: a resolved value is returned as is, a value the
// host's schema tree already holds short-circuits the fetch, and concurrent
// callers asking for the same key share one in-flight fetch. Failed fetches are
// logged and cached as empty values; nothing is retried or invalidated.
package metacache

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/nhath/ezcomplete/internal/db"
)

// Source fetches metadata from a server. Implementations must tolerate
// repeated calls in any order.
type Source interface {
	FunctionsAndKeywords(ctx context.Context) (db.Builtins, error)
	ListDatabases(ctx context.Context) ([]string, error)
	ListTables(ctx context.Context, database string) ([]string, error)
	ListColumns(ctx context.Context, database, table string) ([]db.Column, error)
}

// LocalTree is schema the host already holds in memory (its schema browser).
// ok reports whether the value is known; a known empty list is still ok.
type LocalTree interface {
	Databases() ([]string, bool)
	Tables(database string) ([]string, bool)
	Columns(database, table string) ([]db.Column, bool)
}

// Options tune a Cache.
type Options struct {
	// FetchTimeout bounds each source call. Zero means no limit.
	FetchTimeout time.Duration
}

// Stats counts source calls, for tests and diagnostics.
type Stats struct {
	Fetches  int64
	Failures int64
}

// Cache is the per-session metadata cache. The zero value is not usable; use New.
type Cache struct {
	source  Source
	tree    LocalTree
	timeout time.Duration

	group singleflight.Group

	mu        sync.RWMutex
	builtins  *db.Builtins
	databases []string
	dbsLoaded bool
	tables    map[string][]string
	columns   map[string][]db.Column

	fetches  atomic.Int64
	failures atomic.Int64
}

// New creates a cache over source. Either argument may be nil: a nil source
// resolves every key to empty, a nil tree is never consulted.
func New(source Source, tree LocalTree, opts Options) *Cache {
	return &Cache{
		source:  source,
		tree:    tree,
		timeout: opts.FetchTimeout,
		tables:  make(map[string][]string),
		columns: make(map[string][]db.Column),
	}
}

// Stats returns a snapshot of the fetch counters.
func (c *Cache) Stats() Stats {
	return Stats{Fetches: c.fetches.Load(), Failures: c.failures.Load()}
}

// EnsureFunctionsAndKeywords returns the server's function names and keywords.
func (c *Cache) EnsureFunctionsAndKeywords(ctx context.Context) db.Builtins {
	lookup := func() (any, bool) {
		c.mu.RLock()
		defer c.mu.RUnlock()
		if c.builtins == nil {
			return nil, false
		}
		return *c.builtins, true
	}
	if v, ok := lookup(); ok {
		return v.(db.Builtins)
	}

	v := c.fetch(ctx, "builtins", lookup, func(ctx context.Context) (any, error) {
		return c.source.FunctionsAndKeywords(ctx)
	}, func(v any) any {
		b, _ := v.(db.Builtins)
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.builtins == nil {
			c.builtins = &b
		}
		return *c.builtins
	})
	return v.(db.Builtins)
}

// EnsureDatabases returns the known database names.
func (c *Cache) EnsureDatabases(ctx context.Context) []string {
	if c.tree != nil {
		if dbs, ok := c.tree.Databases(); ok {
			return dbs
		}
	}
	lookup := func() (any, bool) {
		c.mu.RLock()
		defer c.mu.RUnlock()
		return c.databases, c.dbsLoaded
	}
	if v, ok := lookup(); ok {
		return v.([]string)
	}

	v := c.fetch(ctx, "databases", lookup, func(ctx context.Context) (any, error) {
		return c.source.ListDatabases(ctx)
	}, func(v any) any {
		dbs, _ := v.([]string)
		c.mu.Lock()
		defer c.mu.Unlock()
		if !c.dbsLoaded {
			c.databases, c.dbsLoaded = nonNil(dbs), true
		}
		return c.databases
	})
	return v.([]string)
}

// EnsureTables returns the table names of one database.
func (c *Cache) EnsureTables(ctx context.Context, database string) []string {
	if c.tree != nil {
		if tables, ok := c.tree.Tables(database); ok {
			return tables
		}
	}
	lookup := func() (any, bool) {
		c.mu.RLock()
		defer c.mu.RUnlock()
		tables, ok := c.tables[database]
		return tables, ok
	}
	if v, ok := lookup(); ok {
		return v.([]string)
	}

	v := c.fetch(ctx, "tables:"+database, lookup, func(ctx context.Context) (any, error) {
		return c.source.ListTables(ctx, database)
	}, func(v any) any {
		tables, _ := v.([]string)
		c.mu.Lock()
		defer c.mu.Unlock()
		if existing, ok := c.tables[database]; ok {
			return existing
		}
		c.tables[database] = nonNil(tables)
		return c.tables[database]
	})
	return v.([]string)
}

// EnsureColumns returns the columns of database.table.
func (c *Cache) EnsureColumns(ctx context.Context, database, table string) []db.Column {
	if c.tree != nil {
		if cols, ok := c.tree.Columns(database, table); ok {
			return cols
		}
	}
	key := database + "." + table
	lookup := func() (any, bool) {
		c.mu.RLock()
		defer c.mu.RUnlock()
		cols, ok := c.columns[key]
		return cols, ok
	}
	if v, ok := lookup(); ok {
		return v.([]db.Column)
	}

	v := c.fetch(ctx, "columns:"+key, lookup, func(ctx context.Context) (any, error) {
		return c.source.ListColumns(ctx, database, table)
	}, func(v any) any {
		cols, _ := v.([]db.Column)
		c.mu.Lock()
		defer c.mu.Unlock()
		if existing, ok := c.columns[key]; ok {
			return existing
		}
		if cols == nil {
			cols = []db.Column{}
		}
		c.columns[key] = cols
		return cols
	})
	return v.([]db.Column)
}

// fetch runs load at most once per in-flight key and hands its value (nil on
// failure) to store, which records it and returns what callers should see.
// lookup is re-checked inside the flight: a caller that missed the map just
// before another flight stored the key must not start a second fetch.
// The shared call is detached from ctx's cancellation so one caller giving up
// cannot cache an empty value for everyone else.
func (c *Cache) fetch(ctx context.Context, key string, lookup func() (any, bool), load func(context.Context) (any, error), store func(any) any) any {
	v, _, _ := c.group.Do(key, func() (any, error) {
		if v, ok := lookup(); ok {
			return v, nil
		}
		var val any
		if c.source != nil {
			fctx := context.WithoutCancel(ctx)
			if c.timeout > 0 {
				var cancel context.CancelFunc
				fctx, cancel = context.WithTimeout(fctx, c.timeout)
				defer cancel()
			}
			c.fetches.Add(1)
			res, err := safeLoad(fctx, load)
			if err != nil {
				c.failures.Add(1)
				log.Printf("metacache: fetch %s failed: %v", key, err)
			} else {
				val = res
			}
		}
		return store(val), nil
	})
	return v
}

// safeLoad turns a panicking source into an ordinary failure. Fetches may run
// on errgroup workers, where no caller can recover.
func safeLoad(ctx context.Context, load func(context.Context) (any, error)) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, fmt.Errorf("source panicked: %v", r)
		}
	}()
	return load(ctx)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
