// internal/db/sqlite.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteDriver implements Driver for SQLite. Attached databases ("main", "temp",
// anything added with ATTACH) are reported as databases.
type SQLiteDriver struct {
	db *sql.DB
}

// Connect opens the database file named by params.Database
func (d *SQLiteDriver) Connect(params ConnectParams) error {
	dsn := strings.TrimPrefix(params.Database, "sqlite://")

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return WrapConnectionError(err)
	}
	// ATTACH is per connection; a single connection keeps attached databases visible.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 10000"); err != nil {
		db.Close()
		return WrapConnectionError(fmt.Errorf("pragma busy_timeout: %w", err))
	}

	d.db = db
	return nil
}

// Close closes the database connection
func (d *SQLiteDriver) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// Ping checks if database is reachable
func (d *SQLiteDriver) Ping(ctx context.Context) error {
	if d.db == nil {
		return WrapConnectionError(ErrNotConnected)
	}
	return d.db.PingContext(ctx)
}

// Type returns the driver type
func (d *SQLiteDriver) Type() DriverType {
	return SQLite
}

// FunctionsAndKeywords reads pragma_function_list when the library exposes it and
// always includes the static lists, since SQLite has no SQL-visible keyword table.
func (d *SQLiteDriver) FunctionsAndKeywords(ctx context.Context) (Builtins, error) {
	if d.db == nil {
		return Builtins{}, ErrNotConnected
	}
	functions, err := queryStrings(ctx, d.db, `SELECT DISTINCT name FROM pragma_function_list ORDER BY 1`)
	if err != nil {
		functions = nil
	}
	return Builtins{
		Functions: mergeNames(functions, FunctionsFor(SQLite)...),
		Keywords:  KeywordsFor(SQLite),
	}, nil
}

// ListDatabases returns the attached database names
func (d *SQLiteDriver) ListDatabases(ctx context.Context) ([]string, error) {
	if d.db == nil {
		return nil, ErrNotConnected
	}
	rows, err := d.db.QueryContext(ctx, "PRAGMA database_list")
	if err != nil {
		return nil, WrapQueryError(err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var seq int
		var name string
		var file sql.NullString
		if err := rows.Scan(&seq, &name, &file); err != nil {
			return nil, WrapQueryError(err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, WrapQueryError(err)
	}
	return names, nil
}

// ListTables returns the tables and views of one attached database
func (d *SQLiteDriver) ListTables(ctx context.Context, database string) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT name FROM %s.sqlite_master
		WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%%'
		ORDER BY name`, quoteIdent(database))
	return queryStrings(ctx, d.db, query)
}

// ListColumns returns column names and declared types
func (d *SQLiteDriver) ListColumns(ctx context.Context, database, table string) ([]Column, error) {
	return queryColumns(ctx, d.db, `SELECT name, type FROM pragma_table_info(?, ?) ORDER BY cid`, table, database)
}

// quoteIdent double-quotes an identifier, doubling embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
