// internal/db/driver.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// DriverType represents supported database types
type DriverType string

const (
	Postgres DriverType = "postgres"
	MySQL    DriverType = "mysql"
	SQLite   DriverType = "sqlite"
)

// Column represents table column metadata
type Column struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"`
}

// Builtins holds the function names and keywords a server understands
type Builtins struct {
	Functions []string
	Keywords  []string
}

// ConnectParams holds database connection details
type ConnectParams struct {
	Host      string
	Port      int
	User      string
	Password  string
	Database  string
	SSHConfig *SSHConfig // Optional SSH tunnel config
}

// Driver is a live connection that can describe the schema it is connected to.
//
// "Database" follows the completion engine's vocabulary: Postgres schemas,
// MySQL databases and SQLite attached databases are all reported as databases.
type Driver interface {
	Connect(params ConnectParams) error
	Close() error
	Ping(ctx context.Context) error
	Type() DriverType
	FunctionsAndKeywords(ctx context.Context) (Builtins, error)
	ListDatabases(ctx context.Context) ([]string, error)
	ListTables(ctx context.Context, database string) ([]string, error)
	ListColumns(ctx context.Context, database, table string) ([]Column, error)
}

// NewDriver creates a new driver instance by type
func NewDriver(driverType DriverType) (Driver, error) {
	switch driverType {
	case Postgres:
		return &PostgresDriver{}, nil
	case MySQL:
		return &MySQLDriver{}, nil
	case SQLite:
		return &SQLiteDriver{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driverType)
	}
}

// configurePool applies the shared pool limits; metadata lookups are small and bursty.
func configurePool(db *sql.DB) {
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)
}

// queryStrings runs a query returning a single text column.
func queryStrings(ctx context.Context, db *sql.DB, query string, args ...any) ([]string, error) {
	if db == nil {
		return nil, ErrNotConnected
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, WrapQueryError(err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, WrapQueryError(err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, WrapQueryError(err)
	}
	return out, nil
}

// queryColumns runs a query returning (name, type) pairs.
func queryColumns(ctx context.Context, db *sql.DB, query string, args ...any) ([]Column, error) {
	if db == nil {
		return nil, ErrNotConnected
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, WrapQueryError(err)
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var col Column
		if err := rows.Scan(&col.Name, &col.Type); err != nil {
			return nil, WrapQueryError(err)
		}
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, WrapQueryError(err)
	}
	return columns, nil
}

// mergeNames appends extra names not already present (case-insensitive), keeping order.
func mergeNames(base []string, extra ...string) []string {
	seen := make(map[string]bool, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, name := range list {
			key := strings.ToLower(name)
			if name == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, name)
		}
	}
	return out
}
