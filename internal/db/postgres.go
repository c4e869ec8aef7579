// internal/db/postgres.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// PostgresDriver implements Driver for PostgreSQL. Schemas play the role of databases.
type PostgresDriver struct {
	db     *sql.DB
	tunnel *SSHTunnel
}

// Connect establishes connection to PostgreSQL
func (d *PostgresDriver) Connect(params ConnectParams) error {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(params.User, params.Password),
		Host:   fmt.Sprintf("%s:%d", params.Host, params.Port),
		Path:   "/" + params.Database,
	}

	connConfig, err := pgx.ParseConfig(u.String())
	if err != nil {
		return WrapConnectionError(err)
	}

	if params.SSHConfig != nil && params.SSHConfig.Host != "" {
		tunnel, err := NewSSHTunnel(params.SSHConfig)
		if err != nil {
			return WrapConnectionError(fmt.Errorf("failed to create SSH tunnel: %w", err))
		}
		d.tunnel = tunnel

		// The SSH server resolves the database host, not the local machine.
		connConfig.LookupFunc = func(ctx context.Context, host string) ([]string, error) {
			return []string{host}, nil
		}
		connConfig.DialFunc = func(ctx context.Context, network, addr string) (net.Conn, error) {
			return tunnel.DialContext(ctx, network, fmt.Sprintf("%s:%d", params.Host, params.Port))
		}
	}

	db, err := sql.Open("pgx", stdlib.RegisterConnConfig(connConfig))
	if err != nil {
		d.closeTunnel()
		return WrapConnectionError(err)
	}
	configurePool(db)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		d.closeTunnel()
		return WrapConnectionError(err)
	}

	d.db = db
	return nil
}

func (d *PostgresDriver) closeTunnel() {
	if d.tunnel != nil {
		d.tunnel.Close()
		d.tunnel = nil
	}
}

// Close closes the database connection and SSH tunnel
func (d *PostgresDriver) Close() error {
	var dbErr error
	if d.db != nil {
		dbErr = d.db.Close()
	}
	if d.tunnel != nil {
		if err := d.tunnel.Close(); err != nil {
			if dbErr != nil {
				return fmt.Errorf("db close err: %v, tunnel close err: %w", dbErr, err)
			}
			return err
		}
	}
	return dbErr
}

// Ping checks if database is reachable
func (d *PostgresDriver) Ping(ctx context.Context) error {
	if d.db == nil {
		return WrapConnectionError(ErrNotConnected)
	}
	return d.db.PingContext(ctx)
}

// Type returns the driver type
func (d *PostgresDriver) Type() DriverType {
	return Postgres
}

// FunctionsAndKeywords lists pg_proc function names and the parser's keyword table.
func (d *PostgresDriver) FunctionsAndKeywords(ctx context.Context) (Builtins, error) {
	functions, err := queryStrings(ctx, d.db, `SELECT DISTINCT proname FROM pg_proc ORDER BY 1`)
	if err != nil {
		return Builtins{}, err
	}
	keywords, err := queryStrings(ctx, d.db, `SELECT upper(word) FROM pg_get_keywords() ORDER BY 1`)
	if err != nil {
		return Builtins{}, err
	}
	return Builtins{Functions: functions, Keywords: keywords}, nil
}

// ListDatabases returns the non-system schemas
func (d *PostgresDriver) ListDatabases(ctx context.Context) ([]string, error) {
	return queryStrings(ctx, d.db, `
		SELECT nspname
		FROM pg_namespace
		WHERE nspname NOT IN ('information_schema', 'pg_catalog', 'pg_toast')
		AND nspname NOT LIKE 'pg_temp_%'
		AND nspname NOT LIKE 'pg_toast_temp_%'
		ORDER BY 1`)
}

// ListTables returns tables, views and foreign tables of one schema
func (d *PostgresDriver) ListTables(ctx context.Context, database string) ([]string, error) {
	return queryStrings(ctx, d.db, `
		SELECT c.relname
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1
		AND c.relkind IN ('r', 'v', 'm', 'f', 'p')
		ORDER BY 1`, database)
}

// ListColumns returns column names and formatted types in attribute order
func (d *PostgresDriver) ListColumns(ctx context.Context, database, table string) ([]Column, error) {
	return queryColumns(ctx, d.db, `
		SELECT a.attname, format_type(a.atttypid, a.atttypmod)
		FROM pg_attribute a
		JOIN pg_class cl ON a.attrelid = cl.oid
		JOIN pg_namespace n ON cl.relnamespace = n.oid
		WHERE n.nspname = $1 AND cl.relname = $2
		AND a.attnum > 0 AND NOT a.attisdropped
		ORDER BY a.attnum`, database, table)
}
