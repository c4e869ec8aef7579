// internal/db/mysql.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
)

// MySQLDriver implements Driver for MySQL
type MySQLDriver struct {
	db      *sql.DB
	tunnel  *SSHTunnel
	netName string // Registered network name for SSH
}

// Connect establishes connection to MySQL
func (d *MySQLDriver) Connect(params ConnectParams) error {
	cfg := mysql.NewConfig()
	cfg.User = params.User
	cfg.Passwd = params.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", params.Host, params.Port)
	cfg.DBName = params.Database

	if params.SSHConfig != nil && params.SSHConfig.Host != "" {
		tunnel, err := NewSSHTunnel(params.SSHConfig)
		if err != nil {
			return WrapConnectionError(fmt.Errorf("failed to create SSH tunnel: %w", err))
		}
		d.tunnel = tunnel

		// Each tunnelled connection gets its own dial network name.
		d.netName = fmt.Sprintf("mysql+ssh+%d", time.Now().UnixNano())
		mysql.RegisterDialContext(d.netName, func(ctx context.Context, addr string) (net.Conn, error) {
			return tunnel.DialContext(ctx, "tcp", addr)
		})
		cfg.Net = d.netName
	}

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		d.Close()
		return WrapConnectionError(err)
	}
	configurePool(db)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		d.Close()
		return WrapConnectionError(err)
	}

	d.db = db
	return nil
}

// Close closes the database connection and SSH tunnel
func (d *MySQLDriver) Close() error {
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
func (d *MySQLDriver) Ping(ctx context.Context) error {
	if d.db == nil {
		return WrapConnectionError(ErrNotConnected)
	}
	return d.db.PingContext(ctx)
}

// Type returns the driver type
func (d *MySQLDriver) Type() DriverType {
	return MySQL
}

// FunctionsAndKeywords combines the built-in function list with stored functions.
// information_schema.KEYWORDS only exists from 8.0 on; older servers get the static list.
func (d *MySQLDriver) FunctionsAndKeywords(ctx context.Context) (Builtins, error) {
	routines, err := queryStrings(ctx, d.db, `
		SELECT DISTINCT ROUTINE_NAME
		FROM information_schema.ROUTINES
		WHERE ROUTINE_TYPE = 'FUNCTION'
		ORDER BY 1`)
	if err != nil {
		return Builtins{}, err
	}

	keywords, err := queryStrings(ctx, d.db, `SELECT WORD FROM information_schema.KEYWORDS ORDER BY 1`)
	if err != nil {
		log.Printf("mysql: keyword table unavailable, using static list: %v", err)
		keywords = KeywordsFor(MySQL)
	}

	return Builtins{
		Functions: mergeNames(FunctionsFor(MySQL), routines...),
		Keywords:  keywords,
	}, nil
}

// ListDatabases returns every schema visible to the user
func (d *MySQLDriver) ListDatabases(ctx context.Context) ([]string, error) {
	return queryStrings(ctx, d.db, `SELECT SCHEMA_NAME FROM information_schema.SCHEMATA ORDER BY 1`)
}

// ListTables returns the tables and views of a database
func (d *MySQLDriver) ListTables(ctx context.Context, database string) ([]string, error) {
	return queryStrings(ctx, d.db, `
		SELECT TABLE_NAME
		FROM information_schema.TABLES
		WHERE TABLE_SCHEMA = ?
		ORDER BY TABLE_NAME`, database)
}

// ListColumns returns column names and types in ordinal order
func (d *MySQLDriver) ListColumns(ctx context.Context, database, table string) ([]Column, error) {
	return queryColumns(ctx, d.db, `
		SELECT COLUMN_NAME, COLUMN_TYPE
		FROM information_schema.COLUMNS
		WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION`, database, table)
}
