// internal/db/postgres.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// PostgresDriver implements Driver for PostgreSQL
type PostgresDriver struct {
	db *sql.DB
}

// Connect establishes connection to PostgreSQL
func (d *PostgresDriver) Connect(params ConnectParams) error {
	// Build connection string safely with url.URL
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

	// Register the driver configuration with stdlib
	dbStr := stdlib.RegisterConnConfig(connConfig)
	db, err := sql.Open("pgx", dbStr)
	if err != nil {
		return WrapConnectionError(err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		stdlib.UnregisterConnConfig(dbStr)
		return WrapConnectionError(err)
	}

	d.db = db
	return nil
}

// Close closes the database connection
func (d *PostgresDriver) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// Execute runs a query and returns results
func (d *PostgresDriver) Execute(ctx context.Context, query string) (*QueryResult, error) {
	return executeQuery(ctx, d.db, query)
}

// Ping checks if database is reachable
func (d *PostgresDriver) Ping(ctx context.Context) error {
	if d.db == nil {
		return WrapConnectionError(fmt.Errorf("not connected"))
	}
	return d.db.PingContext(ctx)
}

// Type returns the driver type
func (d *PostgresDriver) Type() DriverType {
	return Postgres
}

// GetTables returns a list of tables in all non-system schemas
func (d *PostgresDriver) GetTables(ctx context.Context) ([]string, error) {
	query := `
		SELECT n.nspname || '.' || c.relname
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname NOT IN ('information_schema', 'pg_catalog', 'pg_toast')
		AND c.relkind IN ('r', 'v', 'm', 'f', 'p')
		ORDER BY 1`
	return queryNames(ctx, d.db, query)
}
