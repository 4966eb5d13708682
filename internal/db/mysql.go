// internal/db/mysql.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

// MySQLDriver implements Driver for MySQL
type MySQLDriver struct {
	db *sql.DB
}

// Connect establishes connection to MySQL
func (d *MySQLDriver) Connect(params ConnectParams) error {
	cfg := mysql.NewConfig()
	cfg.User = params.User
	cfg.Passwd = params.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", params.Host, params.Port)
	cfg.DBName = params.Database
	cfg.ParseTime = true

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return WrapConnectionError(err)
	}
	db := sql.OpenDB(connector)

	// Configure connection pooling
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection immediately (sql.Open is lazy)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return WrapConnectionError(err)
	}

	d.db = db
	return nil
}

// Close closes the database connection
func (d *MySQLDriver) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// Execute runs a query and returns results
func (d *MySQLDriver) Execute(ctx context.Context, query string) (*QueryResult, error) {
	return executeQuery(ctx, d.db, query)
}

// Ping checks if database is reachable
func (d *MySQLDriver) Ping(ctx context.Context) error {
	if d.db == nil {
		return WrapConnectionError(fmt.Errorf("not connected"))
	}
	return d.db.PingContext(ctx)
}

// Type returns the driver type
func (d *MySQLDriver) Type() DriverType {
	return MySQL
}

// GetTables returns a list of tables in the current database
func (d *MySQLDriver) GetTables(ctx context.Context) ([]string, error) {
	query := "SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() ORDER BY table_name"
	return queryNames(ctx, d.db, query)
}
