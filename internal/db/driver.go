// internal/db/driver.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// DriverType represents supported database types
type DriverType string

const (
	Postgres DriverType = "postgres"
	MySQL    DriverType = "mysql"
	SQLite   DriverType = "sqlite"
)

// ConnectParams holds database connection details
type ConnectParams struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// Driver defines the interface for database operations
type Driver interface {
	Connect(params ConnectParams) error
	Close() error
	Execute(ctx context.Context, query string) (*QueryResult, error)
	Ping(ctx context.Context) error
	Type() DriverType
	GetTables(ctx context.Context) ([]string, error)
}

// Dumper is implemented by drivers that can serialise the whole database
// into SQL statements. emit is called once per statement, in order.
type Dumper interface {
	Dump(ctx context.Context, emit func(stmt string) error) error
}

// BackupProgress is reported after every copied chunk of pages.
// Copied is the number of pages copied by that chunk only.
type BackupProgress struct {
	Copied    int
	Remaining int
	Total     int
}

// Backuper is implemented by drivers that support an online page-by-page copy.
type Backuper interface {
	Backup(ctx context.Context, target string, pagesPerStep int, progress func(BackupProgress)) error
}

// Transactor is implemented by drivers whose connection keeps an explicit
// transaction open across Execute calls.
type Transactor interface {
	InTransaction(ctx context.Context) (bool, error)
}

// QueryResult contains query execution results
type QueryResult struct {
	Columns      []string
	Rows         [][]string
	ExecTime     time.Duration
	RowCount     int
	IsSelect     bool
	AffectedRows int64
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
		return nil, errors.Newf("unknown driver type: %s", driverType)
	}
}

// Open parses dsn, creates the matching driver and connects it.
func Open(dsn string) (Driver, error) {
	driverType, params, err := ParseDSN(dsn)
	if err != nil {
		return nil, WrapConnectionError(err)
	}
	d, err := NewDriver(driverType)
	if err != nil {
		return nil, err
	}
	if err := d.Connect(params); err != nil {
		return nil, err
	}
	return d, nil
}

// rowKeywords start statements that produce a result set.
var rowKeywords = []string{"SELECT", "WITH", "EXPLAIN", "DESCRIBE", "SHOW", "PRAGMA", "VALUES"}

// executeQuery executes a query and returns results
func executeQuery(ctx context.Context, db *sql.DB, query string) (*QueryResult, error) {
	if db == nil {
		return nil, WrapConnectionError(fmt.Errorf("not connected"))
	}
	start := time.Now()
	if strings.TrimSpace(skipComments(query)) == "" {
		return nil, WrapQueryError(fmt.Errorf("empty query"))
	}

	keyword := LeadingKeyword(query)

	for _, k := range rowKeywords {
		if keyword == k {
			return executeSelect(ctx, db, query, start)
		}
	}
	return executeDML(ctx, db, query, start)
}

// executeSelect executes a SELECT query
func executeSelect(ctx context.Context, db *sql.DB, query string, start time.Time) (*QueryResult, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, WrapQueryError(err)
	}
	defer rows.Close()

	columns, _ := rows.Columns()
	var results [][]string

	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, WrapQueryError(err)
		}

		row := make([]string, len(columns))
		for i, v := range values {
			row[i] = formatValue(v)
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, WrapQueryError(err)
	}

	return &QueryResult{
		Columns:  columns,
		Rows:     results,
		ExecTime: time.Since(start),
		RowCount: len(results),
		IsSelect: true,
	}, nil
}

// executeDML executes INSERT/UPDATE/DELETE queries
func executeDML(ctx context.Context, db *sql.DB, query string, start time.Time) (*QueryResult, error) {
	result, err := db.ExecContext(ctx, query)
	if err != nil {
		return nil, WrapQueryError(err)
	}
	affected, _ := result.RowsAffected()
	return &QueryResult{
		ExecTime:     time.Since(start),
		IsSelect:     false,
		AffectedRows: affected,
	}, nil
}

// LeadingKeyword returns the first word of query in upper case, skipping
// whitespace and SQL comments. It is empty when query does not start with a
// letter or underscore.
func LeadingKeyword(query string) string {
	s := skipComments(query)
	end := strings.IndexFunc(s, func(r rune) bool {
		return !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
	})
	if end < 0 {
		end = len(s)
	}
	return strings.ToUpper(s[:end])
}

// skipComments drops leading whitespace and SQL comments from query.
func skipComments(query string) string {
	s := query
	for {
		s = strings.TrimLeft(s, " \t\r\n")
		switch {
		case strings.HasPrefix(s, "--"):
			nl := strings.IndexByte(s, '\n')
			if nl < 0 {
				return ""
			}
			s = s[nl+1:]
		case strings.HasPrefix(s, "/*"):
			end := strings.Index(s, "*/")
			if end < 0 {
				return ""
			}
			s = s[end+2:]
		default:
			return s
		}
	}
}

// formatValue converts interface{} to string for display
func formatValue(v interface{}) string {
	if v == nil {
		return "NULL"
	}

	switch val := v.(type) {
	case []byte:
		return string(val)
	case bool:
		if val {
			return "true"
		}
		return "false"
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// queryNames runs a query yielding one text column and collects it.
func queryNames(ctx context.Context, db *sql.DB, query string) ([]string, error) {
	if db == nil {
		return nil, WrapConnectionError(fmt.Errorf("not connected"))
	}
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, WrapQueryError(err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, WrapQueryError(err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, WrapQueryError(err)
	}
	return names, nil
}
