// internal/db/sqlite.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/mattn/go-sqlite3"
)

// sqliteDriverName is the database/sql name of the go-sqlite3 driver with the
// shell's extra SQL functions installed on every connection.
const sqliteDriverName = "sqlite3_sqlrepl"

var registerOnce sync.Once

func registerSQLite() {
	registerOnce.Do(func() {
		sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return conn.RegisterFunc("regex", regexMatch, true)
			},
		})
	})
}

// regexMatch backs the regex(string, pattern) SQL function. The pattern must
// match the whole string.
func regexMatch(s, pattern string) (bool, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return false, err
	}
	return re.MatchString(s), nil
}

// SQLiteVersion returns the version of the linked SQLite library.
func SQLiteVersion() string {
	v, _, _ := sqlite3.Version()
	return v
}

// SQLiteDriver implements Driver for SQLite
type SQLiteDriver struct {
	db   *sql.DB
	path string
}

// Connect establishes connection to SQLite
func (d *SQLiteDriver) Connect(params ConnectParams) error {
	registerSQLite()

	// For SQLite, the database string is the filepath
	dsn := strings.TrimPrefix(params.Database, "sqlite://")

	db, err := sql.Open(sqliteDriverName, dsn)
	if err != nil {
		return WrapConnectionError(err)
	}
	// One connection keeps transactions spanning several Exec calls and
	// in-memory databases consistent.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return WrapConnectionError(fmt.Errorf("pragma foreign_keys: %w", err))
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 10000"); err != nil {
		db.Close()
		return WrapConnectionError(fmt.Errorf("pragma busy_timeout: %w", err))
	}

	d.db = db
	d.path = dsn
	return nil
}

// Close closes the database connection
func (d *SQLiteDriver) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// Execute runs a query and returns results
func (d *SQLiteDriver) Execute(ctx context.Context, query string) (*QueryResult, error) {
	return executeQuery(ctx, d.db, query)
}

// Ping checks if database is reachable
func (d *SQLiteDriver) Ping(ctx context.Context) error {
	if d.db == nil {
		return WrapConnectionError(fmt.Errorf("not connected"))
	}
	return d.db.PingContext(ctx)
}

// Type returns the driver type
func (d *SQLiteDriver) Type() DriverType {
	return SQLite
}

// GetTables returns a list of tables
func (d *SQLiteDriver) GetTables(ctx context.Context) ([]string, error) {
	return queryNames(ctx, d.db, "SELECT name FROM sqlite_master WHERE type='table' ORDER BY name")
}

type schemaObject struct {
	name string
	kind string
	sql  string
}

func (d *SQLiteDriver) schemaObjects(ctx context.Context, where string) ([]schemaObject, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT "name", "type", "sql" FROM "sqlite_master" WHERE "sql" NOT NULL AND `+where+` ORDER BY "name"`)
	if err != nil {
		return nil, WrapQueryError(err)
	}
	defer rows.Close()

	var objs []schemaObject
	for rows.Next() {
		var o schemaObject
		if err := rows.Scan(&o.name, &o.kind, &o.sql); err != nil {
			return nil, WrapQueryError(err)
		}
		objs = append(objs, o)
	}
	return objs, rows.Err()
}

// Dump emits the schema and content of the database as SQL statements that
// recreate it, wrapped in a single transaction. Foreign key enforcement is
// switched off first so tables can be replayed in name order. Shadow tables
// of virtual tables are left out; replaying CREATE VIRTUAL TABLE recreates
// them and the virtual table's rows are inserted through the table itself.
func (d *SQLiteDriver) Dump(ctx context.Context, emit func(stmt string) error) error {
	if d.db == nil {
		return WrapConnectionError(fmt.Errorf("not connected"))
	}
	for _, stmt := range []string{"PRAGMA foreign_keys=OFF;", "BEGIN TRANSACTION;"} {
		if err := emit(stmt); err != nil {
			return err
		}
	}

	shadow, err := d.shadowTables(ctx)
	if err != nil {
		return err
	}
	tables, err := d.schemaObjects(ctx, `"type" == 'table'`)
	if err != nil {
		return err
	}

	// sqlite_sequence only exists once an AUTOINCREMENT table has been
	// created, so its rows go last.
	var sequence []string
	deferred := func(stmt string) error {
		sequence = append(sequence, stmt)
		return nil
	}
	for _, t := range tables {
		out := emit
		switch {
		case shadow[t.name]:
			continue
		case t.name == "sqlite_sequence":
			out = deferred
			err = out(`DELETE FROM "sqlite_sequence";`)
		case t.name == "sqlite_stat1":
			err = emit(`ANALYZE "sqlite_master";`)
		case strings.HasPrefix(t.name, "sqlite_"):
			continue
		default:
			err = emit(t.sql + ";")
		}
		if err != nil {
			return err
		}
		if err := d.dumpRows(ctx, t.name, out); err != nil {
			return err
		}
	}

	others, err := d.schemaObjects(ctx, `"type" IN ('index', 'trigger', 'view')`)
	if err != nil {
		return err
	}
	for _, o := range others {
		if err := emit(o.sql + ";"); err != nil {
			return err
		}
	}
	for _, stmt := range sequence {
		if err := emit(stmt); err != nil {
			return err
		}
	}
	return emit("COMMIT;")
}

// shadowTables returns the tables a virtual table module maintains for its
// own storage.
func (d *SQLiteDriver) shadowTables(ctx context.Context) (map[string]bool, error) {
	names, err := queryNames(ctx, d.db,
		`SELECT "name" FROM pragma_table_list WHERE "schema" = 'main' AND "type" = 'shadow'`)
	if err != nil {
		return nil, err
	}
	shadow := make(map[string]bool, len(names))
	for _, n := range names {
		shadow[n] = true
	}
	return shadow, nil
}

// InTransaction reports whether an explicit transaction is open on the
// connection.
func (d *SQLiteDriver) InTransaction(ctx context.Context) (bool, error) {
	if d.db == nil {
		return false, WrapConnectionError(fmt.Errorf("not connected"))
	}
	conn, err := d.db.Conn(ctx)
	if err != nil {
		return false, WrapConnectionError(err)
	}
	defer conn.Close()

	open := false
	err = conn.Raw(func(raw any) error {
		sc, ok := raw.(*sqlite3.SQLiteConn)
		if !ok {
			return errors.Newf("unexpected connection type %T", raw)
		}
		open = !sc.AutoCommit()
		return nil
	})
	return open, err
}

func (d *SQLiteDriver) dumpRows(ctx context.Context, table string, emit func(string) error) error {
	columns, err := queryNames(ctx, d.db, fmt.Sprintf(`SELECT name FROM pragma_table_info(%s)`, quoteLiteral(table)))
	if err != nil {
		return err
	}
	if len(columns) == 0 {
		return nil
	}
	values := make([]string, len(columns))
	for i, c := range columns {
		values[i] = "quote(" + quoteIdent(c) + ")"
	}
	query := fmt.Sprintf(`SELECT 'INSERT INTO ' || %s || ' VALUES(' || %s || ')' FROM %s`,
		quoteLiteral(quoteIdent(table)), strings.Join(values, " || ',' || "), quoteIdent(table))

	// Collect first: the single pooled connection is busy while rows is open.
	inserts, err := queryNames(ctx, d.db, query)
	if err != nil {
		return err
	}
	for _, stmt := range inserts {
		if err := emit(stmt + ";"); err != nil {
			return err
		}
	}
	return nil
}

// Backup copies the database into target page by page. progress is called
// after every step with the pages copied by that step.
func (d *SQLiteDriver) Backup(ctx context.Context, target string, pagesPerStep int, progress func(BackupProgress)) error {
	if d.db == nil {
		return WrapConnectionError(fmt.Errorf("not connected"))
	}
	if pagesPerStep == 0 {
		pagesPerStep = -1
	}
	registerSQLite()

	dest, err := sql.Open(sqliteDriverName, target)
	if err != nil {
		return WrapConnectionError(err)
	}
	defer dest.Close()

	destConn, err := dest.Conn(ctx)
	if err != nil {
		return WrapConnectionError(err)
	}
	defer destConn.Close()

	srcConn, err := d.db.Conn(ctx)
	if err != nil {
		return WrapConnectionError(err)
	}
	defer srcConn.Close()

	return destConn.Raw(func(destRaw any) error {
		return srcConn.Raw(func(srcRaw any) error {
			dc, ok := destRaw.(*sqlite3.SQLiteConn)
			if !ok {
				return errors.Newf("unexpected connection type %T", destRaw)
			}
			sc, ok := srcRaw.(*sqlite3.SQLiteConn)
			if !ok {
				return errors.Newf("unexpected connection type %T", srcRaw)
			}
			return runBackup(ctx, dc, sc, pagesPerStep, progress)
		})
	})
}

func runBackup(ctx context.Context, dest, src *sqlite3.SQLiteConn, pagesPerStep int, progress func(BackupProgress)) error {
	b, err := dest.Backup("main", src, "main")
	if err != nil {
		return WrapQueryError(err)
	}

	copied := 0
	for {
		if err := ctx.Err(); err != nil {
			b.Close()
			return err
		}
		done, err := b.Step(pagesPerStep)
		if err != nil {
			b.Close()
			return WrapQueryError(err)
		}
		total, remaining := b.PageCount(), b.Remaining()
		if progress != nil {
			progress(BackupProgress{
				Copied:    total - remaining - copied,
				Remaining: remaining,
				Total:     total,
			})
		}
		copied = total - remaining
		if done {
			break
		}
	}
	if err := b.Finish(); err != nil {
		return WrapQueryError(err)
	}
	return nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoteLiteral(s string) string {
	return `'` + strings.ReplaceAll(s, `'`, `''`) + `'`
}
