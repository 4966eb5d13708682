// internal/db/sqlite_test.go
package db

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T, path string) *SQLiteDriver {
	t.Helper()
	d := &SQLiteDriver{}
	require.NoError(t, d.Connect(ConnectParams{Database: path}))
	t.Cleanup(func() { d.Close() })
	return d
}

func mustExec(t *testing.T, d Driver, stmts ...string) {
	t.Helper()
	for _, s := range stmts {
		_, err := d.Execute(context.Background(), s)
		require.NoError(t, err, s)
	}
}

func TestSQLiteDriver(t *testing.T) {
	d := openSQLite(t, ":memory:")
	ctx := context.Background()

	require.NoError(t, d.Ping(ctx))
	assert.Equal(t, SQLite, d.Type())

	mustExec(t, d,
		"CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT)",
		"INSERT INTO users (name) VALUES ('ada'), ('grace')",
	)

	res, err := d.Execute(ctx, "SELECT id, name FROM users ORDER BY id")
	require.NoError(t, err)
	assert.True(t, res.IsSelect)
	assert.Equal(t, []string{"id", "name"}, res.Columns)
	assert.Equal(t, [][]string{{"1", "ada"}, {"2", "grace"}}, res.Rows)

	res, err = d.Execute(ctx, "UPDATE users SET name = upper(name)")
	require.NoError(t, err)
	assert.False(t, res.IsSelect)
	assert.EqualValues(t, 2, res.AffectedRows)

	tables, err := d.GetTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"users"}, tables)
}

func TestSQLiteExecuteReportsQueryError(t *testing.T) {
	d := openSQLite(t, ":memory:")

	_, err := d.Execute(context.Background(), "SELECT * FROM missing")
	require.Error(t, err)
	qe, ok := IsQueryError(err)
	require.True(t, ok)
	assert.Contains(t, qe.Message(), "no such table: missing")
}

func TestSQLiteRowStatementsWithComments(t *testing.T) {
	d := openSQLite(t, ":memory:")

	res, err := d.Execute(context.Background(), "-- leading comment\nPRAGMA user_version")
	require.NoError(t, err)
	assert.True(t, res.IsSelect)
	assert.Equal(t, [][]string{{"0"}}, res.Rows)

	res, err = d.Execute(context.Background(), "VALUES (1, 'x')")
	require.NoError(t, err)
	assert.Equal(t, 1, res.RowCount)
}

func TestSQLiteRegexFunction(t *testing.T) {
	d := openSQLite(t, ":memory:")

	tests := []struct {
		value, pattern string
		want           string
	}{
		{"abc123", "[a-z]+[0-9]+", "1"},
		{"abc123", "[a-z]+", "0"},
		{"hello", "h.*o", "1"},
		{"xhello", "h.*o", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.value+"~"+tt.pattern, func(t *testing.T) {
			res, err := d.Execute(context.Background(),
				fmt.Sprintf("SELECT regex(%s, %s)", quoteLiteral(tt.value), quoteLiteral(tt.pattern)))
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Rows[0][0])
		})
	}

	_, err := d.Execute(context.Background(), "SELECT regex('a', '(')")
	assert.Error(t, err)
}

func TestSQLiteDumpRoundTrip(t *testing.T) {
	src := openSQLite(t, ":memory:")
	mustExec(t, src,
		"CREATE TABLE items (id INTEGER PRIMARY KEY AUTOINCREMENT, label TEXT, price REAL, data BLOB)",
		`INSERT INTO items (label, price, data) VALUES ('it''s', 1.5, x'00ff'), (NULL, 2, NULL)`,
		"CREATE INDEX idx_items_label ON items(label)",
		"CREATE VIEW cheap AS SELECT * FROM items WHERE price < 2",
		`CREATE TRIGGER items_touch AFTER UPDATE ON items BEGIN UPDATE items SET price = price WHERE id = 0; END`,
	)

	var stmts []string
	require.NoError(t, src.Dump(context.Background(), func(s string) error {
		stmts = append(stmts, s)
		return nil
	}))

	require.NotEmpty(t, stmts)
	assert.Equal(t, []string{"PRAGMA foreign_keys=OFF;", "BEGIN TRANSACTION;"}, stmts[:2])
	assert.Equal(t, "COMMIT;", stmts[len(stmts)-1])
	assert.Contains(t, stmts, `DELETE FROM "sqlite_sequence";`)
	assert.Contains(t, stmts, `INSERT INTO "items" VALUES(1,'it''s',1.5,X'00FF');`)

	dst := openSQLite(t, ":memory:")
	for _, stmt := range SplitStatements(strings.Join(stmts, "\n")) {
		_, err := dst.Execute(context.Background(), stmt)
		require.NoError(t, err, stmt)
	}

	res, err := dst.Execute(context.Background(), "SELECT count(*) FROM items")
	require.NoError(t, err)
	assert.Equal(t, "2", res.Rows[0][0])

	res, err = dst.Execute(context.Background(),
		"SELECT name FROM sqlite_master WHERE type IN ('index', 'view', 'trigger') ORDER BY name")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"cheap"}, {"idx_items_label"}, {"items_touch"}}, res.Rows)
}

func dumpStatements(t *testing.T, d *SQLiteDriver) []string {
	t.Helper()
	var stmts []string
	require.NoError(t, d.Dump(context.Background(), func(s string) error {
		stmts = append(stmts, s)
		return nil
	}))
	return stmts
}

func indexOf(stmts []string, prefix string) int {
	for i, s := range stmts {
		if strings.HasPrefix(s, prefix) {
			return i
		}
	}
	return -1
}

func TestSQLiteDumpOrdering(t *testing.T) {
	src := openSQLite(t, ":memory:")
	mustExec(t, src,
		"CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT)",
		"CREATE TABLE orders (id INTEGER PRIMARY KEY, user_id INTEGER NOT NULL REFERENCES users(id))",
		"CREATE TABLE tickets (id INTEGER PRIMARY KEY AUTOINCREMENT, title TEXT)",
		"INSERT INTO users VALUES (1, 'ada')",
		"INSERT INTO orders VALUES (10, 1)",
		"INSERT INTO tickets (title) VALUES ('a'), ('b')",
		"DELETE FROM tickets WHERE title = 'b'",
	)

	stmts := dumpStatements(t, src)
	seq := indexOf(stmts, `DELETE FROM "sqlite_sequence"`)
	require.NotEqual(t, -1, seq)
	assert.Greater(t, seq, indexOf(stmts, "CREATE TABLE tickets"))
	assert.Equal(t, `INSERT INTO "sqlite_sequence" VALUES('tickets',2);`, stmts[seq+1])
	assert.Less(t, indexOf(stmts, "CREATE TABLE orders"), indexOf(stmts, "CREATE TABLE users"))

	dst := openSQLite(t, ":memory:")
	for _, stmt := range SplitStatements(strings.Join(stmts, "\n")) {
		_, err := dst.Execute(context.Background(), stmt)
		require.NoError(t, err, stmt)
	}

	res, err := dst.Execute(context.Background(), "SELECT user_id FROM orders")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1"}}, res.Rows)

	// The sequence keeps counting from the deleted row.
	mustExec(t, dst, "INSERT INTO tickets (title) VALUES ('c')")
	res, err = dst.Execute(context.Background(), "SELECT max(id) FROM tickets")
	require.NoError(t, err)
	assert.Equal(t, "3", res.Rows[0][0])
}

func TestSQLiteDumpVirtualTable(t *testing.T) {
	src := openSQLite(t, ":memory:")
	mustExec(t, src,
		"CREATE VIRTUAL TABLE docs USING fts4(body)",
		"INSERT INTO docs (body) VALUES ('hello world'), ('goodbye')",
	)

	stmts := dumpStatements(t, src)
	for _, stmt := range stmts {
		assert.NotContains(t, stmt, "docs_", stmt)
	}
	assert.Contains(t, stmts, "CREATE VIRTUAL TABLE docs USING fts4(body);")

	dst := openSQLite(t, ":memory:")
	for _, stmt := range SplitStatements(strings.Join(stmts, "\n")) {
		_, err := dst.Execute(context.Background(), stmt)
		require.NoError(t, err, stmt)
	}
	res, err := dst.Execute(context.Background(), "SELECT body FROM docs WHERE docs MATCH 'hello'")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"hello world"}}, res.Rows)
}

func TestSQLiteInTransaction(t *testing.T) {
	d := openSQLite(t, ":memory:")
	ctx := context.Background()

	open, err := d.InTransaction(ctx)
	require.NoError(t, err)
	assert.False(t, open)

	mustExec(t, d, "BEGIN", "CREATE TABLE t (x)")
	open, err = d.InTransaction(ctx)
	require.NoError(t, err)
	assert.True(t, open)

	mustExec(t, d, "ROLLBACK")
	open, err = d.InTransaction(ctx)
	require.NoError(t, err)
	assert.False(t, open)

	tables, err := d.GetTables(ctx)
	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestSQLiteExecuteHandsUnknownInputToEngine(t *testing.T) {
	d := openSQLite(t, ":memory:")

	_, err := d.Execute(context.Background(), ".exitxyz")
	qe, ok := IsQueryError(err)
	require.True(t, ok)
	assert.Contains(t, qe.Message(), "syntax error")

	_, err = d.Execute(context.Background(), "  -- nothing here\n")
	qe, ok = IsQueryError(err)
	require.True(t, ok)
	assert.Equal(t, "empty query", qe.Message())
}

func TestSQLiteBackup(t *testing.T) {
	dir := t.TempDir()
	src := openSQLite(t, filepath.Join(dir, "src.db"))
	mustExec(t, src, "CREATE TABLE t (id INTEGER PRIMARY KEY, payload TEXT)")
	for i := 0; i < 100; i++ {
		mustExec(t, src, fmt.Sprintf("INSERT INTO t (payload) VALUES ('%s')", strings.Repeat("x", 200)))
	}

	target := filepath.Join(dir, "target.db")
	var steps []BackupProgress
	require.NoError(t, src.Backup(context.Background(), target, 2, func(p BackupProgress) {
		steps = append(steps, p)
	}))

	require.NotEmpty(t, steps)
	sum := 0
	for _, s := range steps {
		sum += s.Copied
	}
	last := steps[len(steps)-1]
	assert.Equal(t, last.Total, sum)
	assert.Zero(t, last.Remaining)
	assert.Greater(t, len(steps), 1)

	restored := openSQLite(t, target)
	res, err := restored.Execute(context.Background(), "SELECT count(*) FROM t")
	require.NoError(t, err)
	assert.Equal(t, "100", res.Rows[0][0])
}

func TestLeadingKeyword(t *testing.T) {
	tests := map[string]string{
		"select 1":                 "SELECT",
		"  \n with x as (select 1)": "WITH",
		"-- c\n/* d */ pragma x":   "PRAGMA",
		"":                         "",
		"-- only a comment":        "",
		"insert into t values (1)": "INSERT",
		"(select 1)":               "",
	}
	for in, want := range tests {
		assert.Equal(t, want, LeadingKeyword(in), in)
	}
}
