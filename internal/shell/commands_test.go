// internal/shell/commands_test.go
package shell

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhath/sqlrepl/internal/db"
)

func run(t *testing.T, s *Session, line string) {
	t.Helper()
	require.True(t, NewDefaultRegistry().Dispatch(context.Background(), s, line), line)
}

func answer(yes bool, asked *[]string) Confirmer {
	return ConfirmFunc(func(q string) (bool, error) {
		*asked = append(*asked, q)
		return yes, nil
	})
}

func TestPromptAndShow(t *testing.T) {
	s, out, errOut := newTestSession(t)

	run(t, s, ".prompt foo")
	assert.Equal(t, "foo ", s.Prompt)

	run(t, s, ".show prompt")
	assert.Equal(t, fmt.Sprintf("%-24s%s\n", "prompt", "foo "), out.String())

	run(t, s, ".prompt")
	assert.Equal(t, "foo ", s.Prompt)
	assert.Equal(t, "usage: .prompt <str>\n", errOut.String())
}

func TestShowSections(t *testing.T) {
	s, out, _ := newTestSession(t)
	s.Getenv = func(key string) string {
		if key == "EDITOR" {
			return "nano"
		}
		return ""
	}

	run(t, s, ".show")
	report := out.String()
	for _, title := range []string{"SQLite\n--------", "Environment\n-----------", "Styling\n", "Editing\n", "Output\n"} {
		assert.Contains(t, report, title)
	}
	assert.Contains(t, report, fmt.Sprintf("%-24s%s", "EDITOR", "nano"))
	assert.Contains(t, report, fmt.Sprintf("%-24s%s", "USER", "?"))
	assert.Contains(t, report, fmt.Sprintf("%-24s%s", "output", "stdout"))
	assert.Contains(t, report, fmt.Sprintf("%-24s%s", "driver", "none"))
}

func TestHelpFilter(t *testing.T) {
	s, out, _ := newTestSession(t)

	run(t, s, ".help TABLES")
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], ".tables"))
}

func TestModeCommand(t *testing.T) {
	s, _, errOut := newTestSession(t)

	run(t, s, ".mode DOUBLE")
	assert.Equal(t, "double", s.TableStyle)

	run(t, s, ".mode fancy")
	assert.Equal(t, "double", s.TableStyle)
	assert.Contains(t, errOut.String(), `unknown table style "fancy"`)
}

func TestPrintCommand(t *testing.T) {
	s, out, _ := newTestSession(t)
	run(t, s, ".print hello   world")
	run(t, s, ".print")
	assert.Equal(t, "hello   world\n", out.String())
}

func TestLogCommand(t *testing.T) {
	s, out, _ := newTestSession(t)

	run(t, s, ".log")
	assert.True(t, s.Verbose())
	run(t, s, ".log stdout")
	assert.False(t, s.Verbose())
	// Debug output follows the messages into the same sink.
	assert.Contains(t, out.String(), "verbose logging on\n")
	assert.Contains(t, out.String(), "verbose logging off\n")

	path := filepath.Join(t.TempDir(), "debug.log")
	run(t, s, ".log "+path)
	assert.True(t, s.Verbose())
	s.Log.Debugw("into the file")
	require.NoError(t, s.Log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "into the file")
}

func TestCdCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))

	s, _, errOut := newTestSession(t)

	run(t, s, ".cd sub")
	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, wd, s.Cwd)
	assert.Equal(t, "sub", filepath.Base(s.Cwd))

	run(t, s, ".cd "+filepath.Join(dir, "missing"))
	assert.Equal(t, wd, s.Cwd)
	assert.Empty(t, errOut.String())

	file := filepath.Join(sub, "plain.txt")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	run(t, s, ".cd "+file)
	assert.Equal(t, wd, s.Cwd)
	assert.Contains(t, errOut.String(), "cannot change directory")
}

func TestOutputCommand(t *testing.T) {
	s, out, _ := newTestSession(t)
	path := filepath.Join(t.TempDir(), "out.txt")

	run(t, s, ".output "+path)
	assert.Equal(t, path, s.OutputPath())
	run(t, s, ".print to the file")
	run(t, s, ".output STDOUT")
	assert.Equal(t, "stdout", s.OutputPath())
	run(t, s, ".print back")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "to the file\n", string(data))
	assert.Equal(t, "back\n", out.String())

	// A second redirect appends.
	run(t, s, ".output "+path)
	run(t, s, ".print again")
	run(t, s, ".output")
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "to the file\nagain\n", string(data))
}

func TestOpenCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "new.db")
	s, _, errOut := newTestSession(t)

	var asked []string
	s.Confirm = answer(false, &asked)
	run(t, s, ".open "+path)
	assert.Nil(t, s.Driver)
	require.Len(t, asked, 1)
	assert.Equal(t, "Would you like to create a new database in "+path+"? [y/n]", asked[0])

	s.Confirm = answer(true, &asked)
	run(t, s, ".open "+path)
	require.NotNil(t, s.Driver)
	assert.Equal(t, path, s.Database)

	// Existing files open without asking.
	asked = nil
	run(t, s, ".open "+path)
	assert.Empty(t, asked)

	run(t, s, ".open")
	assert.Equal(t, "please provide file name\n", errOut.String())
}

func TestTablesCommand(t *testing.T) {
	s, out, _ := newTestSession(t)
	require.NoError(t, s.Open(":memory:"))
	_, err := Eval(context.Background(), s,
		"CREATE TABLE users (id INTEGER); CREATE TABLE orders (id INTEGER); CREATE TABLE User_Roles (id INTEGER);")
	require.NoError(t, err)

	run(t, s, ".tables user")
	assert.Contains(t, out.String(), "users")
	assert.Contains(t, out.String(), "User_Roles")
	assert.NotContains(t, out.String(), "orders")

	out.Reset()
	run(t, s, ".tables")
	assert.Contains(t, out.String(), "orders")
}

// snapshot captures the schema objects and the full content of every table.
func snapshot(t *testing.T, s *Session) map[string][][]string {
	t.Helper()
	ctx := context.Background()
	res, err := s.Driver.Execute(ctx, "SELECT type, name FROM sqlite_master ORDER BY name")
	require.NoError(t, err)
	snap := map[string][][]string{"schema": res.Rows}

	tables, err := s.Driver.GetTables(ctx)
	require.NoError(t, err)
	for _, name := range tables {
		res, err := s.Driver.Execute(ctx, fmt.Sprintf(`SELECT * FROM "%s" ORDER BY 1`, name))
		require.NoError(t, err)
		snap[name] = res.Rows
	}
	return snap
}

func TestDumpAndRead(t *testing.T) {
	tests := []struct {
		name  string
		setup string
	}{
		{
			"plain table with index",
			`CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT);
			INSERT INTO notes (body) VALUES ('semi;colon'), ('it''s');
			CREATE INDEX notes_body ON notes (body);`,
		},
		{
			"child table sorts before parent",
			`CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT);
			CREATE TABLE orders (id INTEGER PRIMARY KEY, user_id INTEGER NOT NULL REFERENCES users(id));
			INSERT INTO users VALUES (1, 'ada'), (2, 'grace');
			INSERT INTO orders VALUES (10, 1), (11, 2), (12, 2);`,
		},
		{
			"autoincrement",
			`CREATE TABLE tickets (id INTEGER PRIMARY KEY AUTOINCREMENT, title TEXT);
			INSERT INTO tickets (title) VALUES ('a'), ('b'), ('c');
			DELETE FROM tickets WHERE title = 'c';`,
		},
		{
			"trigger with case",
			`CREATE TABLE a (x INTEGER, sign TEXT);
			CREATE TRIGGER a_sign AFTER INSERT ON a BEGIN
				UPDATE a SET sign = CASE WHEN NEW.x > 0 THEN 'pos' ELSE 'neg' END WHERE rowid = NEW.rowid;
			END;
			INSERT INTO a (x) VALUES (1), (-1);`,
		},
		{
			"view",
			`CREATE TABLE prices (item TEXT, amount REAL);
			INSERT INTO prices VALUES ('tea', 1.5), ('cake', 4);
			CREATE VIEW cheap AS SELECT item FROM prices WHERE amount < 2;`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			s, out, errOut := newTestSession(t)
			var asked []string
			s.Confirm = answer(true, &asked)

			run(t, s, ".open "+filepath.Join(dir, "src.db"))
			_, err := Eval(context.Background(), s, tt.setup)
			require.NoError(t, err)
			want := snapshot(t, s)

			dump := filepath.Join(dir, "dump.sql")
			run(t, s, ".dump "+dump)
			assert.Contains(t, out.String(), "wrote database dump to "+dump)

			run(t, s, ".open "+filepath.Join(dir, "dst.db"))
			run(t, s, ".read "+dump)
			require.Empty(t, errOut.String())
			assert.Contains(t, asked, "Would you like to eval SQL from "+dump+"? [y/n]")

			assert.Equal(t, want, snapshot(t, s))
		})
	}
}

func TestReadRollsBackFailedScript(t *testing.T) {
	dir := t.TempDir()
	s, _, errOut := newTestSession(t)
	var asked []string
	s.Confirm = answer(true, &asked)

	primary := filepath.Join(dir, "main.db")
	run(t, s, ".open "+primary)

	script := filepath.Join(dir, "broken.sql")
	require.NoError(t, os.WriteFile(script,
		[]byte("BEGIN TRANSACTION;\nCREATE TABLE partial (x);\nSELECT * FROM missing;\nCOMMIT;\n"), 0o644))
	run(t, s, ".read "+script)
	assert.Contains(t, errOut.String(), "its open transaction was rolled back")
	assert.Contains(t, errOut.String(), "An error occurred: no such table: missing")

	_, err := Eval(context.Background(), s, "CREATE TABLE kept (x); INSERT INTO kept VALUES (1);")
	require.NoError(t, err)

	run(t, s, ".open "+filepath.Join(dir, "other.db"))
	run(t, s, ".open "+primary)
	tables, err := s.Driver.GetTables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"kept"}, tables)
}

func TestReadKeepsCallerTransaction(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "broken.sql")
	require.NoError(t, os.WriteFile(script, []byte("SELECT * FROM missing;"), 0o644))

	s, _, errOut := newTestSession(t)
	require.NoError(t, s.Open(":memory:"))
	var asked []string
	s.Confirm = answer(true, &asked)

	_, err := Eval(context.Background(), s, "BEGIN; CREATE TABLE mine (x);")
	require.NoError(t, err)
	run(t, s, ".read "+script)
	assert.NotContains(t, errOut.String(), "rolled back")

	open, err := s.Driver.(db.Transactor).InTransaction(context.Background())
	require.NoError(t, err)
	assert.True(t, open)
}

func TestOpenAndCloseCommitOpenTransaction(t *testing.T) {
	dir := t.TempDir()
	primary := filepath.Join(dir, "main.db")
	s, _, _ := newTestSession(t)

	require.NoError(t, s.Open(primary))
	_, err := Eval(context.Background(), s, "BEGIN; CREATE TABLE t (x); INSERT INTO t VALUES (1);")
	require.NoError(t, err)
	require.NoError(t, s.Open(filepath.Join(dir, "other.db")))

	_, err = Eval(context.Background(), s, "BEGIN; CREATE TABLE u (x);")
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.Nil(t, s.Driver)

	require.NoError(t, s.Open(primary))
	n, err := Eval(context.Background(), s, "SELECT x FROM t")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, s.Open(filepath.Join(dir, "other.db")))
	tables, err := s.Driver.GetTables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"u"}, tables)
}

func TestDumpToOutput(t *testing.T) {
	s, out, errOut := newTestSession(t)

	run(t, s, ".dump")
	assert.Equal(t, "no database is open\n", errOut.String())

	require.NoError(t, s.Open(":memory:"))
	_, err := Eval(context.Background(), s, "CREATE TABLE t (x); INSERT INTO t VALUES (1);")
	require.NoError(t, err)

	run(t, s, ".dump")
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{"PRAGMA foreign_keys=OFF;", "BEGIN TRANSACTION;"}, lines[:2])
	assert.Equal(t, "COMMIT;", lines[len(lines)-1])
	assert.Contains(t, out.String(), "CREATE TABLE t (x);")
}

func TestReadDeclined(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "script.sql")
	require.NoError(t, os.WriteFile(script, []byte("CREATE TABLE r (x);"), 0o644))

	s, _, errOut := newTestSession(t)
	require.NoError(t, s.Open(":memory:"))
	var asked []string
	s.Confirm = answer(false, &asked)

	run(t, s, ".read "+script)
	assert.Len(t, asked, 1)
	tables, err := s.Driver.GetTables(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tables)

	run(t, s, ".read "+filepath.Join(dir, "missing.sql"))
	run(t, s, ".read "+dir)
	assert.Equal(t, "please provide file name\nplease provide file name\n", errOut.String())
}

func TestReadThroughEditor(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "script.sql")
	require.NoError(t, os.WriteFile(script, []byte("CREATE TABLE r (x);\nINSERT INTO r VALUES (7);\n"), 0o644))

	s, _, errOut := newTestSession(t)
	require.NoError(t, s.Open(":memory:"))
	s.Editor = "true"
	s.Confirm = ConfirmFunc(func(string) (bool, error) {
		t.Fatal("editor mode must not ask")
		return false, nil
	})

	run(t, s, ".read "+script)
	require.Empty(t, errOut.String())

	tables, err := s.Driver.GetTables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"r"}, tables)
}

func TestShellCommand(t *testing.T) {
	s, out, errOut := newTestSession(t)

	run(t, s, ".shell echo 'hello world'")
	assert.Equal(t, "hello world\n", out.String())

	run(t, s, ".system false")
	assert.Empty(t, errOut.String())

	run(t, s, ".shell")
	assert.Equal(t, "usage: .shell <cmd>\n", errOut.String())

	errOut.Reset()
	run(t, s, ".shell no-such-command-sqlrepl")
	assert.Contains(t, errOut.String(), "cannot run no-such-command-sqlrepl")
}

func TestBackupCommand(t *testing.T) {
	dir := t.TempDir()
	s, out, errOut := newTestSession(t)
	require.NoError(t, s.Open(filepath.Join(dir, "src.db")))

	var b strings.Builder
	b.WriteString("CREATE TABLE blobs (id INTEGER PRIMARY KEY, data BLOB); INSERT INTO blobs (data) VALUES ")
	for i := range 100 {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(randomblob(512))")
	}
	_, err := Eval(context.Background(), s, b.String())
	require.NoError(t, err)

	run(t, s, ".backup")
	assert.Equal(t, "please provide output path\n", errOut.String())

	s.BackupStepPages = 2
	target := filepath.Join(dir, "backup.db")
	run(t, s, ".backup "+target)
	assert.Equal(t, "please provide output path\n", errOut.String())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Greater(t, len(lines), 1)
	var copied, total int
	_, err = fmt.Sscanf(lines[len(lines)-1], "Copied %d of %d pages...", &copied, &total)
	require.NoError(t, err)
	assert.Equal(t, total, copied)

	require.NoError(t, s.Open(target))
	out.Reset()
	n, err := Eval(context.Background(), s, "SELECT id FROM blobs")
	require.NoError(t, err)
	assert.Equal(t, 100, n)
}

func TestStatusFields(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.Database = "app.db"
	s.Multiline = true

	fields := s.StatusFields()
	require.Len(t, fields, 4)
	assert.Equal(t, StatusField{"Database", "app.db"}, fields[0])
	assert.Equal(t, StatusField{"Multiline", "true"}, fields[1])
	assert.Equal(t, "Tables", fields[3].Key)
}
