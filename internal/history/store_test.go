// internal/history/store_test.go
package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, opts Options) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "nested", "history.db"), opts)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreAddAndList(t *testing.T) {
	s := newTestStore(t, Options{})

	e := &Entry{Database: "a.db", Line: "SELECT 1;", DurationMs: 3, RowCount: 1, Status: StatusSuccess}
	require.NoError(t, s.Add(e))
	assert.NotZero(t, e.ID)
	require.NoError(t, s.Add(&Entry{Database: "a.db", Line: "SELEC 2;", Status: StatusError, ErrorMessage: "syntax error"}))
	require.NoError(t, s.Add(&Entry{Database: "b.db", Line: ".tables", Status: StatusSuccess}))

	entries, err := s.List("a.db", 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "SELEC 2;", entries[0].Line)
	assert.Equal(t, "syntax error", entries[0].ErrorMessage)
	assert.Equal(t, "SELECT 1;", entries[1].Line)
	assert.Empty(t, entries[1].ErrorMessage)

	n, err := s.Count("b.db")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStoreLines(t *testing.T) {
	s := newTestStore(t, Options{})
	for _, line := range []string{"one", "two", "two", "three", "one"} {
		require.NoError(t, s.Add(&Entry{Database: "x", Line: line, Status: StatusSuccess}))
	}

	lines, err := s.Lines(10)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three", "one"}, lines)

	lines, err = s.Lines(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"three", "one"}, lines)
}

func TestStoreSearch(t *testing.T) {
	s := newTestStore(t, Options{})
	for _, line := range []string{"SELECT * FROM users", ".tables", "select name from Users"} {
		require.NoError(t, s.Add(&Entry{Database: "x", Line: line, Status: StatusSuccess}))
	}

	found, err := s.Search("USERS", 10)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "select name from Users", found[0].Line)

	found, err = s.Search("%", 10)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestStoreEnforcesLimitPerDatabase(t *testing.T) {
	s := newTestStore(t, Options{Limit: 3})
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Add(&Entry{Database: "a", Line: string(rune('a' + i)), Status: StatusSuccess}))
	}
	require.NoError(t, s.Add(&Entry{Database: "b", Line: "keep", Status: StatusSuccess}))

	n, err := s.Count("a")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	entries, err := s.List("a", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, "e", entries[0].Line)
	assert.Equal(t, "c", entries[2].Line)

	n, err = s.Count("b")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStoreRetention(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := NewStore(path, Options{})
	require.NoError(t, err)
	require.NoError(t, s.Add(&Entry{Database: "a", Line: "old", ExecutedAt: time.Now().AddDate(0, 0, -100), Status: StatusSuccess}))
	require.NoError(t, s.Add(&Entry{Database: "a", Line: "new", Status: StatusSuccess}))
	require.NoError(t, s.Close())

	s, err = NewStore(path, Options{RetentionDays: 90})
	require.NoError(t, err)
	defer s.Close()

	lines, err := s.Lines(10)
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, lines)
}

func TestEntryPreview(t *testing.T) {
	e := Entry{Line: "SELECT *\n  FROM users\nWHERE id = 1"}
	assert.Equal(t, "SELECT * FROM users WHERE id = 1", e.Preview(80))
	assert.Equal(t, "SELECT * F...", e.Preview(13))
}
