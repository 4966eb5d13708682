// internal/history/store.go
package history

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
	_ "github.com/mattn/go-sqlite3"
)

// Options bound how much history is kept.
type Options struct {
	// Limit is the number of entries kept per database; 0 keeps all.
	Limit int
	// RetentionDays drops entries older than this on open; 0 keeps all.
	RetentionDays int
}

// Store manages input history persistence
type Store struct {
	db   *sql.DB
	opts Options
}

// DefaultPath returns the XDG data file used when no path is configured
func DefaultPath() (string, error) {
	return xdg.DataFile("sqlrepl/history.db")
}

// NewStore opens (creating if needed) the history database at path
func NewStore(path string, opts Options) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, errors.Wrap(err, "create history dir")
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open history")
	}

	// Apply SQLite pragmas
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "pragma busy_timeout")
	}

	// Create table and indexes
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			database TEXT NOT NULL,
			line TEXT NOT NULL,
			executed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			duration_ms INTEGER NOT NULL,
			row_count INTEGER NOT NULL,
			status TEXT NOT NULL,
			error_message TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_history_database ON history(database);
		CREATE INDEX IF NOT EXISTS idx_history_executed_at ON history(executed_at);
	`)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create history schema")
	}

	store := &Store{db: db, opts: opts}
	if err := store.cleanup(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Add inserts a new entry into history and prunes the oldest entries of its
// database beyond the configured limit
func (s *Store) Add(entry *Entry) error {
	if entry.ExecutedAt.IsZero() {
		entry.ExecutedAt = time.Now()
	}
	res, err := s.db.Exec(`
		INSERT INTO history (database, line, executed_at, duration_ms, row_count, status, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		entry.Database,
		entry.Line,
		entry.ExecutedAt.UTC(),
		entry.DurationMs,
		entry.RowCount,
		entry.Status,
		entry.ErrorMessage,
	)
	if err != nil {
		return errors.Wrap(err, "insert history entry")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "insert history entry")
	}
	entry.ID = id

	if s.opts.Limit > 0 {
		return s.enforceLimit(entry.Database, s.opts.Limit)
	}
	return nil
}

// enforceLimit keeps only the most recent N entries per database
func (s *Store) enforceLimit(database string, limit int) error {
	_, err := s.db.Exec(`
		DELETE FROM history
		WHERE database = ?
		AND id NOT IN (
			SELECT id FROM history
			WHERE database = ?
			ORDER BY id DESC
			LIMIT ?
		)
	`, database, database, limit)
	return errors.Wrap(err, "enforce history limit")
}

// Lines returns up to limit of the most recently submitted lines across all
// databases, oldest first, with consecutive repeats collapsed
func (s *Store) Lines(limit int) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT line FROM (
			SELECT id, line FROM history ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC
	`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list history lines")
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, err
		}
		if n := len(lines); n > 0 && lines[n-1] == line {
			continue
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// List returns paginated history entries for a database, newest first
func (s *Store) List(database string, limit, offset int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, database, line, executed_at, duration_ms, row_count, status, error_message
		FROM history
		WHERE database = ?
		ORDER BY id DESC
		LIMIT ? OFFSET ?
	`, database, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "list history")
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Search finds entries whose line contains substr, newest first
func (s *Store) Search(substr string, limit int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, database, line, executed_at, duration_ms, row_count, status, error_message
		FROM history
		WHERE instr(lower(line), lower(?)) > 0
		ORDER BY id DESC
		LIMIT ?
	`, substr, limit)
	if err != nil {
		return nil, errors.Wrap(err, "search history")
	}
	defer rows.Close()

	return scanEntries(rows)
}

// scanEntries scans rows into an Entry slice
func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var errMsg sql.NullString
		if err := rows.Scan(&e.ID, &e.Database, &e.Line, &e.ExecutedAt,
			&e.DurationMs, &e.RowCount, &e.Status, &errMsg); err != nil {
			return nil, err
		}
		e.ErrorMessage = errMsg.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// cleanup removes history entries older than the retention period
func (s *Store) cleanup() error {
	if s.opts.RetentionDays <= 0 {
		return nil
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -s.opts.RetentionDays)
	_, err := s.db.Exec(`DELETE FROM history WHERE executed_at < ?`, cutoff)
	return errors.Wrapf(err, "drop history older than %d days", s.opts.RetentionDays)
}

// Count returns the number of history entries for a database
func (s *Store) Count(database string) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM history WHERE database = ?`, database).Scan(&count)
	return count, errors.Wrap(err, "count history")
}
