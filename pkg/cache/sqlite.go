package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS score_cache (
	url TEXT PRIMARY KEY,
	payload TEXT NOT NULL,
	computed_at TIMESTAMP NOT NULL
);
`

// SQLiteStore persists entries in a single-table SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens or creates the cache database at path and ensures
// the schema exists. Use ":memory:" for an ephemeral store.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set journal mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Get looks up the cached entry for a listing URL.
func (s *SQLiteStore) Get(url string) (*Entry, error) {
	var payload string
	var computedAt time.Time
	err := s.db.QueryRow(`
		SELECT payload, computed_at FROM score_cache WHERE url = ?
	`, url).Scan(&payload, &computedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal([]byte(payload), &entry.Result); err != nil {
		return nil, fmt.Errorf("failed to decode cache entry: %w", err)
	}
	entry.ComputedAt = computedAt.UTC()
	return &entry, nil
}

// Put stores or replaces the entry for a listing URL.
func (s *SQLiteStore) Put(url string, entry Entry) error {
	payload, err := json.Marshal(entry.Result)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO score_cache (url, payload, computed_at)
		VALUES (?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			payload = excluded.payload,
			computed_at = excluded.computed_at
	`, url, string(payload), entry.ComputedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Len reports the number of cached entries.
func (s *SQLiteStore) Len() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM score_cache`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return n, nil
}

// PurgeOlderThan deletes entries computed before the cutoff and
// reports how many were removed.
func (s *SQLiteStore) PurgeOlderThan(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM score_cache WHERE computed_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
