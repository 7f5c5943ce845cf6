package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

var _ Store = (*SQLiteStore)(nil)

// SQLiteStore persists cache entries in a local SQLite database so they
// survive restarts.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// modernc sqlite allows a single writer
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(key string) (*Entry, bool, error) {
	var entry Entry
	err := s.db.QueryRow(`
		SELECT payload, date FROM cache_entries WHERE key = ?
	`, key).Scan(&entry.Payload, &entry.Date)

	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cache entry: %w", err)
	}

	return &entry, true, nil
}

func (s *SQLiteStore) Set(key string, payload []byte, date string) error {
	_, err := s.db.Exec(`
		INSERT INTO cache_entries (key, payload, date)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			date = excluded.date
	`, key, payload, date)

	if err != nil {
		return fmt.Errorf("failed to set cache entry: %w", err)
	}

	return nil
}

func (s *SQLiteStore) KeysWithPrefix(prefix string) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT key FROM cache_entries WHERE key LIKE ? || '%' ORDER BY key
	`, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list cache keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan cache key: %w", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cache keys: %w", err)
	}

	return keys, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
