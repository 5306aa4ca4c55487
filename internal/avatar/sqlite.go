package avatar

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const createFetchTable = `
CREATE TABLE IF NOT EXISTS avatar_fetch (
	url        TEXT PRIMARY KEY,
	last_fetch TEXT NOT NULL
)`

// SQLiteStore persists the timestamp map in a single-table SQLite
// database. All entries are loaded up front and Flush writes the full
// set back in one transaction, matching the load-modify-save contract.
type SQLiteStore struct {
	db      *sql.DB
	entries map[string]string
}

// NewSQLiteStore opens (or creates) the store database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating avatar cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening avatar cache database: %w", err)
	}
	if _, err := db.Exec(createFetchTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating avatar cache table: %w", err)
	}

	s := &SQLiteStore{db: db, entries: make(map[string]string)}
	if err := s.loadAll(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) loadAll() error {
	rows, err := s.db.Query(`SELECT url, last_fetch FROM avatar_fetch`)
	if err != nil {
		return fmt.Errorf("loading avatar cache: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var url, ts string
		if err := rows.Scan(&url, &ts); err != nil {
			return fmt.Errorf("scanning avatar cache row: %w", err)
		}
		s.entries[url] = ts
	}
	return rows.Err()
}

func (s *SQLiteStore) Get(key string) (string, bool) {
	v, ok := s.entries[key]
	return v, ok
}

func (s *SQLiteStore) Put(key, value string) {
	s.entries[key] = value
}

func (s *SQLiteStore) Flush() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting avatar cache transaction: %w", err)
	}

	for url, ts := range s.entries {
		if _, err := tx.Exec(
			`INSERT INTO avatar_fetch (url, last_fetch) VALUES (?, ?)
			 ON CONFLICT(url) DO UPDATE SET last_fetch = excluded.last_fetch`,
			url, ts,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("writing avatar cache entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing avatar cache: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
