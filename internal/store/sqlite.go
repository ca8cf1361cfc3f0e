package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"sync"
)

// Current schema version
const SchemaVersion = "1"

// evictSQL keeps the newest rows, up to the bound parameter.
const evictSQL = `
	DELETE FROM history WHERE id NOT IN (
		SELECT id FROM history ORDER BY id DESC LIMIT ?
	)`

// SQLite is a SQLite-backed history.
type SQLite struct {
	mu       sync.Mutex
	db       *sql.DB
	capacity int
}

// NewSQLite opens a SQLite history at path holding at most capacity
// entries. A non-positive capacity selects DefaultCapacity.
func NewSQLite(path string, capacity int) (*SQLite, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, err
	}
	// Every connection to :memory: is a separate database; keep exactly one.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			expression TEXT NOT NULL,
			result REAL NOT NULL,
			ts TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}

	s := &SQLite{db: db, capacity: normalizeCapacity(capacity)}

	// Check/set schema version; no other goroutine has s yet.
	version, err := s.getMetadata("schema_version")
	if err != nil {
		db.Close()
		return nil, err
	}
	switch version {
	case "":
		if err := s.setMetadata("schema_version", SchemaVersion); err != nil {
			db.Close()
			return nil, err
		}
	case SchemaVersion:
	default:
		db.Close()
		return nil, fmt.Errorf("unsupported schema version: %s (expected %s)", version, SchemaVersion)
	}

	if err := s.setMetadata("capacity", strconv.Itoa(s.capacity)); err != nil {
		db.Close()
		return nil, err
	}
	// A reopened database may hold more than a smaller new capacity allows.
	if err := s.trimUnlocked(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Capacity returns the maximum number of entries kept.
func (s *SQLite) Capacity() int {
	return s.capacity
}

// Append adds e, dropping the oldest rows past capacity.
func (s *SQLite) Append(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(
		"INSERT INTO history (expression, result) VALUES (?, ?)",
		e.Expression, e.Result,
	); err != nil {
		tx.Rollback()
		return fmt.Errorf("append history: %w", err)
	}
	if _, err := tx.Exec(evictSQL, s.capacity); err != nil {
		tx.Rollback()
		return fmt.Errorf("evict history: %w", err)
	}
	return tx.Commit()
}

// trimUnlocked evicts rows past capacity (caller must hold lock).
func (s *SQLite) trimUnlocked() error {
	_, err := s.db.Exec(evictSQL, s.capacity)
	return err
}

// Entries returns the log oldest first.
func (s *SQLite) Entries() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT expression, result FROM history ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Expression, &e.Result); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Clear removes every entry.
func (s *SQLite) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM history")
	return err
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// getMetadata retrieves metadata without locking (caller must hold lock).
func (s *SQLite) getMetadata(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// setMetadata stores metadata without locking (caller must hold lock).
func (s *SQLite) setMetadata(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
