package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteOption configures a SQLite storage instance.
type SQLiteOption func(*SQLite)

// SQLiteWithLogger wires a Logger into the driver.
func SQLiteWithLogger(logger Logger) SQLiteOption {
	return func(s *SQLite) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// SQLiteWithTable overrides the table name used for records.
func SQLiteWithTable(table string) SQLiteOption {
	return func(s *SQLite) {
		if table != "" {
			s.table = table
		}
	}
}

// SQLite implements Storage on an embedded SQLite database.
// Values are stored as JSON text under their token key. A single mutex
// orders all operations against the backend.
type SQLite struct {
	mu     sync.Mutex
	db     *sql.DB
	table  string
	logger Logger
	closed bool
}

// OpenSQLite opens (creating if needed) a SQLite-backed storage at path.
// Use ":memory:" for a throwaway database.
func OpenSQLite(path string, opts ...SQLiteOption) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open sqlite %q: %w", path, err)
	}
	// One connection keeps :memory: databases coherent; the driver is
	// serialized by s.mu anyway.
	db.SetMaxOpenConns(1)
	s := &SQLite{
		db:     db,
		table:  "notifier_state",
		logger: defaultLogger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	create := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (key TEXT PRIMARY KEY, value TEXT NOT NULL)", s.table)
	if _, err := db.Exec(create); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: create table %s: %w", s.table, err)
	}
	return s, nil
}

// Read returns the value stored under key and whether one exists.
func (s *SQLite) Read(ctx context.Context, key string) (any, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, false, ErrClosed
	}
	query := fmt.Sprintf("SELECT value FROM %s WHERE key = ?", s.table)
	var raw string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		s.logger.Error(ctx, "read %s failed: %v", key, err)
		return nil, false, fmt.Errorf("storage: read %q: %w", key, err)
	}
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		s.logger.Error(ctx, "decode %s failed: %v", key, err)
		return nil, false, fmt.Errorf("storage: decode %q: %w", key, err)
	}
	return value, true, nil
}

// Write stores value under key, replacing any previous value.
func (s *SQLite) Write(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("storage: encode %q: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	stmt := fmt.Sprintf("INSERT INTO %s (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value", s.table)
	if _, err := s.db.ExecContext(ctx, stmt, key, string(raw)); err != nil {
		s.logger.Error(ctx, "write %s failed: %v", key, err)
		return fmt.Errorf("storage: write %q: %w", key, err)
	}
	s.logger.Debug(ctx, "write %s (%d bytes)", key, len(raw))
	return nil
}

// Delete removes the value stored under key.
func (s *SQLite) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	stmt := fmt.Sprintf("DELETE FROM %s WHERE key = ?", s.table)
	if _, err := s.db.ExecContext(ctx, stmt, key); err != nil {
		s.logger.Error(ctx, "delete %s failed: %v", key, err)
		return fmt.Errorf("storage: delete %q: %w", key, err)
	}
	return nil
}

// Clear removes every key.
func (s *SQLite) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	stmt := fmt.Sprintf("DELETE FROM %s", s.table)
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		s.logger.Error(ctx, "clear failed: %v", err)
		return fmt.Errorf("storage: clear: %w", err)
	}
	return nil
}

// Close releases the underlying database.
func (s *SQLite) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("storage: close: %w", err)
	}
	return nil
}
