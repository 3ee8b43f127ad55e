// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the on-device key-value store backing the app.
package storage

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// LOGICAL KEYS
// =============================================================================

// The three logical keys of the store. Nothing else is ever persisted.
const (
	KeyUserProfile  = "user_profile"
	KeyLastAdvisory = "last_advisory"
	KeyChatHistory  = "chat_history"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotFound is returned when a key has no stored value.
	// Use errors.Is(err, ErrNotFound) to check for this error.
	ErrNotFound = errors.New("storage: key not found")

	// ErrClosed is returned when the store has been closed.
	ErrClosed = errors.New("storage: store is closed")
)

// =============================================================================
// STORE
// =============================================================================

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value BLOB NOT NULL
);
`

// Store is the SQLite-backed key-value store. It is safe for concurrent use;
// each Put is a single UPSERT so writes are atomic per key.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	closed bool
}

// Open opens (creating if necessary) the store at the given path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Single connection: the store serializes through its own lock and
	// SQLite serializes writers anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// OpenDefault opens the store at ~/.kisan/kisan.db.
func OpenDefault() (*Store, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return Open(filepath.Join(homeDir, ".kisan", "kisan.db"))
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Get returns the stored value for key, or ErrNotFound.
func (s *Store) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	var value []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Put stores value under key, replacing any previous value atomically.
func (s *Store) Put(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	_, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// Delete removes key from the store. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	_, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}

// Has reports whether key has a stored value.
func (s *Store) Has(key string) bool {
	_, err := s.Get(key)
	return err == nil
}
