// internal/storage/store.go
// Device-local key-value persistence backed by sqlite.
// Durable keys survive restarts; scratch keys live only for the process
// lifetime (the session-storage analogue).

package storage

import (
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const (
	KeyTgID     = "meeteat_tg_id"
	KeyName     = "meeteat_name"
	KeyUsername = "meeteat_username"
	KeyAvatar   = "meeteat_avatar"

	ScratchViewTgID = "view_tg_id"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

type Store struct {
	db *sqlx.DB

	mu      sync.Mutex
	scratch map[string]string
}

// Open opens (creating if needed) the local store at path.
func Open(path string) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init local store: %w", err)
	}
	return &Store{db: db, scratch: make(map[string]string)}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the durable value for key, if present.
func (s *Store) Get(key string) (string, bool) {
	var value string
	err := s.db.Get(&value, "SELECT value FROM kv WHERE key = ?", key)
	if err != nil {
		return "", false
	}
	return value, true
}

// Set writes a durable value for key.
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

// Delete removes a durable key; missing keys are not an error.
func (s *Store) Delete(key string) error {
	_, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key)
	return err
}

// SetScratch writes a process-lifetime value.
func (s *Store) SetScratch(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scratch[key] = value
}

// Scratch returns a process-lifetime value, if present.
func (s *Store) Scratch(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.scratch[key]
	return v, ok
}
