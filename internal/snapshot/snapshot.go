// Package snapshot persists the collection document and settings
// overrides in a local SQLite file. Each slot is a single named row
// overwritten wholesale on every save; there is no partial write and
// no append log.
package snapshot

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/recipedex/recipedex/internal/recipe"
)

// Slot names used by the tool.
const (
	SlotCollection = "collection"
	SlotSettings   = "settings"
)

// Store is the SQLite-backed snapshot storage.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the snapshot database under dataDir.
// If dataDir is empty, defaults to ~/.recipedex.
func Open(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".recipedex")
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "snapshot.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS slots (
			name TEXT PRIMARY KEY,
			body TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating slots table: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SaveSlot overwrites a named slot with body.
func (s *Store) SaveSlot(name, body string) error {
	_, err := s.db.Exec(`
		INSERT INTO slots (name, body, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = CURRENT_TIMESTAMP
	`, name, body)
	if err != nil {
		return fmt.Errorf("saving slot %q: %w", name, err)
	}
	return nil
}

// LoadSlot reads a named slot. The second return is false when the
// slot has never been written.
func (s *Store) LoadSlot(name string) (string, bool, error) {
	var body string
	err := s.db.QueryRow(`SELECT body FROM slots WHERE name = ?`, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("loading slot %q: %w", name, err)
	}
	return body, true, nil
}

// SaveCollection serializes the collection into its slot.
func (s *Store) SaveCollection(col recipe.Collection) error {
	body, err := json.Marshal(col)
	if err != nil {
		return fmt.Errorf("encoding collection: %w", err)
	}
	return s.SaveSlot(SlotCollection, string(body))
}

// LoadCollection reads and parses the collection slot. A missing slot
// or an unparseable body both report absence so callers fall through
// to the seed document.
func (s *Store) LoadCollection() (recipe.Collection, bool, error) {
	body, ok, err := s.LoadSlot(SlotCollection)
	if err != nil || !ok {
		return recipe.Collection{}, false, err
	}
	var col recipe.Collection
	if err := json.Unmarshal([]byte(body), &col); err != nil {
		return recipe.Collection{}, false, nil
	}
	return col, true, nil
}
