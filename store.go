// store.go
package main

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mattn/go-sqlite3"

	"github.com/sheeppyYU/PasswordManagerNew/pkg/logger"
)

// Store is the durable credential table plus an in-memory cache of it. All
// mutations reload the cache before returning, so a caller never observes a
// stale read after its own write. A single mutex serializes mutations; the
// original app relied on the UI disabling buttons for this.
type Store struct {
	db  *sql.DB
	log *logger.Logger

	mu    sync.Mutex
	cache []Credential
}

// NewStore builds a Store and performs the startup reload.
func NewStore(db *sql.DB, log *logger.Logger) (*Store, error) {
	s := &Store{db: db, log: log}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the whole passwords table into the cache.
func (s *Store) Reload() error {
	rows, err := s.db.Query("SELECT id, title, username, password, category, type, notes, favorite FROM passwords")
	if err != nil {
		return fmt.Errorf("failed to query passwords: %w", err)
	}
	defer rows.Close()

	var creds []Credential
	for rows.Next() {
		var c Credential
		var favorite int
		if err := rows.Scan(&c.ID, &c.Title, &c.Username, &c.Password, &c.Category, &c.Type, &c.Notes, &favorite); err != nil {
			return fmt.Errorf("failed to scan password row: %w", err)
		}
		c.Favorite = favorite != 0
		creds = append(creds, c)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read password rows: %w", err)
	}

	s.mu.Lock()
	s.cache = creds
	s.mu.Unlock()
	return nil
}

// List returns a copy of the cached credentials.
func (s *Store) List() []Credential {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Credential, len(s.cache))
	copy(out, s.cache)
	return out
}

// Get returns the cached credential with the given id.
func (s *Store) Get(id string) (Credential, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.cache {
		if c.ID == id {
			return c, true
		}
	}
	return Credential{}, false
}

// Filter returns the cached credentials matching a search string (title,
// username or notes, case-insensitive) and a type id. TypeAll matches every
// type.
func (s *Store) Filter(search, typeID string) []Credential {
	needle := strings.ToLower(search)
	var out []Credential
	for _, c := range s.List() {
		matchesSearch := needle == "" ||
			strings.Contains(strings.ToLower(c.Title), needle) ||
			strings.Contains(strings.ToLower(c.Username), needle) ||
			strings.Contains(strings.ToLower(c.Notes), needle)
		matchesType := typeID == "" || typeID == TypeAll || c.Type == typeID
		if matchesSearch && matchesType {
			out = append(out, c)
		}
	}
	return out
}

// Add inserts a new credential. The id must be unique; a duplicate id is
// rejected with ErrDuplicateID rather than upserted. The mutex is held
// across the check and the insert, and a primary-key violation from a row
// written behind the cache's back maps to the same error.
func (s *Store) Add(c Credential) error {
	s.mu.Lock()
	for _, existing := range s.cache {
		if existing.ID == c.ID {
			s.mu.Unlock()
			return ErrDuplicateID
		}
	}
	_, err := s.db.Exec(
		"INSERT INTO passwords (id, title, username, password, category, type, notes, favorite) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		c.ID, c.Title, c.Username, c.Password, c.Category, c.Type, c.Notes, boolToInt(c.Favorite),
	)
	s.mu.Unlock()
	if err != nil {
		var serr sqlite3.Error
		if errors.As(err, &serr) && serr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return ErrDuplicateID
		}
		return fmt.Errorf("failed to insert password: %w", err)
	}
	return s.Reload()
}

// Update overwrites every field of the credential identified by c.ID. A
// missing id is a logged no-op, not an error; the original treated it as
// recoverable and so do we.
func (s *Store) Update(c Credential) error {
	res, err := s.db.Exec(
		"UPDATE passwords SET title = ?, username = ?, password = ?, category = ?, type = ?, notes = ?, favorite = ? WHERE id = ?",
		c.Title, c.Username, c.Password, c.Category, c.Type, c.Notes, boolToInt(c.Favorite), c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		s.log.Warning("Update skipped: no credential with id " + c.ID)
		return nil
	}
	return s.Reload()
}

// Delete removes the credential with the given id. Deleting an id that does
// not exist is a no-op.
func (s *Store) Delete(id string) error {
	if _, err := s.db.Exec("DELETE FROM passwords WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete password: %w", err)
	}
	return s.Reload()
}

// ReassignType moves every credential of one type onto another. Used by the
// merge branch of the category deletion workflow; rows are disjoint so
// partial failure is repairable by re-running.
func (s *Store) ReassignType(fromID, toID string) (int, error) {
	res, err := s.db.Exec("UPDATE passwords SET type = ? WHERE type = ?", toID, fromID)
	if err != nil {
		return 0, fmt.Errorf("failed to reassign type: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), s.Reload()
}

// DeleteByType removes every credential of the given type. Used by the
// purge branch of the category deletion workflow.
func (s *Store) DeleteByType(typeID string) (int, error) {
	res, err := s.db.Exec("DELETE FROM passwords WHERE type = ?", typeID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete by type: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), s.Reload()
}

// Import inserts every credential whose id is not already present,
// preserving all fields including the type, and reloads once at the end.
// Existing ids are skipped, never overwritten, which is what makes a
// repeated restore of the same file a no-op. Returns the number inserted.
func (s *Store) Import(creds []Credential) (int, error) {
	existing := make(map[string]struct{})
	s.mu.Lock()
	for _, c := range s.cache {
		existing[c.ID] = struct{}{}
	}
	s.mu.Unlock()

	inserted := 0
	for _, c := range creds {
		if c.ID == "" {
			s.log.Warning("Import skipped a credential without an id")
			continue
		}
		if _, ok := existing[c.ID]; ok {
			continue
		}
		_, err := s.db.Exec(
			"INSERT INTO passwords (id, title, username, password, category, type, notes, favorite) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			c.ID, c.Title, c.Username, c.Password, c.Category, c.Type, c.Notes, boolToInt(c.Favorite),
		)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert imported credential '%s': %w", c.ID, err)
		}
		existing[c.ID] = struct{}{}
		inserted++
	}
	return inserted, s.Reload()
}

// ResetAll clears the credentials and custom types together in a single
// transaction; hidden-type settings and the master verifier survive.
func (s *Store) ResetAll() error {
	tx, err := s.db.Begin()
	if err != nil {
		return &StorageError{Op: "reset", Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM passwords"); err != nil {
		return &StorageError{Op: "reset", Err: err}
	}
	if _, err := tx.Exec("DELETE FROM custom_types"); err != nil {
		return &StorageError{Op: "reset", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &StorageError{Op: "reset", Err: err}
	}
	return s.Reload()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
