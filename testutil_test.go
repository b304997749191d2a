// testutil_test.go
package main

import (
	"path/filepath"
	"testing"

	"github.com/sheeppyYU/PasswordManagerNew/pkg/logger"
)

// newTestVault opens a fresh on-disk vault in a temp directory and wires the
// store and registry over it. Everything is cleaned up with the test.
func newTestVault(t *testing.T) (*Store, *Registry) {
	t.Helper()

	db, err := openDB(filepath.Join(t.TempDir(), "vault.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	log := logger.NewLogger("test")
	store, err := NewStore(db, log)
	if err != nil {
		t.Fatalf("Failed to build store: %v", err)
	}
	registry, err := NewRegistry(db, log)
	if err != nil {
		t.Fatalf("Failed to build registry: %v", err)
	}
	return store, registry
}

func testCredential(id, title, typeID string) Credential {
	return Credential{
		ID:       id,
		Title:    title,
		Username: title + "@example.com",
		Password: "hunter2",
		Category: typeID,
		Type:     typeID,
		Notes:    "",
	}
}

func mustAdd(t *testing.T, s *Store, c Credential) {
	t.Helper()
	if err := s.Add(c); err != nil {
		t.Fatalf("Failed to add credential '%s': %v", c.ID, err)
	}
}
