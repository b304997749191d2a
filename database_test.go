// database_test.go
package main

import (
	"path/filepath"
	"testing"
)

func TestOpenDBCreatesSchema(t *testing.T) {
	db, err := openDB(filepath.Join(t.TempDir(), "vault.db"))
	if err != nil {
		t.Fatalf("openDB failed: %v", err)
	}
	defer db.Close()

	for _, table := range []string{"passwords", "custom_types", "app_settings"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table '%s' missing: %v", table, err)
		}
	}
}

func TestSettingGetPut(t *testing.T) {
	db, err := openDB(filepath.Join(t.TempDir(), "vault.db"))
	if err != nil {
		t.Fatalf("openDB failed: %v", err)
	}
	defer db.Close()

	_, ok, err := settingGet(db, "missing")
	if err != nil {
		t.Fatalf("settingGet failed: %v", err)
	}
	if ok {
		t.Fatal("Missing key reported as present")
	}

	if err := settingPut(db, "k", "v1"); err != nil {
		t.Fatalf("settingPut failed: %v", err)
	}
	if err := settingPut(db, "k", "v2"); err != nil {
		t.Fatalf("settingPut overwrite failed: %v", err)
	}

	got, ok, err := settingGet(db, "k")
	if err != nil || !ok {
		t.Fatalf("settingGet failed: ok=%v err=%v", ok, err)
	}
	if got != "v2" {
		t.Errorf("Expected 'v2', got '%s'", got)
	}
}
