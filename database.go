// database.go
package main

import (
	"database/sql"
	"fmt"

	"github.com/sheeppyYU/PasswordManagerNew/pkg/logger"

	_ "github.com/mattn/go-sqlite3"
)

// openDB opens (or creates) the vault database and ensures the schema
// exists. The caller owns the returned handle.
func openDB(filepath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", filepath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=10000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer; keep one connection to avoid
	// SQLITE_BUSY churn under the per-store mutexes.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	createTables := `
	CREATE TABLE IF NOT EXISTS passwords (
		id TEXT PRIMARY KEY NOT NULL,
		title TEXT,
		username TEXT,
		password TEXT,
		category TEXT,
		type TEXT,
		notes TEXT,
		favorite INT
	);
	CREATE TABLE IF NOT EXISTS custom_types (
		id TEXT PRIMARY KEY NOT NULL,
		name TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS app_settings (
		key TEXT PRIMARY KEY NOT NULL,
		value TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_passwords_type ON passwords(type);
	`
	if _, err := db.Exec(createTables); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	pragmas := []string{
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = memory",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			logger.Warning("Failed to set pragma " + pragma + ": " + err.Error())
		}
	}

	return db, nil
}

// settingGet reads one row from app_settings. Returns ("", false, nil) when
// the key has never been written.
func settingGet(db *sql.DB, key string) (string, bool, error) {
	var value string
	err := db.QueryRow("SELECT value FROM app_settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read setting '%s': %w", key, err)
	}
	return value, true, nil
}

// settingPut writes one row of app_settings, replacing any previous value.
func settingPut(db *sql.DB, key, value string) error {
	_, err := db.Exec("INSERT INTO app_settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value", key, value)
	if err != nil {
		return fmt.Errorf("failed to write setting '%s': %w", key, err)
	}
	return nil
}
