// backup_test.go
package main

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sheeppyYU/PasswordManagerNew/pkg/logger"
)

// backupRig is a complete vault plus its backup codec and merger.
type backupRig struct {
	store    *Store
	registry *Registry
	secrets  *SecretStore
	codec    *Codec
	merger   *Merger
	dir      string
}

func newBackupRig(t *testing.T) *backupRig {
	t.Helper()
	dir := t.TempDir()

	db, err := openDB(filepath.Join(dir, "vault.db"))
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

	secrets := NewSecretStore(db)
	cipher := NewCipher(1000)
	return &backupRig{
		store:    store,
		registry: registry,
		secrets:  secrets,
		codec:    NewCodec(store, registry, cipher, secrets, "1.0.0-test", log),
		merger:   NewMerger(store, registry, cipher, log),
		dir:      dir,
	}
}

func (r *backupRig) mustExport(t *testing.T, secret string) string {
	t.Helper()
	path, err := r.codec.Export(r.dir, StaticSecret(secret))
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	return path
}

func TestExportWritesZipWithBackupEntry(t *testing.T) {
	rig := newBackupRig(t)
	mustAdd(t, rig.store, testCredential("id-1", "GitHub", TypeApp))

	path := rig.mustExport(t, "secret")

	base := filepath.Base(path)
	if !strings.HasPrefix(base, backupFilePrefix) || !strings.HasSuffix(base, ".zip") {
		t.Errorf("Unexpected backup file name '%s'", base)
	}
	if strings.Contains(base, ":") || strings.Count(base, ".") > 1 {
		t.Errorf("Backup file name not sanitized: '%s'", base)
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("Backup is not a readable zip: %v", err)
	}
	defer zr.Close()
	if len(zr.File) != 1 || zr.File[0].Name != backupEntryName {
		t.Fatalf("Expected a single '%s' entry, got %v", backupEntryName, zr.File)
	}

	rc, err := zr.File[0].Open()
	if err != nil {
		t.Fatalf("Failed to open backup entry: %v", err)
	}
	defer rc.Close()

	var outer containerEnvelope
	if err := json.NewDecoder(rc).Decode(&outer); err != nil {
		t.Fatalf("Outer envelope is not JSON: %v", err)
	}
	if !outer.IsEncrypted || outer.Data == "" {
		t.Error("Outer envelope should carry an encrypted data blob")
	}
	if outer.AppVersion != "1.0.0-test" {
		t.Errorf("Unexpected appVersion '%s'", outer.AppVersion)
	}
	if strings.Contains(outer.Data, "hunter2") {
		t.Error("Backup leaks a plaintext password")
	}
}

func TestExportRequiresMasterSecret(t *testing.T) {
	rig := newBackupRig(t)
	mustAdd(t, rig.store, testCredential("id-1", "GitHub", TypeApp))

	if _, err := rig.codec.Export(rig.dir, StaticSecret("")); err == nil {
		t.Fatal("Export without a secret should fail")
	}

	// No partial file may be left behind.
	entries, err := os.ReadDir(rig.dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), backupFilePrefix) {
			t.Errorf("Aborted export left '%s' behind", e.Name())
		}
	}
}

func TestExportChecksVerifier(t *testing.T) {
	rig := newBackupRig(t)
	if err := rig.secrets.SetVerifier("right"); err != nil {
		t.Fatalf("SetVerifier failed: %v", err)
	}

	if _, err := rig.codec.Export(rig.dir, StaticSecret("wrong")); err == nil {
		t.Error("Export with a wrong master secret should fail")
	}
	if _, err := rig.codec.Export(rig.dir, StaticSecret("right")); err != nil {
		t.Errorf("Export with the right master secret failed: %v", err)
	}
}

func TestBackupFileName(t *testing.T) {
	stamp := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	name := backupFileName(stamp)
	if name != "password_backup_2025-03-14T15_09_26Z.zip" {
		t.Errorf("Unexpected file name '%s'", name)
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	source := newBackupRig(t)

	ct, err := source.registry.AddCustom("Gaming")
	if err != nil {
		t.Fatalf("AddCustom failed: %v", err)
	}
	want := Credential{
		ID:       "id-1",
		Title:    "Steam",
		Username: "gamer",
		Password: "p@ss w0rd with spaces",
		Category: "Gaming",
		Type:     ct.ID,
		Notes:    "multi\nline\nnotes",
		Favorite: true,
	}
	mustAdd(t, source.store, want)
	mustAdd(t, source.store, testCredential("id-2", "Email", TypeMail))

	path := source.mustExport(t, "secret")

	target := newBackupRig(t)
	report, err := target.merger.Import(path, StaticSecret("secret"))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if report.RecordsAdded != 2 {
		t.Errorf("Expected 2 records added, got %d", report.RecordsAdded)
	}
	if report.TypesCreated != 1 {
		t.Errorf("Expected 1 type created, got %d", report.TypesCreated)
	}

	got, ok := target.store.Get("id-1")
	if !ok {
		t.Fatal("Restored credential missing")
	}
	if got != want {
		t.Errorf("Restore mismatch.\nGot  %+v\nWant %+v", got, want)
	}
	if target.registry.ResolveName(ct.ID) != "Gaming" {
		t.Error("Restored custom type lost its display name")
	}
}

func TestRestoreWithDifferentIterationConfig(t *testing.T) {
	source := newBackupRig(t)
	mustAdd(t, source.store, testCredential("id-1", "GitHub", TypeApp))
	path := source.mustExport(t, "secret")

	// A fresh install with a different backup.iterations setting must still
	// open the file given only the secret.
	target := newBackupRig(t)
	merger := NewMerger(target.store, target.registry, NewCipher(5000), logger.NewLogger("test"))

	report, err := merger.Import(path, StaticSecret("secret"))
	if err != nil {
		t.Fatalf("Import under a different iteration config failed: %v", err)
	}
	if report.RecordsAdded != 1 {
		t.Errorf("Expected 1 record added, got %d", report.RecordsAdded)
	}
	if _, ok := target.store.Get("id-1"); !ok {
		t.Error("Restored credential missing")
	}
}

func TestRestoreIsIdempotent(t *testing.T) {
	rig := newBackupRig(t)
	if _, err := rig.registry.AddCustom("Gaming"); err != nil {
		t.Fatalf("AddCustom failed: %v", err)
	}
	mustAdd(t, rig.store, testCredential("id-1", "GitHub", TypeApp))
	path := rig.mustExport(t, "secret")

	// Restoring into the vault it came from must change nothing.
	report, err := rig.merger.Import(path, StaticSecret("secret"))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if report.RecordsAdded != 0 || report.TypesCreated != 0 || report.BuiltinsRestored != 0 {
		t.Errorf("Self-restore should be a no-op, got %+v", report)
	}
	if len(rig.store.List()) != 1 {
		t.Errorf("Self-restore duplicated records: %d", len(rig.store.List()))
	}
}

func TestRestoreLegacyPlainJSON(t *testing.T) {
	rig := newBackupRig(t)

	legacy := vaultEnvelope{
		Passwords:   []Credential{testCredential("id-1", "Old Export", TypeMail)},
		CustomTypes: []CustomType{},
		BackupDate:  "2023-01-01T00:00:00Z",
		AppVersion:  "0.9.0",
	}
	raw, err := json.Marshal(legacy)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	path := filepath.Join(rig.dir, "legacy.json")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	// No secret needed for an unencrypted legacy file.
	report, err := rig.merger.Import(path, StaticSecret(""))
	if err != nil {
		t.Fatalf("Legacy import failed: %v", err)
	}
	if report.RecordsAdded != 1 {
		t.Errorf("Expected 1 record added, got %d", report.RecordsAdded)
	}
	if _, ok := rig.store.Get("id-1"); !ok {
		t.Error("Legacy record missing after import")
	}
}

func TestRestoreWrongSecret(t *testing.T) {
	source := newBackupRig(t)
	mustAdd(t, source.store, testCredential("id-1", "GitHub", TypeApp))
	path := source.mustExport(t, "secret")

	target := newBackupRig(t)
	_, err := target.merger.Import(path, StaticSecret("wrong"))
	var cerr *CryptoError
	if !errors.As(err, &cerr) {
		t.Fatalf("Expected a *CryptoError for a wrong secret, got %v", err)
	}
	if len(target.store.List()) != 0 {
		t.Error("Failed import must not merge anything")
	}
}

func TestRestoreTamperedBackup(t *testing.T) {
	source := newBackupRig(t)
	mustAdd(t, source.store, testCredential("id-1", "GitHub", TypeApp))
	path := source.mustExport(t, "secret")

	// Rewrite the zip with one ciphertext character flipped.
	body, err := readContainer(path)
	if err != nil {
		t.Fatalf("readContainer failed: %v", err)
	}
	var outer containerEnvelope
	if err := json.Unmarshal(body, &outer); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	data := []byte(outer.Data)
	mid := len(data) / 2
	if data[mid] == 'A' {
		data[mid] = 'B'
	} else {
		data[mid] = 'A'
	}
	outer.Data = string(data)
	tamperedJSON, err := json.Marshal(outer)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	tamperedPath := filepath.Join(source.dir, "tampered.zip")
	if err := writeBackupZip(tamperedPath, tamperedJSON); err != nil {
		t.Fatalf("writeBackupZip failed: %v", err)
	}

	target := newBackupRig(t)
	_, err = target.merger.Import(tamperedPath, StaticSecret("secret"))
	var cerr *CryptoError
	if !errors.As(err, &cerr) {
		t.Fatalf("Expected a *CryptoError for a tampered backup, got %v", err)
	}
	if len(target.store.List()) != 0 || len(target.registry.Customs()) != 0 {
		t.Error("Tampered import must not merge anything")
	}
}

func TestRestoreFormatErrors(t *testing.T) {
	rig := newBackupRig(t)

	write := func(name string, body []byte) string {
		t.Helper()
		path := filepath.Join(rig.dir, name)
		if err := os.WriteFile(path, body, 0o600); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		return path
	}

	cases := map[string]string{
		"not JSON":             write("garbage.txt", []byte("certainly not a backup")),
		"JSON, wrong shape":    write("wrong.json", []byte(`{"hello":"world"}`)),
		"envelope, no records": write("empty.json", []byte(`{"customTypes":[]}`)),
	}
	for label, path := range cases {
		_, err := rig.merger.Import(path, StaticSecret("secret"))
		var ferr *FormatError
		if !errors.As(err, &ferr) {
			t.Errorf("%s: expected a *FormatError, got %v", label, err)
		}
	}

	// A zip without the backup entry is a format error too.
	var zbuf bytes.Buffer
	zw := zip.NewWriter(&zbuf)
	entry, err := zw.Create("unrelated.txt")
	if err != nil {
		t.Fatalf("zip create failed: %v", err)
	}
	entry.Write([]byte("nothing"))
	zw.Close()
	path := write("empty.zip", zbuf.Bytes())

	var ferr *FormatError
	if _, err := rig.merger.Import(path, StaticSecret("secret")); !errors.As(err, &ferr) {
		t.Errorf("zip without %s: expected a *FormatError, got %v", backupEntryName, err)
	}
}

func TestRestoreResurrectsHiddenBuiltin(t *testing.T) {
	source := newBackupRig(t)
	mustAdd(t, source.store, testCredential("id-1", "Bank Login", TypeBank))
	path := source.mustExport(t, "secret")

	target := newBackupRig(t)
	if err := target.registry.HideBuiltin(TypeBank); err != nil {
		t.Fatalf("HideBuiltin failed: %v", err)
	}
	if err := target.registry.HideBuiltin(TypeSocial); err != nil {
		t.Fatalf("HideBuiltin failed: %v", err)
	}

	report, err := target.merger.Import(path, StaticSecret("secret"))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if report.BuiltinsRestored != 1 {
		t.Errorf("Expected 1 built-in restored, got %d", report.BuiltinsRestored)
	}

	// "bank" is visible again; "social" stays hidden.
	hidden := target.registry.HiddenIDs()
	if len(hidden) != 1 || hidden[0] != TypeSocial {
		t.Errorf("Expected only '%s' hidden, got %v", TypeSocial, hidden)
	}
}

func TestRestoreCreatesUnknownCustomType(t *testing.T) {
	rig := newBackupRig(t)

	// A record referencing a custom type the backup's own list omits.
	orphan := vaultEnvelope{
		Passwords:   []Credential{testCredential("id-1", "Steam", "custom_777")},
		CustomTypes: []CustomType{},
	}
	raw, err := json.Marshal(orphan)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	path := filepath.Join(rig.dir, "orphan.json")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	report, err := rig.merger.Import(path, StaticSecret(""))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if report.TypesCreated != 1 {
		t.Errorf("Expected 1 type created, got %d", report.TypesCreated)
	}
	if !rig.registry.Resolves("custom_777") {
		t.Fatal("Orphan type was not created")
	}
	// Without a better name the id itself serves.
	if got := rig.registry.ResolveName("custom_777"); got != "custom_777" {
		t.Errorf("Expected the id as the name, got '%s'", got)
	}
}
