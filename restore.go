// restore.go
package main

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sheeppyYU/PasswordManagerNew/pkg/logger"
)

// RestoreReport counts what a restore actually changed. All zeros means the
// backup was a pure subset of the existing data.
type RestoreReport struct {
	RecordsAdded     int
	TypesCreated     int
	BuiltinsRestored int
}

// Merger parses a backup container and merges it into the live vault. The
// merge is additive and idempotent: existing ids are never overwritten, and
// running the same file twice changes nothing the second time.
type Merger struct {
	store    *Store
	registry *Registry
	cipher   *Cipher
	log      *logger.Logger
}

func NewMerger(store *Store, registry *Registry, cipher *Cipher, log *logger.Logger) *Merger {
	return &Merger{store: store, registry: registry, cipher: cipher, log: log}
}

// containerProbe is the first-pass shape check of whatever the user picked:
// either an encrypted outer envelope (data + isEncrypted) or a legacy plain
// inner envelope (passwords at top level).
type containerProbe struct {
	Data        *string         `json:"data"`
	IsEncrypted bool            `json:"isEncrypted"`
	Passwords   json.RawMessage `json:"passwords"`
}

// Import restores the file at path. No state is mutated until the envelope
// has fully validated and, if encrypted, decrypted.
func (m *Merger) Import(path string, secrets SecretSource) (*RestoreReport, error) {
	payload, err := readContainer(path)
	if err != nil {
		return nil, err
	}

	var probe containerProbe
	if err := json.Unmarshal(payload, &probe); err != nil {
		return nil, &FormatError{Detail: "not valid JSON", Err: err}
	}

	var env vaultEnvelope
	switch {
	case probe.IsEncrypted && probe.Data != nil:
		secret, err := secrets.MasterSecret()
		if err != nil {
			return nil, fmt.Errorf("cannot restore an encrypted backup without its master secret: %w", err)
		}
		plaintext, err := m.cipher.DecryptString(*probe.Data, secret)
		if err != nil {
			return nil, err
		}
		// Garbage after a "successful" decode would mean a forged tag;
		// treat non-JSON plaintext the same as a failed decryption.
		if err := json.Unmarshal([]byte(plaintext), &env); err != nil {
			return nil, &CryptoError{Err: err}
		}
	case probe.Passwords != nil:
		if err := json.Unmarshal(payload, &env); err != nil {
			return nil, &FormatError{Detail: "malformed backup envelope", Err: err}
		}
	default:
		return nil, &FormatError{Detail: "file is neither an encrypted backup nor a password list"}
	}

	if env.Passwords == nil {
		return nil, &FormatError{Detail: "backup has no passwords array"}
	}

	report := &RestoreReport{}
	if err := m.resurrectTypes(env, report); err != nil {
		return nil, err
	}

	inserted, err := m.store.Import(env.Passwords)
	report.RecordsAdded = inserted
	if err != nil {
		return report, &StorageError{Op: "restore", Err: err}
	}

	if err := m.registry.Reload(); err != nil {
		return report, &StorageError{Op: "restore", Err: err}
	}
	if err := m.store.Reload(); err != nil {
		return report, &StorageError{Op: "restore", Err: err}
	}

	m.log.Info("Restore complete: %d credentials, %d types, %d built-ins restored",
		report.RecordsAdded, report.TypesCreated, report.BuiltinsRestored)
	return report, nil
}

// resurrectTypes makes every type referenced by the incoming records
// resolvable before any record is inserted, so imported credentials keep
// their original type instead of being coerced to "other". The backup's own
// custom type list is replayed first to recover proper display names; any
// type still unknown after that is created under its own id, and hidden
// built-ins are made visible again.
func (m *Merger) resurrectTypes(env vaultEnvelope, report *RestoreReport) error {
	for _, ct := range env.CustomTypes {
		if ct.ID == "" || ct.Name == "" {
			continue
		}
		added, err := m.registry.AddCustomWithID(ct)
		if err != nil {
			return &StorageError{Op: "restore", Err: err}
		}
		if added {
			report.TypesCreated++
		}
	}

	hidden := make(map[string]struct{})
	for _, id := range m.registry.HiddenIDs() {
		hidden[id] = struct{}{}
	}

	seen := make(map[string]struct{})
	for _, c := range env.Passwords {
		t := c.Type
		if t == "" || t == TypeAll {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}

		if isBuiltinID(t) {
			if _, isHidden := hidden[t]; isHidden {
				if err := m.registry.UnhideBuiltin(t); err != nil {
					return &StorageError{Op: "restore", Err: err}
				}
				report.BuiltinsRestored++
			}
			continue
		}
		if m.registry.Resolves(t) {
			continue
		}
		// A custom type referenced by a record but absent from the
		// backup's type list; the id itself is the best name we have.
		added, err := m.registry.AddCustomWithID(CustomType{ID: t, Name: t})
		if err != nil {
			return &StorageError{Op: "restore", Err: err}
		}
		if added {
			report.TypesCreated++
		}
	}
	return nil
}

// readContainer returns the JSON body of the user-selected file: the
// backup.json entry for a zip container, the raw bytes for plain JSON.
func readContainer(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &StorageError{Op: "restore", Err: err}
	}

	if !bytes.HasPrefix(data, []byte("PK")) {
		return data, nil
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &FormatError{Detail: "unreadable zip archive", Err: err}
	}
	for _, entry := range zr.File {
		if entry.Name != backupEntryName {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return nil, &FormatError{Detail: "unreadable backup entry", Err: err}
		}
		defer rc.Close()
		body, err := io.ReadAll(rc)
		if err != nil {
			return nil, &FormatError{Detail: "unreadable backup entry", Err: err}
		}
		return body, nil
	}
	return nil, &FormatError{Detail: "archive has no " + backupEntryName + " entry"}
}
