// backup.go
package main

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sheeppyYU/PasswordManagerNew/pkg/logger"
)

const backupEntryName = "backup.json"
const backupFilePrefix = "password_backup_"

// vaultEnvelope is the inner backup payload: the exportable state of the
// vault. It is what gets encrypted.
type vaultEnvelope struct {
	Passwords   []Credential `json:"passwords"`
	CustomTypes []CustomType `json:"customTypes"`
	BackupDate  string       `json:"backupDate"`
	AppVersion  string       `json:"appVersion"`
	IsEncrypted bool         `json:"isEncrypted"`
}

// containerEnvelope is the outer wrapper written into the zip: ciphertext
// plus metadata readable without the master secret.
type containerEnvelope struct {
	Data        string `json:"data"`
	IsEncrypted bool   `json:"isEncrypted"`
	Timestamp   string `json:"timestamp"`
	AppVersion  string `json:"appVersion"`
}

// Codec produces the portable backup file: collect state, encrypt under the
// master secret, wrap, zip. Encryption is mandatory; export aborts when no
// secret is available.
type Codec struct {
	store      *Store
	registry   *Registry
	cipher     *Cipher
	verifier   *SecretStore
	appVersion string
	now        func() time.Time
	log        *logger.Logger
}

func NewCodec(store *Store, registry *Registry, cipher *Cipher, verifier *SecretStore, appVersion string, log *logger.Logger) *Codec {
	return &Codec{
		store:      store,
		registry:   registry,
		cipher:     cipher,
		verifier:   verifier,
		appVersion: appVersion,
		now:        time.Now,
		log:        log,
	}
}

// Export writes a backup zip into dir and returns its path. The file
// appears under its final name only after every step has succeeded; a
// failure part-way leaves nothing behind.
func (c *Codec) Export(dir string, secrets SecretSource) (string, error) {
	secret, err := secrets.MasterSecret()
	if err != nil {
		return "", fmt.Errorf("cannot export without the master secret: %w", err)
	}
	if c.verifier != nil {
		if err := c.verifier.Verify(secret); err != nil {
			return "", err
		}
	}

	stamp := c.now().UTC()
	inner := vaultEnvelope{
		Passwords:   c.store.List(),
		CustomTypes: c.registry.Customs(),
		BackupDate:  stamp.Format(time.RFC3339),
		AppVersion:  c.appVersion,
		IsEncrypted: true,
	}
	if inner.Passwords == nil {
		inner.Passwords = []Credential{}
	}
	if inner.CustomTypes == nil {
		inner.CustomTypes = []CustomType{}
	}

	innerJSON, err := json.MarshalIndent(inner, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode backup: %w", err)
	}

	ciphertext, err := c.cipher.EncryptString(string(innerJSON), secret)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt backup: %w", err)
	}

	outer := containerEnvelope{
		Data:        ciphertext,
		IsEncrypted: true,
		Timestamp:   stamp.Format(time.RFC3339),
		AppVersion:  c.appVersion,
	}
	outerJSON, err := json.MarshalIndent(outer, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode backup container: %w", err)
	}

	final := filepath.Join(dir, backupFileName(stamp))
	tmp := final + ".tmp"
	if err := writeBackupZip(tmp, outerJSON); err != nil {
		os.Remove(tmp)
		return "", &StorageError{Op: "export", Err: err}
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return "", &StorageError{Op: "export", Err: err}
	}

	c.log.Info("Exported %d credentials to %s", len(inner.Passwords), final)
	return final, nil
}

// writeBackupZip creates a zip holding the single backup.json entry.
func writeBackupZip(path string, body []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}

	zw := zip.NewWriter(f)
	entry, err := zw.Create(backupEntryName)
	if err == nil {
		_, err = entry.Write(body)
	}
	if err == nil {
		err = zw.Close()
	} else {
		zw.Close()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write backup archive: %w", err)
	}
	return nil
}

// backupFileName renders "password_backup_<stamp>.zip" with the colons and
// dots of the RFC3339 stamp replaced by underscores so the name is safe on
// every filesystem.
func backupFileName(t time.Time) string {
	stamp := t.Format(time.RFC3339)
	stamp = strings.ReplaceAll(stamp, ":", "_")
	stamp = strings.ReplaceAll(stamp, ".", "_")
	return backupFilePrefix + stamp + ".zip"
}
