// secret.go
package main

import (
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const masterVerifierKey = "master_verifier"

// ErrVaultNotInitialized is returned when an operation needs the master
// secret but no verifier has ever been stored.
var ErrVaultNotInitialized = errors.New("vault not initialized: run init first")

// SecretSource supplies the master secret at the moment an operation needs
// it. The CLI backs it with a flag or environment variable; tests use
// StaticSecret.
type SecretSource interface {
	MasterSecret() (string, error)
}

// StaticSecret is a fixed master secret.
type StaticSecret string

func (s StaticSecret) MasterSecret() (string, error) {
	if s == "" {
		return "", errors.New("master secret is empty")
	}
	return string(s), nil
}

// SecretStore persists a bcrypt verifier of the master secret so the vault
// can check an offered password without storing the password itself.
type SecretStore struct {
	db *sql.DB
}

func NewSecretStore(db *sql.DB) *SecretStore {
	return &SecretStore{db: db}
}

// SetVerifier hashes the secret and stores it, replacing any previous
// verifier.
func (s *SecretStore) SetVerifier(secret string) error {
	if secret == "" {
		return errors.New("master secret must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash master secret: %w", err)
	}
	return settingPut(s.db, masterVerifierKey, string(hash))
}

// HasVerifier reports whether the vault has been initialized.
func (s *SecretStore) HasVerifier() (bool, error) {
	_, ok, err := settingGet(s.db, masterVerifierKey)
	return ok, err
}

// Verify checks an offered secret against the stored verifier.
func (s *SecretStore) Verify(secret string) error {
	hash, ok, err := settingGet(s.db, masterVerifierKey)
	if err != nil {
		return err
	}
	if !ok {
		return ErrVaultNotInitialized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
		return errors.New("incorrect master password")
	}
	return nil
}
