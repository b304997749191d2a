// errors.go
package main

import (
	"errors"
	"fmt"
)

// ErrProtectedType is returned when a caller tries to hide or delete one of
// the permanent categories ("all", "other").
var ErrProtectedType = errors.New("cannot delete required type")

// ErrDuplicateID is returned when Add is called with an id that already
// exists in the store.
var ErrDuplicateID = errors.New("credential id already exists")

// FormatError reports a backup file whose shape cannot be understood:
// unparsable JSON, a missing passwords array, a container without the
// expected entry. Nothing is merged when a FormatError is raised.
type FormatError struct {
	Detail string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid backup format: %s: %v", e.Detail, e.Err)
	}
	return "invalid backup format: " + e.Detail
}

func (e *FormatError) Unwrap() error { return e.Err }

// CryptoError reports a failed decryption. The same error covers a wrong
// master password and a corrupted ciphertext; the two are indistinguishable
// with an authenticated cipher.
type CryptoError struct {
	Err error
}

func (e *CryptoError) Error() string {
	return "incorrect password or corrupted file"
}

func (e *CryptoError) Unwrap() error { return e.Err }

// StorageError wraps a failure of the underlying database during a
// whole-database or whole-file operation (reset, export, restore). Row-level
// CRUD returns plain wrapped errors instead.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
