// Package validation provides input validation for credentials and
// category names.
package validation

import (
	"fmt"
	"strings"
)

// Error is a single field-level validation failure.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validator accumulates field-level failures across a chain of checks.
type Validator struct {
	errors []*Error
}

// NewValidator creates an empty validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Required fails when the value is empty after trimming.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.errors = append(v.errors, &Error{Field: field, Message: "is required"})
	}
	return v
}

// MaxLength fails when the value exceeds max bytes.
func (v *Validator) MaxLength(field, value string, max int) *Validator {
	if len(value) > max {
		v.errors = append(v.errors, &Error{
			Field:   field,
			Message: fmt.Sprintf("must be no more than %d characters", max),
		})
	}
	return v
}

// HasErrors reports whether any check failed.
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns the accumulated failures.
func (v *Validator) Errors() []*Error {
	return v.errors
}

// FirstError returns the first failure message, or "" when all checks
// passed.
func (v *Validator) FirstError() string {
	if len(v.errors) > 0 {
		return v.errors[0].Error()
	}
	return ""
}

// CredentialRequest is the validatable subset of a credential.
type CredentialRequest struct {
	Title    string
	Username string
	Password string
	Notes    string
}

// ValidateCredential checks a credential before it is stored. Title and
// username are required; the password may be empty.
func ValidateCredential(req CredentialRequest) *Validator {
	v := NewValidator()

	v.Required("title", req.Title).
		MaxLength("title", req.Title, 255)

	v.Required("username", req.Username).
		MaxLength("username", req.Username, 255)

	v.MaxLength("password", req.Password, 1000)
	v.MaxLength("notes", req.Notes, 2000)

	return v
}

// ValidateTypeName checks a category name before creation.
func ValidateTypeName(name string) *Validator {
	v := NewValidator()
	v.Required("name", name).
		MaxLength("name", name, 100)
	return v
}
