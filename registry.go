// registry.go
package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sheeppyYU/PasswordManagerNew/pkg/logger"
	"github.com/sheeppyYU/PasswordManagerNew/pkg/validation"
)

// Built-in category ids. "all" is a pseudo-category meaning no filter and is
// never stored on a credential; "other" is the permanent fallback. Neither
// can be hidden or deleted.
const (
	TypeAll    = "all"
	TypeMail   = "mail"
	TypeSocial = "social"
	TypeBank   = "bank"
	TypeApp    = "app"
	TypeOther  = "other"
)

// builtinTypes is the canonical display order of the shipped categories.
var builtinTypes = []Category{
	{ID: TypeAll, Name: "All Types"},
	{ID: TypeMail, Name: "Mail"},
	{ID: TypeSocial, Name: "Social"},
	{ID: TypeBank, Name: "Bank"},
	{ID: TypeApp, Name: "App"},
	{ID: TypeOther, Name: "Other"},
}

const hiddenTypesKey = "hidden_default_types"

const customIDPrefix = "custom_"

// Registry computes the effective set of visible categories from the
// built-ins, the persisted hidden-ids list, and the custom_types table.
type Registry struct {
	db  *sql.DB
	log *logger.Logger

	mu      sync.Mutex
	customs []CustomType
	hidden  []string
	lastID  int64 // last minted custom id timestamp, for collision bumps
}

// NewRegistry builds a Registry and performs the startup reload.
func NewRegistry(db *sql.DB, log *logger.Logger) (*Registry, error) {
	r := &Registry{db: db, log: log}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-reads the custom types and the hidden-ids list.
func (r *Registry) Reload() error {
	rows, err := r.db.Query("SELECT id, name FROM custom_types ORDER BY rowid ASC")
	if err != nil {
		return fmt.Errorf("failed to query custom types: %w", err)
	}
	defer rows.Close()

	var customs []CustomType
	for rows.Next() {
		var ct CustomType
		if err := rows.Scan(&ct.ID, &ct.Name); err != nil {
			return fmt.Errorf("failed to scan custom type row: %w", err)
		}
		customs = append(customs, ct)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read custom type rows: %w", err)
	}

	hidden, err := r.loadHidden()
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.customs = customs
	r.hidden = hidden
	r.mu.Unlock()
	return nil
}

// ListVisible returns the built-ins not currently hidden, in canonical
// order, followed by the custom types in creation order. "all" always leads
// and "other" is always present.
func (r *Registry) ListVisible() []Category {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Category
	for _, b := range builtinTypes {
		if r.isHiddenLocked(b.ID) {
			continue
		}
		out = append(out, b)
	}
	for _, ct := range r.customs {
		out = append(out, Category{ID: ct.ID, Name: ct.Name, Custom: true})
	}
	return out
}

// Customs returns a copy of the custom type rows.
func (r *Registry) Customs() []CustomType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]CustomType, len(r.customs))
	copy(out, r.customs)
	return out
}

// HiddenIDs returns a copy of the hidden built-in ids.
func (r *Registry) HiddenIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.hidden))
	copy(out, r.hidden)
	return out
}

// ResolveName maps any type id to a display name. Unresolvable ids fall
// back to the "other" label; the result is never empty.
func (r *Registry) ResolveName(typeID string) string {
	for _, b := range builtinTypes {
		if b.ID == typeID {
			return b.Name
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ct := range r.customs {
		if ct.ID == typeID {
			return ct.Name
		}
	}
	return builtinName(TypeOther)
}

// Resolves reports whether the id refers to any known category, hidden
// built-ins included.
func (r *Registry) Resolves(typeID string) bool {
	if isBuiltinID(typeID) {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ct := range r.customs {
		if ct.ID == typeID {
			return true
		}
	}
	return false
}

// AddCustom creates a custom category. The name must be non-empty after
// trimming and unique (case-insensitive) across built-ins and customs; a
// violation comes back as a *validation.Error so the caller can show it
// inline.
func (r *Registry) AddCustom(name string) (CustomType, error) {
	name = strings.TrimSpace(name)
	if v := validation.ValidateTypeName(name); v.HasErrors() {
		return CustomType{}, v.Errors()[0]
	}
	if r.nameTaken(name) {
		return CustomType{}, &validation.Error{Field: "name", Message: fmt.Sprintf("type '%s' already exists", name)}
	}

	ct := CustomType{ID: r.mintCustomID(), Name: name}
	if _, err := r.db.Exec("INSERT INTO custom_types (id, name) VALUES (?, ?)", ct.ID, ct.Name); err != nil {
		return CustomType{}, fmt.Errorf("failed to insert custom type: %w", err)
	}
	return ct, r.Reload()
}

// AddCustomWithID inserts a custom type preserving its id, skipping the
// insert when the id or name already exists. Restore uses this to replay a
// backup's type list; the returned bool reports whether a row was created.
func (r *Registry) AddCustomWithID(ct CustomType) (bool, error) {
	if r.Resolves(ct.ID) || r.nameTaken(ct.Name) {
		return false, nil
	}
	if _, err := r.db.Exec("INSERT INTO custom_types (id, name) VALUES (?, ?)", ct.ID, ct.Name); err != nil {
		return false, fmt.Errorf("failed to insert custom type: %w", err)
	}
	return true, r.Reload()
}

// DeleteCustom removes a custom type row. Callers are expected to resolve
// dependent credentials first via the deletion workflow.
func (r *Registry) DeleteCustom(id string) error {
	if _, err := r.db.Exec("DELETE FROM custom_types WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete custom type: %w", err)
	}
	return r.Reload()
}

// HideBuiltin soft-deletes a built-in category by appending its id to the
// persisted hidden list. "all" and "other" are rejected.
func (r *Registry) HideBuiltin(id string) error {
	if id == TypeAll || id == TypeOther {
		return ErrProtectedType
	}
	if !isBuiltinID(id) {
		return fmt.Errorf("unknown built-in type '%s'", id)
	}

	hidden, err := r.loadHidden()
	if err != nil {
		return err
	}
	for _, h := range hidden {
		if h == id {
			return nil
		}
	}
	hidden = append(hidden, id)
	if err := r.saveHidden(hidden); err != nil {
		return err
	}
	return r.Reload()
}

// UnhideBuiltin removes an id from the hidden list; other entries are left
// untouched.
func (r *Registry) UnhideBuiltin(id string) error {
	if id == TypeAll || id == TypeOther {
		return ErrProtectedType
	}

	hidden, err := r.loadHidden()
	if err != nil {
		return err
	}
	kept := hidden[:0]
	for _, h := range hidden {
		if h != id {
			kept = append(kept, h)
		}
	}
	if err := r.saveHidden(kept); err != nil {
		return err
	}
	return r.Reload()
}

// mintCustomID produces a "custom_<unix-ms>" id, bumping forward on
// same-millisecond collisions so ids stay distinct within the registry.
func (r *Registry) mintCustomID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ms := time.Now().UnixMilli()
	if ms <= r.lastID {
		ms = r.lastID + 1
	}
	r.lastID = ms
	return fmt.Sprintf("%s%d", customIDPrefix, ms)
}

func (r *Registry) nameTaken(name string) bool {
	for _, b := range builtinTypes {
		if strings.EqualFold(b.Name, name) {
			return true
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ct := range r.customs {
		if strings.EqualFold(ct.Name, name) {
			return true
		}
	}
	return false
}

func (r *Registry) isHiddenLocked(id string) bool {
	for _, h := range r.hidden {
		if h == id {
			return true
		}
	}
	return false
}

func isBuiltinID(id string) bool {
	for _, b := range builtinTypes {
		if b.ID == id {
			return true
		}
	}
	return false
}

func builtinName(id string) string {
	for _, b := range builtinTypes {
		if b.ID == id {
			return b.Name
		}
	}
	return ""
}

// loadHidden reads the hidden built-in ids from app_settings. A missing or
// unparsable row degrades to an empty list, matching the original app; the
// degradation is logged so the next save repairs the row visibly.
func (r *Registry) loadHidden() ([]string, error) {
	raw, ok, err := settingGet(r.db, hiddenTypesKey)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var hidden []string
	if err := json.Unmarshal([]byte(raw), &hidden); err != nil {
		r.log.Warning("Discarding unparsable hidden types list: %v", err)
		return nil, nil
	}
	return hidden, nil
}

func (r *Registry) saveHidden(hidden []string) error {
	if hidden == nil {
		hidden = []string{}
	}
	raw, err := json.Marshal(hidden)
	if err != nil {
		return fmt.Errorf("failed to encode hidden types list: %w", err)
	}
	return settingPut(r.db, hiddenTypesKey, string(raw))
}
