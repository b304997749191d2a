// typedelete.go
package main

import (
	"fmt"

	"github.com/sheeppyYU/PasswordManagerNew/pkg/logger"
)

// ResolveMode selects what happens to credentials referencing a category
// being removed.
type ResolveMode int

const (
	// ResolveMerge moves dependent credentials onto "other" before the
	// category goes away.
	ResolveMerge ResolveMode = iota
	// ResolvePurge deletes the dependent credentials outright.
	ResolvePurge
)

type deletionState int

const (
	deletionIdle deletionState = iota
	deletionConfirmPending
)

// TypeDeletion drives the two-step remove-a-category workflow: Begin marks
// a candidate and waits for the merge/purge decision, Resolve carries it
// out. The protected categories are rejected before a confirmation is ever
// pending.
type TypeDeletion struct {
	store    *Store
	registry *Registry
	log      *logger.Logger

	state  deletionState
	typeID string
}

func NewTypeDeletion(store *Store, registry *Registry, log *logger.Logger) *TypeDeletion {
	return &TypeDeletion{store: store, registry: registry, log: log}
}

// Begin selects a category for removal. "all" and "other" are rejected with
// ErrProtectedType; unknown ids are rejected too.
func (d *TypeDeletion) Begin(typeID string) error {
	if typeID == TypeAll || typeID == TypeOther {
		return ErrProtectedType
	}
	if !d.registry.Resolves(typeID) {
		return fmt.Errorf("unknown type '%s'", typeID)
	}
	d.typeID = typeID
	d.state = deletionConfirmPending
	return nil
}

// Pending returns the id awaiting confirmation, if any.
func (d *TypeDeletion) Pending() (string, bool) {
	return d.typeID, d.state == deletionConfirmPending
}

// Cancel abandons the pending deletion.
func (d *TypeDeletion) Cancel() {
	d.typeID = ""
	d.state = deletionIdle
}

// Resolve performs the confirmed removal: dependent credentials are merged
// onto "other" or purged, then the category is hidden (built-in) or deleted
// (custom), then both caches reload. Returns the number of credentials
// touched. The bulk step touches disjoint rows, so a partial failure is
// safe to repair by re-running the same deletion.
func (d *TypeDeletion) Resolve(mode ResolveMode) (int, error) {
	if d.state != deletionConfirmPending {
		return 0, fmt.Errorf("no type deletion pending")
	}
	typeID := d.typeID

	var touched int
	var err error
	switch mode {
	case ResolveMerge:
		touched, err = d.store.ReassignType(typeID, TypeOther)
	case ResolvePurge:
		touched, err = d.store.DeleteByType(typeID)
	default:
		return 0, fmt.Errorf("unknown resolve mode %d", mode)
	}
	if err != nil {
		return touched, err
	}

	if isBuiltinID(typeID) {
		err = d.registry.HideBuiltin(typeID)
	} else {
		err = d.registry.DeleteCustom(typeID)
	}
	if err != nil {
		return touched, err
	}

	if err := d.store.Reload(); err != nil {
		return touched, err
	}
	if err := d.registry.Reload(); err != nil {
		return touched, err
	}

	d.log.Info("Removed type %s (%d credentials affected)", typeID, touched)
	d.Cancel()
	return touched, nil
}
