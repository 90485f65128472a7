package core

import "errors"

// Error taxonomy for engine operations. Wrapped errors carry the
// offending identifiers in the message; callers match with errors.Is.
var (
	// ErrValidation marks malformed input: empty required field,
	// negative capacity, value outside a closed taxonomy.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a referenced id that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate marks a name collision where uniqueness is required.
	ErrDuplicate = errors.New("duplicate name")

	// ErrCapacity marks an assignment blocked by presence, availability,
	// capacity or category gating.
	ErrCapacity = errors.New("assignment blocked")

	// ErrConflict marks a structural edit that would orphan live data.
	ErrConflict = errors.New("conflict")

	// ErrDataIntegrity marks loaded persisted state that violates the
	// store invariants.
	ErrDataIntegrity = errors.New("data integrity violation")
)
