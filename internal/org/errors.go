package org

import "errors"

// Error taxonomy shared by the organization core. Handlers translate these
// into HTTP statuses; anything else is a dependency failure and surfaces as
// a 500.
var (
	// ErrNotFound covers both a missing record and a record outside the
	// caller's tenant scope, so existence of another tenant's data never
	// leaks.
	ErrNotFound = errors.New("organization: not found")

	// ErrForbidden means the caller is authenticated but lacks the role or
	// tenant scope for the operation.
	ErrForbidden = errors.New("organization: forbidden")

	// ErrValidation covers malformed input and duplicate unique keys.
	ErrValidation = errors.New("organization: invalid input")

	// ErrConflict covers operations that conflict with current state, such
	// as exceeding a plan resource limit.
	ErrConflict = errors.New("organization: conflict")
)
