// Package common defines sentinel errors and small helpers shared by the
// CareKeeper client packages. Callers should match errors with errors.Is
// (or errors.As for *ValidationError).
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Session errors.
	ErrNotAuthenticated = errors.New("user not authenticated")

	// Validation errors. Every *ValidationError matches ErrValidation.
	ErrValidation = errors.New("validation error")

	// Local storage errors.
	ErrCorruptRecord = errors.New("corrupt stored record")
)
