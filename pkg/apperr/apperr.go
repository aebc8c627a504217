// Package apperr defines the error kinds component operations report.
// Callers classify with errors.Is; the HTTP layer owns the status mapping.
package apperr

import "errors"

var (
	// ErrValidation marks malformed or missing input, caught before any write.
	ErrValidation = errors.New("validation error")

	// ErrAuthorization marks an action attempted by a user lacking the
	// required role for it (e.g. a non-recipient accepting an invite).
	ErrAuthorization = errors.New("not allowed")

	// ErrConflict marks a uniqueness or state invariant that would be
	// violated (duplicate connection, duplicate active share).
	ErrConflict = errors.New("conflict")

	// ErrNotFound marks a referenced entity that does not resolve within the
	// caller's scope.
	ErrNotFound = errors.New("not found")

	// ErrStore marks a failure in the persistence layer itself.
	ErrStore = errors.New("store error")
)
