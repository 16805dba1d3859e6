package service

import "errors"

// Failure classes surfaced by the services. Callers branch with
// errors.Is; the HTTP layer maps them to status codes.
var (
	// ErrValidation marks malformed or ill-typed input.
	ErrValidation = errors.New("validation failed")

	// ErrConflict marks a booking that overlaps an existing one.
	ErrConflict = errors.New("slot already booked")

	// ErrNotFound marks a missing booking, court or client.
	ErrNotFound = errors.New("not found")

	// ErrExternal marks a collaborator failure (payment provider,
	// storage). The operation may have partially succeeded; see the
	// returned values.
	ErrExternal = errors.New("external service failed")
)
