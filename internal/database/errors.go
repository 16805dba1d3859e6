package database

import "errors"

var (
	// ErrNotFound no row matched the given identity.
	ErrNotFound = errors.New("not found")
	// ErrCourtNotFound the booking references an unknown court.
	ErrCourtNotFound = errors.New("court not found")
)
