package storage

import "errors"

// Storage errors shared by all backends.
var (
	// ErrDuplicateKey is returned when attempting to insert a row
	// with a key that already exists. Observation history is append-only.
	ErrDuplicateKey = errors.New("duplicate key: append-only store does not allow updates")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLocked is returned when another run holds the store lock.
	ErrLocked = errors.New("store is locked by another run")
)
