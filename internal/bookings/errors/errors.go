package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrLockHeld means another commit attempt currently owns the slot
	// lock; the caller lost the race.
	ErrLockHeld = errors.New("slot lock is held by another attempt")
)
