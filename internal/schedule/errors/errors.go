package errors

import "errors"

var (
	// ErrNoDefaultWeek means no default-hours document has been
	// configured yet; the resolver falls back to configured defaults.
	ErrNoDefaultWeek = errors.New("default week schedule not configured")

	ErrOverrideNotFound = errors.New("date override not found")

	ErrPeriodNotFound = errors.New("seasonal period not found")

	ErrInvalidID = errors.New("invalid seasonal period ID format")
)
