package errors

import "errors"

var (
	ErrLaneNotFound = errors.New("lane not found")

	ErrInvalidID = errors.New("invalid lane ID format")
)
