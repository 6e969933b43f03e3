package common

import "errors"

// Error categories. Domain sentinels wrap exactly one of these so the transport
// layer can map a whole family of failures without knowing every domain error.
var (
	ErrValidation         = errors.New("validation error")
	ErrStateConflict      = errors.New("state conflict")
	ErrInvariantViolation = errors.New("invariant violation")
	ErrNotFound           = errors.New("not found")
)
