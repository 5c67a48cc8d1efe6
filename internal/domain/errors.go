package domain

import (
	"errors"
)

// Sentinel errors for the domain layer - match with errors.Is().
// Services wrap them with context via fmt.Errorf("...: %w", err) and the
// handler layer maps them to HTTP status codes in one place.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrValidation         = errors.New("validation failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrUnsupportedVersion = errors.New("unsupported package version")
)
