package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Profile errors
	ErrValidationFailed = errors.New("validation failed")
	ErrAlreadyExists    = errors.New("user already exists")
	ErrNotFound         = errors.New("user does not exist")
	ErrForbidden        = errors.New("not authorized")

	// Score errors
	ErrInvalidScore      = errors.New("score must be a number")
	ErrInvalidDifficulty = errors.New("difficulty must be easy, normal, or hard")

	// Storage errors
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// StorageFailure marks err as a persistence failure while keeping the cause
// available to errors.Is and errors.As
func StorageFailure(err error) error {
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}
