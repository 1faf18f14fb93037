// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Model bundle errors.
	ErrBundleCorrupt    = errors.New("model bundle corrupt")
	ErrBundleIncomplete = errors.New("model bundle incomplete")

	// Feature errors.
	ErrDimensionMismatch = errors.New("feature dimensionality mismatch")

	// Training errors.
	ErrMissingColumn = errors.New("missing required column")
	ErrEmptyDataset  = errors.New("no training rows")

	// Configuration errors.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
