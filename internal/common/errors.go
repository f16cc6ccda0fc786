// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Calculation errors.
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidBracketTable = errors.New("invalid bracket table")

	// Storage errors.
	ErrNotFound          = errors.New("not found")
	ErrDatabaseCorrupted = errors.New("database corrupted")

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

// InvalidInputf wraps ErrInvalidInput with a formatted reason.
func InvalidInputf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// InvalidTablef wraps ErrInvalidBracketTable with a formatted reason.
func InvalidTablef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidBracketTable, fmt.Sprintf(format, args...))
}

// Describe returns the message a user should see for err. Calculation errors
// are reported without their sentinel prefix noise.
func Describe(err error) string {
	var userErr *UserError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &userErr):
		return userErr.UserMessage
	case errors.Is(err, ErrInvalidInput):
		return "Check your inputs: " + err.Error()
	case errors.Is(err, ErrInvalidBracketTable):
		return "Tax tables unavailable: " + err.Error()
	case errors.Is(err, ErrNotFound):
		return "Nothing found: " + err.Error()
	default:
		return err.Error()
	}
}
