package analysis

import (
	"errors"
	"fmt"
)

// ErrMissingField is wrapped by every ValidationError.
var ErrMissingField = errors.New("missing required field")

// ValidationError reports a request rejected before any scoring ran.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrMissingField
}

func newValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
