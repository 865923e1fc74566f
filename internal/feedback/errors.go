package feedback

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the only failure ComputeView reports. Use errors.Is to
// detect it; the concrete error is an *InputError.
var ErrInvalidInput = errors.New("invalid input")

// InputError describes which argument was malformed.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidInput, e.Field, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

func invalid(field, format string, args ...any) error {
	return &InputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
