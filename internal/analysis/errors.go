package analysis

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks requests rejected before any computation
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError describes why a request was rejected
type InvalidInputError struct {
	Field   string
	Message string
	Cause   error
}

func (e *InvalidInputError) Error() string {
	msg := fmt.Sprintf("invalid input: %s: %s", e.Field, e.Message)
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *InvalidInputError) Unwrap() error {
	return e.Cause
}

// Is makes every InvalidInputError match ErrInvalidInput
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}
