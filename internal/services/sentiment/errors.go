package sentiment

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned by Analyze when the observation sequence is empty.
var ErrEmptyInput = &EmptyInputError{}

// EmptyInputError reports an empty observation sequence.
type EmptyInputError struct{}

func (e *EmptyInputError) Error() string { return "sentiment: observation sequence is empty" }

// Is lets errors.Is match any *EmptyInputError against ErrEmptyInput.
func (e *EmptyInputError) Is(target error) bool {
	_, ok := target.(*EmptyInputError)
	return ok
}

// ValidationError reports a score that cannot be read as a real number.
type ValidationError struct {
	Index  int // position in the sequence, -1 for a standalone score
	Value  interface{}
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("sentiment: invalid score %v: %s", e.Value, e.Reason)
	}
	return fmt.Sprintf("sentiment: invalid score %v at index %d: %s", e.Value, e.Index, e.Reason)
}

// IsValidationError reports whether err wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
