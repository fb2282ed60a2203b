package domain

import (
	"errors"
	"fmt"
)

// InvalidInputError reports a boundary failure: a truly invalid
// call shape such as a nil account ID or an inverted date range. Suspicious
// but well-formed data never produces this error; it degrades to documented
// zero/sentinel defaults and is judged by the QC engine instead.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

// NewInvalidInput creates an InvalidInputError with a formatted reason.
func NewInvalidInput(format string, args ...any) error {
	return &InvalidInputError{Reason: fmt.Sprintf(format, args...)}
}

// IsInvalidInput reports whether err is an InvalidInputError.
func IsInvalidInput(err error) bool {
	var ie *InvalidInputError
	return errors.As(err, &ie)
}
