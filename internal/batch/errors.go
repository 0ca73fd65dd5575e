package batch

import (
	"errors"
	"fmt"
)

// ErrMalformedInput marks structural problems with an input table. It never
// describes a per-row matching outcome.
var ErrMalformedInput = errors.New("malformed input")

// InputError reports a required column that could not be resolved.
type InputError struct {
	// Table is "areas" or "countries".
	Table  string
	Column string
	Err    error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s table: %v", ErrMalformedInput, e.Table, e.Err)
}

// Unwrap exposes both ErrMalformedInput and the underlying cause.
func (e *InputError) Unwrap() []error {
	return []error{ErrMalformedInput, e.Err}
}

// IsMalformedInput reports whether err is an input structure failure.
func IsMalformedInput(err error) bool {
	return errors.Is(err, ErrMalformedInput)
}
