package dbx

import "fmt"

// Decode errors form a closed taxonomy. A required field that is absent,
// mis-shaped, or carries an out-of-range value is a schema defect, never
// something to paper over with a default.

// MissingFieldError reports a required column absent from the row.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("dbx: missing field %q", e.Field)
}

// InvalidTypeError reports a column present with the wrong shape.
type InvalidTypeError struct {
	Field    string
	Expected string
}

func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("dbx: field %q is not %s", e.Field, e.Expected)
}

// InvalidValueError reports a column with the right shape but an
// unacceptable value (for example an integer flag outside 0/1).
type InvalidValueError struct {
	Field   string
	Message string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("dbx: field %q: %s", e.Field, e.Message)
}
