package fixedwidth

import (
	"fmt"

	"survey-integrity/core/schema"
)

// DecodeError reports raw field bytes that cannot be converted to the
// field's declared type.
type DecodeError struct {
	// Line is the 1-based data line, or 0 for a single Decode call.
	Line  int
	Field string
	Type  schema.Type
	Raw   string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("decode: line %d: field %q: cannot convert %q to %s", e.Line, e.Field, e.Raw, e.Type)
	}
	return fmt.Sprintf("decode: field %q: cannot convert %q to %s", e.Field, e.Raw, e.Type)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
