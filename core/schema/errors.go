package schema

import (
	"fmt"
	"strings"
)

// SchemaFormatError reports a schema declaration that cannot be used.
type SchemaFormatError struct {
	// Line is the 1-based source line, or 0 when the schema was built in code.
	Line int
	// Text is the offending source line, if any.
	Text string
	// Field is the field the problem was found on, if known.
	Field string
	// Reason describes the problem.
	Reason string
}

func (e *SchemaFormatError) Error() string {
	var b strings.Builder
	b.WriteString("schema")
	if e.Line > 0 {
		fmt.Fprintf(&b, ": line %d", e.Line)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": field %q", e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}

// MissingFieldError reports a field name that the active schema does not declare.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("schema: field %q is not declared", e.Field)
}
