package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the decoded type of a fixed-width field.
type Type int

const (
	// TypeString keeps the trimmed raw text.
	TypeString Type = iota
	// TypeInteger decodes to a signed 64-bit integer.
	TypeInteger
	// TypeFloat decodes to a 64-bit float.
	TypeFloat
)

// String returns the lowercase name of the type.
func (t Type) String() string {
	switch t {
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	default:
		return "string"
	}
}

// ParseType maps a declared type name to a Type.
func ParseType(name string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "string", "str", "text":
		return TypeString, nil
	case "integer", "int":
		return TypeInteger, nil
	case "float", "double", "number":
		return TypeFloat, nil
	default:
		return TypeString, fmt.Errorf("unknown field type %q", name)
	}
}

// FieldSpec describes one column of a fixed-width layout.
type FieldSpec struct {
	// Name is the column name, unique within a schema.
	Name string `json:"name"`
	// Start is the 0-based byte offset of the column.
	Start int `json:"start"`
	// Length is the column width in bytes.
	Length int `json:"length"`
	// Type is the decoded type.
	Type Type `json:"type"`
	// Label is an optional human readable description.
	Label string `json:"label,omitempty"`
	// ValueLabels optionally maps integer codes to their meaning.
	ValueLabels map[int64]string `json:"value_labels,omitempty"`
}

// End returns the exclusive end offset of the field.
func (f FieldSpec) End() int {
	return f.Start + f.Length
}

// Schema is an ordered, immutable list of field definitions.
type Schema struct {
	fields []FieldSpec
	index  map[string]int
}

// New validates fields and builds a Schema. Field order is kept as given.
func New(fields []FieldSpec) (*Schema, error) {
	decls := make([]declaration, len(fields))
	for i, f := range fields {
		decls[i] = declaration{spec: f}
	}
	return build(decls)
}

// declaration is a parsed field together with where it came from.
type declaration struct {
	spec FieldSpec
	line int
	text string
}

func build(decls []declaration) (*Schema, error) {
	s := &Schema{
		fields: make([]FieldSpec, 0, len(decls)),
		index:  make(map[string]int, len(decls)),
	}

	for _, d := range decls {
		f := d.spec
		switch {
		case f.Name == "":
			return nil, &SchemaFormatError{Line: d.line, Text: d.text, Reason: "field name is empty"}
		case f.Start < 0:
			return nil, &SchemaFormatError{Line: d.line, Text: d.text, Field: f.Name, Reason: fmt.Sprintf("negative start offset %d", f.Start)}
		case f.Length <= 0:
			return nil, &SchemaFormatError{Line: d.line, Text: d.text, Field: f.Name, Reason: fmt.Sprintf("non-positive width %d", f.Length)}
		}
		if _, dup := s.index[f.Name]; dup {
			return nil, &SchemaFormatError{Line: d.line, Text: d.text, Field: f.Name, Reason: "duplicate field name"}
		}
		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}

	// Overlap check on a start-ordered view; declaration order is untouched.
	order := make([]int, len(decls))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return decls[order[i]].spec.Start < decls[order[j]].spec.Start
	})
	for i := 1; i < len(order); i++ {
		prev, cur := decls[order[i-1]], decls[order[i]]
		if prev.spec.End() > cur.spec.Start {
			return nil, &SchemaFormatError{
				Line:  cur.line,
				Text:  cur.text,
				Field: cur.spec.Name,
				Reason: fmt.Sprintf("byte range [%d,%d) overlaps field %q [%d,%d)",
					cur.spec.Start, cur.spec.End(), prev.spec.Name, prev.spec.Start, prev.spec.End()),
			}
		}
	}

	return s, nil
}

// Len returns the number of fields.
func (s *Schema) Len() int {
	return len(s.fields)
}

// Fields returns a copy of the field definitions in declaration order.
func (s *Schema) Fields() []FieldSpec {
	out := make([]FieldSpec, len(s.fields))
	copy(out, s.fields)
	return out
}

// Names returns the field names in declaration order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Has reports whether the schema declares name.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Lookup returns the definition of name or a *MissingFieldError.
func (s *Schema) Lookup(name string) (FieldSpec, error) {
	i, ok := s.index[name]
	if !ok {
		return FieldSpec{}, &MissingFieldError{Field: name}
	}
	return s.fields[i], nil
}

// Width returns the highest end offset over all fields.
func (s *Schema) Width() int {
	width := 0
	for _, f := range s.fields {
		if f.End() > width {
			width = f.End()
		}
	}
	return width
}
