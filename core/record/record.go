package record

import (
	"encoding/json"
	"sort"
)

// Record maps field names to decoded values. It is never modified after
// creation; With returns a changed copy.
type Record struct {
	values map[string]Value
}

// New wraps values. The record takes ownership of the map.
func New(values map[string]Value) Record {
	if values == nil {
		values = map[string]Value{}
	}
	return Record{values: values}
}

// Get returns the value of name and whether the record has it.
func (r Record) Get(name string) (Value, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Value returns the value of name, or Missing.
func (r Record) Value(name string) Value {
	return r.values[name]
}

// Len returns the number of fields in the record.
func (r Record) Len() int {
	return len(r.values)
}

// Names returns the field names sorted alphabetically.
func (r Record) Names() []string {
	names := make([]string, 0, len(r.values))
	for name := range r.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// With returns a copy of r with name set to v.
func (r Record) With(name string, v Value) Record {
	values := make(map[string]Value, len(r.values)+1)
	for k, old := range r.values {
		values[k] = old
	}
	values[name] = v
	return Record{values: values}
}

// MarshalJSON encodes the record as an object keyed by field name.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.values)
}
