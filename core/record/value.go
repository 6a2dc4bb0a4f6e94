package record

import (
	"encoding/json"
	"math"
	"strconv"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	// KindMissing is a blank numeric column or a value removed by cleaning.
	KindMissing Kind = iota
	// KindInteger holds an int64.
	KindInteger
	// KindFloat holds a float64.
	KindFloat
	// KindText holds a string.
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	default:
		return "missing"
	}
}

// Value is a decoded field value.
// The zero Value is Missing.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

// Missing returns the missing value.
func Missing() Value { return Value{} }

// Int wraps an integer.
func Int(v int64) Value { return Value{kind: KindInteger, i: v} }

// Float wraps a float. NaN is stored as Missing.
func Float(v float64) Value {
	if math.IsNaN(v) {
		return Value{}
	}
	return Value{kind: KindFloat, f: v}
}

// Text wraps a string.
func Text(v string) Value { return Value{kind: KindText, s: v} }

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether v holds no value.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Int returns the integer held by v. Floats convert only when integral.
func (v Value) Int() (int64, bool) {
	switch v.kind {
	case KindInteger:
		return v.i, true
	case KindFloat:
		if v.f == math.Trunc(v.f) && v.f >= math.MinInt64 && v.f < math.MaxInt64 {
			return int64(v.f), true
		}
	}
	return 0, false
}

// Float returns v as a float for integer and float values.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindInteger:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	}
	return 0, false
}

// Text returns the string held by v.
func (v Value) Text() (string, bool) {
	if v.kind == KindText {
		return v.s, true
	}
	return "", false
}

// Key returns the canonical text used to join values across datasets.
// An integer 7 and the text "7" share a key; Missing has the empty key.
func (v Value) Key() string {
	switch v.kind {
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindText:
		return v.s
	default:
		return ""
	}
}

func (v Value) String() string {
	if v.kind == KindMissing {
		return "NA"
	}
	return v.Key()
}

// MarshalJSON encodes numbers as numbers, text as strings and Missing as null.
// Infinite floats have no JSON form and are written as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindInteger:
		return []byte(strconv.FormatInt(v.i, 10)), nil
	case KindFloat:
		if math.IsInf(v.f, 0) {
			return []byte("null"), nil
		}
		return []byte(strconv.FormatFloat(v.f, 'g', -1, 64)), nil
	case KindText:
		return json.Marshal(v.s)
	default:
		return []byte("null"), nil
	}
}
