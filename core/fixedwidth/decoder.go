package fixedwidth

import (
	"bufio"
	"io"
	"iter"
	"math"
	"strconv"
	"strings"

	"survey-integrity/core/record"
	"survey-integrity/core/schema"
)

// maxLineBytes bounds a single data line. Respondent files run to a few
// thousand bytes per line.
const maxLineBytes = 1 << 20

// Decoder turns fixed-width lines into records using a schema.
//
// Short lines are padded: bytes past the end of the line count as blanks, so
// a numeric field beyond the line decodes as Missing and a string field as "".
// A field that is only partly covered is truncated to the bytes available.
type Decoder struct {
	fields []schema.FieldSpec
}

// NewDecoder creates a decoder for s.
func NewDecoder(s *schema.Schema) *Decoder {
	return &Decoder{fields: s.Fields()}
}

// Decode decodes a single line.
func (d *Decoder) Decode(line string) (record.Record, error) {
	return d.decode(0, line)
}

func (d *Decoder) decode(lineNo int, line string) (record.Record, error) {
	line = strings.TrimSuffix(line, "\r")
	values := make(map[string]record.Value, len(d.fields))

	for _, f := range d.fields {
		raw := strings.TrimSpace(slice(line, f.Start, f.End()))
		v, err := convert(raw, f.Type)
		if err != nil {
			return record.Record{}, &DecodeError{Line: lineNo, Field: f.Name, Type: f.Type, Raw: raw, Err: err}
		}
		values[f.Name] = v
	}

	return record.New(values), nil
}

// Rows decodes r line by line. The sequence is single-pass: it reads r as it
// is consumed and stops at the first error, which is yielded once. Empty lines
// are skipped.
func (d *Decoder) Rows(r io.Reader) iter.Seq2[record.Record, error] {
	return func(yield func(record.Record, error) bool) {
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

		lineNo := 0
		for sc.Scan() {
			lineNo++
			line := sc.Text()
			if line == "" || line == "\r" {
				continue
			}
			rec, err := d.decode(lineNo, line)
			if err != nil {
				yield(record.Record{}, err)
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			yield(record.Record{}, err)
		}
	}
}

func slice(line string, start, end int) string {
	if start >= len(line) {
		return ""
	}
	if end > len(line) {
		end = len(line)
	}
	return line[start:end]
}

func convert(raw string, typ schema.Type) (record.Value, error) {
	switch typ {
	case schema.TypeInteger:
		if raw == "" {
			return record.Missing(), nil
		}
		i, err := strconv.ParseInt(raw, 10, 64)
		if err == nil {
			return record.Int(i), nil
		}
		// Some exports write integral codes as "2.0".
		if f, ferr := strconv.ParseFloat(raw, 64); ferr == nil && f == math.Trunc(f) {
			if f >= math.MinInt64 && f < math.MaxInt64 {
				return record.Int(int64(f)), nil
			}
			return record.Value{}, strconv.ErrRange
		}
		return record.Value{}, err
	case schema.TypeFloat:
		if raw == "" {
			return record.Missing(), nil
		}
		f, err := strconv.ParseFloat(raw, 64)
		switch {
		case err != nil:
			return record.Value{}, err
		case math.IsNaN(f):
			return record.Value{}, strconv.ErrSyntax
		case math.IsInf(f, 0):
			return record.Value{}, strconv.ErrRange
		}
		return record.Float(f), nil
	default:
		return record.Text(raw), nil
	}
}
