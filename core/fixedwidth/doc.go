// Package fixedwidth decodes fixed-width text lines into typed records.
//
// Each field is the byte range [start, start+length) of the line, trimmed and
// converted to the field's declared type. Short lines are padded with blanks;
// blank numeric fields are Missing. Numeric text that does not parse yields a
// *DecodeError naming the field and the raw text.
package fixedwidth
