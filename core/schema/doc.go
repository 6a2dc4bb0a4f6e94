// Package schema parses declarative fixed-width layouts into an ordered list
// of field definitions.
//
// Three syntaxes are accepted and produce the same Schema:
//
//   - Stata infile dictionaries (.dct), as shipped with the NSFG survey files.
//     _column offsets are 1-based and are converted to 0-based byte offsets;
//     widths come from the %-format.
//   - A plain layout, one field per line: name start width [type] ["label"].
//   - YAML, with a top-level "fields" list.
//
// Field order in a Schema always follows declaration order. Byte ranges may
// not overlap; a violation is reported as a *SchemaFormatError.
//
// # Usage
//
//	s, err := schema.Parse(f, schema.DetectFormat("2002FemPreg.dct"))
//	if err != nil {
//	    return err
//	}
//	spec, err := s.Lookup("caseid")
package schema
