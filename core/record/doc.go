// Package record defines the typed values produced by fixed-width decoding.
//
// A Value is a tagged variant (Missing, Integer, Float, Text) so type problems
// surface at decode time instead of wherever a column is first used. Records
// are read-only after creation.
package record
