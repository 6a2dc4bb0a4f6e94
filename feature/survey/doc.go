// Package survey describes the National Survey of Family Growth release the
// integrity check runs against.
//
// It owns the file names and join fields (Config), the per-file cleaning
// steps (CleanFemResp, CleanFemPreg) and the published row and value counts
// of the 2002 release (Expectations). Other releases plug in by supplying a
// different Config and Expectations.
package survey
