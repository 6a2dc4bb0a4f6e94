// Package reconcile cross-checks a respondent dataset against an item
// dataset.
//
// Every respondent row reports how many item rows it owns. The package
// groups the item rows by the owner's key and compares each reported count
// with the size of the matching group.
//
// # Components
//
// 1. GroupIndex: built by BuildIndex in one linear pass over the items. The
// union of all position lists is exactly [0, items.Len()), each position
// appears once and each list is increasing.
//
// 2. Validator: CheckCounts scans every respondent and returns a Verdict
// listing all mismatches in respondent order. Violations exposes the same
// scan as an iterator so a caller can stop at the first mismatch.
//
// A negative verdict is a result, not an error. The only error is a missing
// key or count field (*schema.MissingFieldError). A count that is not a
// whole number (NA, text, a fraction) is reported as a Violation with
// Reported set.
//
// # Usage Example
//
//	verdict, err := reconcile.Validate(resp, preg, "caseid", "pregnum")
//	if err != nil {
//	    return err
//	}
//	for _, v := range verdict.Violations {
//	    fmt.Println(v)
//	}
package reconcile
