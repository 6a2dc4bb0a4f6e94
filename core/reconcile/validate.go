package reconcile

import (
	"iter"

	"survey-integrity/core/dataset"
)

// Validate groups items by keyField and checks every respondent's countField
// against its group size.
func Validate(respondents, items *dataset.Dataset, keyField, countField string) (*Verdict, error) {
	// Fail on the respondent schema before paying for the index
	if err := requireFields(respondents, keyField, countField); err != nil {
		return nil, err
	}

	index, err := BuildIndex(items, keyField)
	if err != nil {
		return nil, err
	}
	return CheckCounts(respondents, countField, keyField, index)
}

// CheckCounts scans every respondent in order and collects all mismatches.
// A respondent whose key has no group counts as 0 actual items, so a
// reported count of 0 with no items is consistent. A count that is not a
// whole number is always a violation.
func CheckCounts(respondents *dataset.Dataset, countField, keyField string, index *GroupIndex) (*Verdict, error) {
	verdict := &Verdict{Violations: []Violation{}}
	for v, err := range Violations(respondents, countField, keyField, index) {
		if err != nil {
			return nil, err
		}
		verdict.Violations = append(verdict.Violations, v)
	}
	verdict.AllConsistent = len(verdict.Violations) == 0
	return verdict, nil
}

// Violations yields mismatches lazily in respondent order. Breaking out of
// the loop stops the scan. A schema error is yielded once as the only
// element.
func Violations(respondents *dataset.Dataset, countField, keyField string, index *GroupIndex) iter.Seq2[Violation, error] {
	return func(yield func(Violation, error) bool) {
		if err := requireFields(respondents, keyField, countField); err != nil {
			yield(Violation{}, err)
			return
		}

		for _, rec := range respondents.All() {
			key := rec.Value(keyField).Key()
			v := Violation{Key: key, Actual: index.Count(key)}

			count := rec.Value(countField)
			if n, ok := count.Int(); ok {
				if int(n) == v.Actual {
					continue
				}
				v.Expected = int(n)
			} else {
				v.Reported = count.String()
			}

			if !yield(v, nil) {
				return
			}
		}
	}
}

func requireFields(d *dataset.Dataset, names ...string) error {
	for _, name := range names {
		if _, err := d.Schema().Lookup(name); err != nil {
			return err
		}
	}
	return nil
}
