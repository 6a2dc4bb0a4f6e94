package reconcile

import "fmt"

// Violation represents one respondent whose self-reported count disagrees
// with the number of grouped item records.
type Violation struct {
	// Key is the respondent's join key.
	Key string `json:"key"`

	// Expected is the count the respondent reported. It is 0 when Reported
	// is set.
	Expected int `json:"expected"`

	// Actual is the number of item records grouped under Key.
	Actual int `json:"actual"`

	// Reported holds the raw count when it is not a whole number (NA, text
	// or a fraction). Such a count never matches a group size.
	Reported string `json:"reported,omitempty"`
}

// Unusable reports whether the respondent's count is not a whole number.
func (v Violation) Unusable() bool {
	return v.Reported != ""
}

func (v Violation) String() string {
	if v.Unusable() {
		return fmt.Sprintf("%s: expected=%s actual=%d", v.Key, v.Reported, v.Actual)
	}
	return fmt.Sprintf("%s: expected=%d actual=%d", v.Key, v.Expected, v.Actual)
}

// Verdict is the outcome of one validation pass. A new Verdict is built for
// every call; it is never cached or shared between runs.
type Verdict struct {
	// AllConsistent is true when Violations is empty.
	AllConsistent bool `json:"all_consistent"`

	// Violations lists mismatches in respondent order. It is never nil so the
	// JSON form is always an array.
	Violations []Violation `json:"violations"`
}
