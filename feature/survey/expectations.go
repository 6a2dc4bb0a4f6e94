package survey

import (
	"fmt"

	"survey-integrity/core/dataset"
)

// ValueExpectation states how often a value key must occur in a column.
type ValueExpectation struct {
	Role  dataset.Role `json:"role"`
	Field string       `json:"field"`
	Key   string       `json:"key"`
	Count int          `json:"count"`
}

// Expectations are known facts about a full release. They only hold for
// complete files, so callers skip them when rows are capped.
type Expectations struct {
	// RespondentRows is the expected respondent count. Zero skips the check.
	RespondentRows int `json:"respondent_rows"`
	// ItemRows is the expected item count. Zero skips the check.
	ItemRows int `json:"item_rows"`
	// Values lists expected value frequencies.
	Values []ValueExpectation `json:"values"`
}

// NSFG2002Expectations returns the published counts of the 2002 release.
// countField names the respondent column holding the item count.
func NSFG2002Expectations(countField string) Expectations {
	return Expectations{
		RespondentRows: 7643,
		ItemRows:       13593,
		Values: []ValueExpectation{
			{Role: dataset.RoleRespondent, Field: countField, Key: "1", Count: 1267},
		},
	}
}

// Check compares the datasets with e and describes every failed expectation.
// A field that is not in the schema is reported as a failure.
func (e Expectations) Check(resp, items *dataset.Dataset) []string {
	failures := []string{}

	if e.RespondentRows > 0 && resp.Len() != e.RespondentRows {
		failures = append(failures, fmt.Sprintf("respondent rows: expected %d, got %d", e.RespondentRows, resp.Len()))
	}
	if e.ItemRows > 0 && items.Len() != e.ItemRows {
		failures = append(failures, fmt.Sprintf("item rows: expected %d, got %d", e.ItemRows, items.Len()))
	}

	for _, ve := range e.Values {
		d := resp
		if ve.Role == dataset.RoleItem {
			d = items
		}
		n, err := d.CountOf(ve.Field, ve.Key)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s %s=%s: %v", ve.Role, ve.Field, ve.Key, err))
			continue
		}
		if n != ve.Count {
			failures = append(failures, fmt.Sprintf("%s %s=%s: expected %d, got %d", ve.Role, ve.Field, ve.Key, ve.Count, n))
		}
	}

	return failures
}
