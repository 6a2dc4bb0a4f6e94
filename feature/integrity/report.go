package integrity

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"survey-integrity/core/dataset"
	"survey-integrity/core/reconcile"
	"survey-integrity/feature/integrity/store"
)

var (
	// ErrInconsistent is returned by Report.Err when the check found
	// violations or failed expectations.
	ErrInconsistent = errors.New("survey data is inconsistent")
	// ErrHistoryDisabled is returned when run history is requested but no
	// database is configured.
	ErrHistoryDisabled = errors.New("run history is disabled")
	// ErrStorageDisabled is returned when a storage operation is requested
	// but no storage client is configured.
	ErrStorageDisabled = errors.New("storage is not configured")
	// ErrInvalidRequest wraps request validation failures.
	ErrInvalidRequest = errors.New("invalid request")
)

// Request controls one integrity check.
type Request struct {
	// MaxRows caps the respondents. Zero falls back to the configured cap.
	MaxRows int `json:"max_rows"`
	// Save persists the report to the run history.
	Save bool `json:"save"`
	// FailFast stops at the first violation.
	FailFast bool `json:"fail_fast"`
}

// Report is the outcome of one integrity check.
type Report struct {
	RunID       string    `json:"run_id"`
	StartedAt   time.Time `json:"started_at"`
	Source      string    `json:"source"`
	KeyField    string    `json:"key_field"`
	CountField  string    `json:"count_field"`
	MaxRows     int       `json:"max_rows"`
	FailFast    bool      `json:"fail_fast"`
	Respondents int       `json:"respondents"`
	Items       int       `json:"items"`
	Groups      int       `json:"groups"`

	// CountDistribution tallies the respondents' reported counts.
	CountDistribution []dataset.ValueCount `json:"count_distribution"`

	Verdict *reconcile.Verdict `json:"verdict"`

	// ExpectationFailures lists published counts the files did not match.
	// Expectations are skipped when rows are capped.
	ExpectationFailures []string `json:"expectation_failures"`

	DurationMS int64 `json:"duration_ms"`
	Saved      bool  `json:"saved"`
}

// Consistent reports whether the verdict holds and every expectation was met.
func (r *Report) Consistent() bool {
	return r.Verdict != nil && r.Verdict.AllConsistent && len(r.ExpectationFailures) == 0
}

// Err returns ErrInconsistent with a summary, or nil for a consistent report.
func (r *Report) Err() error {
	if r.Consistent() {
		return nil
	}
	violations := 0
	if r.Verdict != nil {
		violations = len(r.Verdict.Violations)
	}
	return fmt.Errorf("%w: %d violations, %d failed expectations", ErrInconsistent, violations, len(r.ExpectationFailures))
}

// WriteJSON writes the indented report to w.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// Run converts the report to its history row.
func (r *Report) Run() *store.Run {
	run := &store.Run{
		ID:                  r.RunID,
		StartedAt:           r.StartedAt,
		Source:              r.Source,
		KeyField:            r.KeyField,
		CountField:          r.CountField,
		MaxRows:             r.MaxRows,
		Respondents:         r.Respondents,
		Items:               r.Items,
		Groups:              r.Groups,
		Consistent:          r.Consistent(),
		ExpectationFailures: r.ExpectationFailures,
		DurationMS:          r.DurationMS,
	}
	if r.Verdict != nil {
		run.ViolationCount = len(r.Verdict.Violations)
		run.Violations = make([]store.Violation, len(r.Verdict.Violations))
		for i, v := range r.Verdict.Violations {
			run.Violations[i] = store.Violation{Key: v.Key, Expected: v.Expected, Actual: v.Actual, Reported: v.Reported}
		}
	}
	return run
}
