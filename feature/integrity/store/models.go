package store

import "time"

// Run is one persisted integrity check.
type Run struct {
	ID                  string    `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	StartedAt           time.Time `gorm:"column:started_at;index" json:"started_at"`
	Source              string    `gorm:"column:source;type:varchar(16)" json:"source"`
	KeyField            string    `gorm:"column:key_field;type:varchar(64)" json:"key_field"`
	CountField          string    `gorm:"column:count_field;type:varchar(64)" json:"count_field"`
	MaxRows             int       `gorm:"column:max_rows" json:"max_rows"`
	Respondents         int       `gorm:"column:respondents" json:"respondents"`
	Items               int       `gorm:"column:items" json:"items"`
	Groups              int       `gorm:"column:groups_count" json:"groups"`
	Consistent          bool      `gorm:"column:consistent" json:"consistent"`
	ViolationCount      int       `gorm:"column:violation_count" json:"violation_count"`
	ExpectationFailures []string  `gorm:"column:expectation_failures;type:text;serializer:json" json:"expectation_failures"`
	DurationMS          int64     `gorm:"column:duration_ms" json:"duration_ms"`

	// Violations is only loaded by Get.
	Violations []Violation `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE" json:"violations,omitempty"`
}

// TableName overrides the table name used by Run.
func (Run) TableName() string {
	return "integrity_runs"
}

// Violation is one mismatch of a persisted run.
type Violation struct {
	ID       uint   `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	RunID    string `gorm:"column:run_id;type:varchar(36);index" json:"-"`
	Position int    `gorm:"column:position" json:"position"`
	Key      string `gorm:"column:respondent_key;type:varchar(64)" json:"key"`
	Expected int    `gorm:"column:expected" json:"expected"`
	Actual   int    `gorm:"column:actual" json:"actual"`
	Reported string `gorm:"column:reported;type:varchar(32)" json:"reported,omitempty"`
}

// TableName overrides the table name used by Violation.
func (Violation) TableName() string {
	return "integrity_violations"
}

// Models lists every model the store migrates.
func Models() []any {
	return []any{&Run{}, &Violation{}}
}
