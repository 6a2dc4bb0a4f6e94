package survey

import (
	"fmt"

	"survey-integrity/core/dataset"
)

// Profile binds a configuration to the cleaning steps and expectations of
// one survey release.
type Profile struct {
	Config       Config
	Expectations Expectations
}

// NewProfile creates the NSFG 2002 profile for cfg.
func NewProfile(cfg Config) Profile {
	return Profile{Config: cfg, Expectations: NSFG2002Expectations(cfg.CountField)}
}

// RespondentOptions describes the respondent dataset load. maxRows caps the
// respondents only.
func (p Profile) RespondentOptions(maxRows int) dataset.Options {
	return dataset.Options{
		Role:         dataset.RoleRespondent,
		SchemaSource: p.Config.RespondentSchema,
		DataSource:   p.Config.RespondentData,
		MaxRows:      maxRows,
		Clean:        CleanFemResp,
	}
}

// ItemOptions describes the pregnancy dataset load. The pregnancy file is
// always read in full so a capped run still sees every pregnancy of the
// respondents it loaded.
func (p Profile) ItemOptions() dataset.Options {
	return dataset.Options{
		Role:         dataset.RoleItem,
		SchemaSource: p.Config.ItemSchema,
		DataSource:   p.Config.ItemData,
		Clean:        CleanFemPreg,
	}
}

// Validate checks the configuration before any file is opened.
func (p Profile) Validate() error {
	if !p.Config.IsValidSource() {
		return fmt.Errorf("unknown survey source %q", p.Config.Source)
	}
	if p.Config.KeyField == "" || p.Config.CountField == "" {
		return fmt.Errorf("survey key and count fields must be set")
	}
	if p.Config.MaxRows < 0 {
		return fmt.Errorf("max rows must not be negative, got %d", p.Config.MaxRows)
	}
	return nil
}
