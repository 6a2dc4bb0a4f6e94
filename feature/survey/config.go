package survey

import (
	"fmt"
	"time"

	"survey-integrity/core/source"
	"survey-integrity/core/storage"
)

const (
	// SourceFile reads survey files from the local filesystem.
	SourceFile = "file"
	// SourceStorage reads survey files from the storage bucket.
	SourceStorage = "storage"
)

// Config holds the survey file locations and join fields.
type Config struct {
	// Source selects where survey files are read from (file, storage).
	Source string `mapstructure:"source" default:"file"`
	// Root is the local directory holding the files when Source is file.
	Root string `mapstructure:"root" default:"data"`
	// Prefix is the object prefix inside the bucket when Source is storage.
	Prefix string `mapstructure:"prefix" default:"nsfg"`
	// RespondentSchema is the dictionary of the respondent file.
	RespondentSchema string `mapstructure:"respondent_schema" default:"2002FemResp.dct"`
	// RespondentData is the fixed-width respondent file.
	RespondentData string `mapstructure:"respondent_data" default:"2002FemResp.dat.gz"`
	// ItemSchema is the dictionary of the pregnancy file.
	ItemSchema string `mapstructure:"item_schema" default:"2002FemPreg.dct"`
	// ItemData is the fixed-width pregnancy file.
	ItemData string `mapstructure:"item_data" default:"2002FemPreg.dat.gz"`
	// KeyField joins respondents to items.
	KeyField string `mapstructure:"key_field" default:"caseid"`
	// CountField holds the respondent's self-reported item count.
	CountField string `mapstructure:"count_field" default:"pregnum"`
	// MaxRows caps the respondents; pregnancies are always read in full. Zero reads every row.
	MaxRows int `mapstructure:"max_rows" default:"0"`
	// SchemaCacheSeconds is how long parsed dictionaries are reused.
	SchemaCacheSeconds int `mapstructure:"schema_cache_seconds" default:"300"`
}

// IsValidSource checks if the configured source is known.
func (c Config) IsValidSource() bool {
	switch c.Source {
	case SourceFile, SourceStorage:
		return true
	default:
		return false
	}
}

// SchemaCacheTTL returns the schema cache lifetime.
func (c Config) SchemaCacheTTL() time.Duration {
	return time.Duration(c.SchemaCacheSeconds) * time.Second
}

// Opener builds the source opener for the configured source.
// client may be nil when Source is file.
func (c Config) Opener(client storage.Client, bucket string) (source.Opener, error) {
	switch c.Source {
	case SourceFile:
		return source.FileOpener{Root: c.Root}, nil
	case SourceStorage:
		if client == nil {
			return nil, fmt.Errorf("survey source %q requires a storage client", c.Source)
		}
		return source.ObjectOpener{Client: client, Bucket: bucket, Prefix: c.Prefix}, nil
	default:
		return nil, fmt.Errorf("unknown survey source %q (expected %s or %s)", c.Source, SourceFile, SourceStorage)
	}
}

// Sources lists every file a check reads, schemas first.
func (c Config) Sources() []string {
	return []string{c.RespondentSchema, c.ItemSchema, c.RespondentData, c.ItemData}
}
