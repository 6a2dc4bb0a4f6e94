package checks

import (
	"context"

	"survey-integrity/core/source"
)

// CheckSources returns the names that the opener cannot find, in the given
// order. The first lookup error aborts the check.
func CheckSources(ctx context.Context, opener source.Opener, names []string) ([]string, error) {
	missing := []string{}
	for _, name := range names {
		ok, err := opener.Exists(ctx, name)
		if err != nil {
			return nil, err
		}
		if !ok {
			missing = append(missing, name)
		}
	}
	return missing, nil
}
