package survey

import (
	"survey-integrity/core/dataset"
)

// CleanFemResp normalizes the respondent file. The respondent columns used by
// the check need no recoding.
func CleanFemResp(d *dataset.Dataset) (*dataset.Dataset, error) {
	return dataset.Identity(d)
}

// CleanFemPreg recodes the pregnancy file: mother's age in centiyears
// becomes years and the "not ascertained", "refused" and "don't know" codes
// become Missing.
var CleanFemPreg = dataset.Chain(
	dataset.Scale("agepreg", 100),
	dataset.ReplaceWithMissing("birthwgt_lb", 51, 97, 98, 99),
	dataset.MissingAbove("birthwgt_lb", 20),
	dataset.ReplaceWithMissing("birthwgt_oz", 97, 98, 99),
	dataset.ReplaceWithMissing("hpagelb", 97, 98, 99),
	dataset.ReplaceWithMissing("babysex", 7, 9),
	dataset.ReplaceWithMissing("nbrnaliv", 9),
)
