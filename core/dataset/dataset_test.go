package dataset

import (
	"testing"

	"survey-integrity/core/record"
	"survey-integrity/core/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pregDataset(t *testing.T) *Dataset {
	s, err := schema.New([]schema.FieldSpec{
		{Name: "caseid", Start: 0, Length: 4},
		{Name: "birthwgt_lb", Start: 4, Length: 2, Type: schema.TypeInteger},
		{Name: "agepreg", Start: 6, Length: 4, Type: schema.TypeInteger},
	})
	require.NoError(t, err)

	rows := []record.Record{
		record.New(map[string]record.Value{"caseid": record.Text("1"), "birthwgt_lb": record.Int(7), "agepreg": record.Int(2275)}),
		record.New(map[string]record.Value{"caseid": record.Text("1"), "birthwgt_lb": record.Int(99), "agepreg": record.Int(2575)}),
		record.New(map[string]record.Value{"caseid": record.Text("2"), "birthwgt_lb": record.Int(7), "agepreg": record.Missing()}),
		record.New(map[string]record.Value{"caseid": record.Text("6"), "birthwgt_lb": record.Int(51), "agepreg": record.Int(1900)}),
	}
	return New(RoleItem, s, rows)
}

func TestDataset_ValueCounts(t *testing.T) {
	d := pregDataset(t)

	counts, err := d.ValueCounts("birthwgt_lb")
	require.NoError(t, err)
	assert.Equal(t, []ValueCount{
		{Value: record.Int(7), Count: 2},
		{Value: record.Int(51), Count: 1},
		{Value: record.Int(99), Count: 1},
	}, counts)

	n, err := d.CountOf("birthwgt_lb", "7")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = d.ValueCounts("nope")
	var mfe *schema.MissingFieldError
	assert.ErrorAs(t, err, &mfe)
}

func TestDataset_ValueCountsSeparatesMissing(t *testing.T) {
	counts, err := pregDataset(t).ValueCounts("agepreg")
	require.NoError(t, err)
	require.Len(t, counts, 4)

	var missing int
	for _, c := range counts {
		if c.Value.IsMissing() {
			missing += c.Count
		}
	}
	assert.Equal(t, 1, missing)
}

func TestDataset_All(t *testing.T) {
	d := pregDataset(t)
	var positions []int
	for i := range d.All() {
		positions = append(positions, i)
		if i == 1 {
			break
		}
	}
	assert.Equal(t, []int{0, 1}, positions)
}

func TestCleanSteps(t *testing.T) {
	d := pregDataset(t)

	cleaned, err := Chain(
		Scale("agepreg", 100),
		ReplaceWithMissing("birthwgt_lb", 97, 98, 99),
		MissingAbove("birthwgt_lb", 20),
		Scale("not_in_schema", 10),
	)(d)
	require.NoError(t, err)

	assert.Equal(t, record.Float(22.75), cleaned.Record(0).Value("agepreg"))
	assert.True(t, cleaned.Record(1).Value("birthwgt_lb").IsMissing())
	assert.True(t, cleaned.Record(2).Value("agepreg").IsMissing(), "missing stays missing")
	assert.True(t, cleaned.Record(3).Value("birthwgt_lb").IsMissing())
	assert.Equal(t, record.Int(7), cleaned.Record(0).Value("birthwgt_lb"))

	assert.Equal(t, record.Int(2275), d.Record(0).Value("agepreg"), "source dataset is unchanged")
}
