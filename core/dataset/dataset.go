package dataset

import (
	"iter"
	"sort"

	"survey-integrity/core/record"
	"survey-integrity/core/schema"
)

// Role is the logical part a dataset plays in a check.
type Role string

const (
	// RoleRespondent rows carry a self-reported item count.
	RoleRespondent Role = "respondent"
	// RoleItem rows are individual items tagged with their owner's key.
	RoleItem Role = "item"
)

// Dataset is an ordered, read-only sequence of decoded records.
type Dataset struct {
	role    Role
	schema  *schema.Schema
	records []record.Record
}

// New creates a dataset. The dataset takes ownership of records.
func New(role Role, s *schema.Schema, records []record.Record) *Dataset {
	return &Dataset{role: role, schema: s, records: records}
}

// Role returns the dataset's role.
func (d *Dataset) Role() Role { return d.role }

// Schema returns the schema the records were decoded with.
func (d *Dataset) Schema() *schema.Schema { return d.schema }

// Len returns the row count.
func (d *Dataset) Len() int { return len(d.records) }

// Record returns the row at position i.
func (d *Dataset) Record(i int) record.Record { return d.records[i] }

// All iterates rows in order with their positions.
func (d *Dataset) All() iter.Seq2[int, record.Record] {
	return func(yield func(int, record.Record) bool) {
		for i, r := range d.records {
			if !yield(i, r) {
				return
			}
		}
	}
}

// Map returns a new dataset with fn applied to every row.
func (d *Dataset) Map(fn func(record.Record) record.Record) *Dataset {
	out := make([]record.Record, len(d.records))
	for i, r := range d.records {
		out[i] = fn(r)
	}
	return New(d.role, d.schema, out)
}

// Column returns the values of field in row order.
func (d *Dataset) Column(field string) ([]record.Value, error) {
	if _, err := d.schema.Lookup(field); err != nil {
		return nil, err
	}
	col := make([]record.Value, len(d.records))
	for i, r := range d.records {
		col[i] = r.Value(field)
	}
	return col, nil
}

// ValueCount is one distinct value of a column and how often it occurs.
type ValueCount struct {
	Value record.Value `json:"value"`
	Count int          `json:"count"`
}

// ValueCounts tallies the distinct values of field, most frequent first and
// ties broken by key. Missing values are counted under their own entry.
func (d *Dataset) ValueCounts(field string) ([]ValueCount, error) {
	col, err := d.Column(field)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]*ValueCount)
	var order []*ValueCount
	for _, v := range col {
		k := countKey(v)
		vc, ok := byKey[k]
		if !ok {
			vc = &ValueCount{Value: v}
			byKey[k] = vc
			order = append(order, vc)
		}
		vc.Count++
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].Count != order[j].Count {
			return order[i].Count > order[j].Count
		}
		return countKey(order[i].Value) < countKey(order[j].Value)
	})

	out := make([]ValueCount, len(order))
	for i, vc := range order {
		out[i] = *vc
	}
	return out, nil
}

// CountOf returns how many rows hold a value whose key equals key.
func (d *Dataset) CountOf(field, key string) (int, error) {
	if _, err := d.schema.Lookup(field); err != nil {
		return 0, err
	}
	n := 0
	for _, r := range d.records {
		v := r.Value(field)
		if !v.IsMissing() && v.Key() == key {
			n++
		}
	}
	return n, nil
}

// countKey separates Missing from an empty string.
func countKey(v record.Value) string {
	if v.IsMissing() {
		return "\x00missing"
	}
	return v.Key()
}
