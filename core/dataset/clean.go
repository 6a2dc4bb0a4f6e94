package dataset

import (
	"survey-integrity/core/record"
)

// CleanFunc turns a freshly decoded dataset into a normalized one. It must
// return a new dataset rather than modify its input.
type CleanFunc func(*Dataset) (*Dataset, error)

// Identity is the default cleaning step.
func Identity(d *Dataset) (*Dataset, error) {
	return d, nil
}

// Chain runs steps in order.
func Chain(steps ...CleanFunc) CleanFunc {
	return func(d *Dataset) (*Dataset, error) {
		var err error
		for _, step := range steps {
			if d, err = step(d); err != nil {
				return nil, err
			}
		}
		return d, nil
	}
}

// The steps below are no-ops when the schema does not declare the field, so
// one survey profile can clean full and trimmed extracts alike.

// Scale divides a numeric field by divisor, producing floats.
func Scale(field string, divisor float64) CleanFunc {
	return mapField(field, func(v record.Value) record.Value {
		f, ok := v.Float()
		if !ok {
			return v
		}
		return record.Float(f / divisor)
	})
}

// ReplaceWithMissing turns the given integer codes of field into Missing.
func ReplaceWithMissing(field string, codes ...int64) CleanFunc {
	set := make(map[int64]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return mapField(field, func(v record.Value) record.Value {
		i, ok := v.Int()
		if !ok {
			return v
		}
		if _, hit := set[i]; hit {
			return record.Missing()
		}
		return v
	})
}

// MissingAbove turns values of field greater than limit into Missing.
func MissingAbove(field string, limit float64) CleanFunc {
	return mapField(field, func(v record.Value) record.Value {
		f, ok := v.Float()
		if ok && f > limit {
			return record.Missing()
		}
		return v
	})
}

func mapField(field string, fn func(record.Value) record.Value) CleanFunc {
	return func(d *Dataset) (*Dataset, error) {
		if !d.Schema().Has(field) {
			return d, nil
		}
		return d.Map(func(r record.Record) record.Record {
			v, ok := r.Get(field)
			if !ok {
				return r
			}
			nv := fn(v)
			if nv == v {
				return r
			}
			return r.With(field, nv)
		}), nil
	}
}
