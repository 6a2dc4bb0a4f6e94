package reconcile

import (
	"survey-integrity/core/dataset"
)

// GroupIndex maps each join key to the ordered positions of the item records
// carrying it. Keys are kept in first-seen order.
type GroupIndex struct {
	keys   []string
	groups map[string][]int
	size   int
}

// BuildIndex groups the rows of items by keyField in a single pass.
// Rows whose key is Missing are grouped under the empty key.
func BuildIndex(items *dataset.Dataset, keyField string) (*GroupIndex, error) {
	if _, err := items.Schema().Lookup(keyField); err != nil {
		return nil, err
	}

	idx := &GroupIndex{groups: make(map[string][]int)}
	for pos, rec := range items.All() {
		key := rec.Value(keyField).Key()
		list, seen := idx.groups[key]
		if !seen {
			idx.keys = append(idx.keys, key)
		}
		idx.groups[key] = append(list, pos)
	}
	idx.size = items.Len()

	return idx, nil
}

// Positions returns a copy of the positions grouped under key, in increasing
// order. It returns nil for an unknown key.
func (g *GroupIndex) Positions(key string) []int {
	list, ok := g.groups[key]
	if !ok {
		return nil
	}
	out := make([]int, len(list))
	copy(out, list)
	return out
}

// Count returns the number of item records grouped under key.
func (g *GroupIndex) Count(key string) int {
	return len(g.groups[key])
}

// Has reports whether any item record carries key.
func (g *GroupIndex) Has(key string) bool {
	_, ok := g.groups[key]
	return ok
}

// Keys returns the keys in first-seen order.
func (g *GroupIndex) Keys() []string {
	out := make([]string, len(g.keys))
	copy(out, g.keys)
	return out
}

// Len returns the number of distinct keys.
func (g *GroupIndex) Len() int {
	return len(g.keys)
}

// Size returns the total number of grouped positions, which always equals
// the length of the indexed dataset.
func (g *GroupIndex) Size() int {
	return g.size
}
