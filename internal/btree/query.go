package btree

// Values is the ordered, caller-owned snapshot of 64-bit values
// returned by a query (§4.5). It is not tied to tree state: mutations
// after the query do not affect a returned container.
type Values struct {
	vals []uint64
}

// Count returns the number of values held.
func (v *Values) Count() int { return len(v.vals) }

// Get returns the value at position i.
func (v *Values) Get(i int) uint64 { return v.vals[i] }

// Release lets go of the underlying storage; the caller must call it
// when done with the container.
func (v *Values) Release() { v.vals = nil }

// PointSearch locates the leaf that would contain key and emits
// values while key(i) == key and fewer than limit have been emitted,
// continuing onto the right-sibling chain if the current leaf is
// exhausted first. limit == 0 returns immediately without touching
// any leaf beyond the root descent.
func (t *Tree) PointSearch(limit uint64, key uint64) (*Values, error) {
	vals := &Values{}
	if limit == 0 {
		return vals, nil
	}

	leaf, err := t.descendToLeaf(key)
	if err != nil {
		return nil, err
	}

	i := leaf.SearchLeastGE(key)
	for {
		kc := int(leaf.KeyCount())
		for i < kc {
			if leaf.Key(i) != key {
				return vals, nil
			}
			vals.vals = append(vals.vals, leaf.Value(i))
			if uint64(len(vals.vals)) >= limit {
				return vals, nil
			}
			i++
		}

		rightID := leaf.RightSibling()
		if rightID == 0 {
			return vals, nil
		}
		leaf, err = t.cache.Get(rightID)
		if err != nil {
			return nil, err
		}
		i = 0
	}
}

// RangeSearch emits values whose key lies in the closed interval
// [kLo, kHi] in ascending leaf order, advancing along the
// right-sibling chain until limit is met, a key > kHi is seen, or the
// chain ends. An empty range (kLo > kHi) returns zero values.
func (t *Tree) RangeSearch(limit uint64, kLo, kHi uint64) (*Values, error) {
	vals := &Values{}
	if limit == 0 || kLo > kHi {
		return vals, nil
	}

	leaf, err := t.descendToLeaf(kLo)
	if err != nil {
		return nil, err
	}

	i := leaf.SearchLeastGE(kLo)
	for {
		kc := int(leaf.KeyCount())
		for i < kc {
			k := leaf.Key(i)
			if k > kHi {
				return vals, nil
			}
			vals.vals = append(vals.vals, leaf.Value(i))
			if uint64(len(vals.vals)) >= limit {
				return vals, nil
			}
			i++
		}

		rightID := leaf.RightSibling()
		if rightID == 0 {
			return vals, nil
		}
		leaf, err = t.cache.Get(rightID)
		if err != nil {
			return nil, err
		}
		i = 0
	}
}
