// Package testsupport centralizes the gofuzz-based random-data helpers
// the teacher duplicated across pkg/test_utils.go and
// pkg/testutil/testutil.go (one string-keyed, one byte-array, both
// unused by the other). This rendition keeps a single copy, fuzzing
// fixed-width uint64 keys and values directly instead of strings.
package testsupport

import (
	fuzz "github.com/google/gofuzz"
)

var f = fuzz.New().NilChance(0)

// RandomUint64 returns a pseudo-random uint64.
func RandomUint64() uint64 {
	var v uint64
	f.Fuzz(&v)
	return v
}

// RandomKeys returns count distinct uint64 keys in no particular
// order, for tests that build a tree from a known key set.
func RandomKeys(count int) []uint64 {
	seen := make(map[uint64]bool, count)
	keys := make([]uint64, 0, count)
	for len(keys) < count {
		k := RandomUint64()
		if seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	return keys
}

// RandomPairs returns count distinct-key (key, value) pairs.
func RandomPairs(count int) (keys, values []uint64) {
	keys = RandomKeys(count)
	values = make([]uint64, count)
	for i := range values {
		values[i] = RandomUint64()
	}
	return keys, values
}

// SequentialKeys returns [start, start+count) in increasing order, for
// scenarios exercising the monotonic-insert split pattern.
func SequentialKeys(start uint64, count int) []uint64 {
	keys := make([]uint64, count)
	for i := range keys {
		keys[i] = start + uint64(i)
	}
	return keys
}

// ReverseKeys returns [start, start+count) in decreasing order.
func ReverseKeys(start uint64, count int) []uint64 {
	keys := make([]uint64, count)
	for i := range keys {
		keys[i] = start + uint64(count-1-i)
	}
	return keys
}
