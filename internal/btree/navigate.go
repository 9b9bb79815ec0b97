package btree

import "github.com/daicang/bplustore/internal/block"

// descendToLeaf walks from the current root (re-read from meta at the
// start of every descent, so a post-split navigation always starts
// from the live root — see spec.md §9 "Root-replacement") down to the
// leaf that would contain key.
func (t *Tree) descendToLeaf(key uint64) (*block.Node, error) {
	n, err := t.cache.Get(t.meta.Header().RootBlkID)
	if err != nil {
		return nil, err
	}
	for !n.IsLeaf() {
		i := n.SearchLeastGE(key)
		childID := n.Child(i)
		n, err = t.cache.Get(childID)
		if err != nil {
			return nil, err
		}
	}
	return n, nil
}

// childIndexOf returns i such that parent.Child(i) == blkid. A split
// always promotes into the parent recorded on the node being split,
// so this always succeeds for a well-formed tree (I5/I6).
func childIndexOf(parent *block.Node, blkid uint64) int {
	kc := int(parent.KeyCount())
	for i := 0; i <= kc; i++ {
		if parent.Child(i) == blkid {
			return i
		}
	}
	panic("btree: child not found in parent")
}
