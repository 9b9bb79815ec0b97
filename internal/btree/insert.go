package btree

import "github.com/daicang/bplustore/internal/block"

// Insert descends to the target leaf, inserts (key, value) in sorted
// position, and splits upward while the node touched is overfull
// (§4.4). Duplicate keys are permitted; a leaf may hold any number of
// equal keys in insertion order.
func (t *Tree) Insert(key, value uint64) error {
	leaf, err := t.descendToLeaf(key)
	if err != nil {
		return err
	}

	leaf.LeafInsertSorted(key, value)
	t.cache.MarkDirty(leaf.BlkID)

	if leaf.KeyCount() == t.maxKeys+1 {
		if err := t.split(leaf); err != nil {
			return err
		}
	}

	t.logger.V(1).Info("inserted", "key", key)

	return nil
}

// split implements the "Split (common shape)" algorithm of §4.4 as an
// iterative walk up the tree via each node's own parent block-id,
// rather than recursion, per the design notes' "favor an iterative
// descent ... friendlier to non-stack-based allocators" (the same
// argument applies to the ascent a cascading split performs).
func (t *Tree) split(n *block.Node) error {
	for {
		wasRoot := n.IsRoot()

		sibling, err := t.allocateNode(n.IsLeaf())
		if err != nil {
			return err
		}

		s := int(t.minKeys)
		splitKey := n.Key(s)

		// Splice sibling between n and n's current right sibling.
		rightID := n.RightSibling()
		n.SetRightSibling(sibling.BlkID)
		sibling.SetLeftSibling(n.BlkID)
		sibling.SetRightSibling(rightID)
		if rightID != 0 {
			rn, err := t.cache.Get(rightID)
			if err != nil {
				return err
			}
			rn.SetLeftSibling(sibling.BlkID)
			t.cache.MarkDirty(rightID)
		}

		// Move the tail half of n into sibling.
		block.CopyTailHalf(sibling, n, s+1, int(t.minKeys))
		sibling.SetKeyCount(t.minKeys)

		if n.IsLeaf() {
			// n keeps [0..s]: min_keys+1 entries. split_key is
			// duplicated as the last key of n and promoted.
			n.SetKeyCount(uint64(s + 1))
		} else {
			// n keeps the first s keys and s+1 children. split_key
			// is removed from the node set (only promoted).
			n.SetKeyCount(uint64(s))
			for i := 0; i <= int(t.minKeys); i++ {
				childID := sibling.Child(i)
				ch, err := t.cache.Get(childID)
				if err != nil {
					return err
				}
				ch.SetParent(sibling.BlkID)
				t.cache.MarkDirty(childID)
			}
		}

		n.ClearRoot()
		t.cache.MarkDirty(n.BlkID)
		t.cache.MarkDirty(sibling.BlkID)

		if wasRoot {
			newRoot, err := t.allocateNode(false)
			if err != nil {
				return err
			}
			newRoot.SetType(block.TypeRoot | block.TypeInternal)
			newRoot.SetKeyCount(1)
			newRoot.SetKey(0, splitKey)
			newRoot.SetChild(0, n.BlkID)
			newRoot.SetChild(1, sibling.BlkID)
			n.SetParent(newRoot.BlkID)
			sibling.SetParent(newRoot.BlkID)

			t.meta.Header().RootBlkID = newRoot.BlkID
			t.meta.SetDirty(true)

			t.logger.V(0).Info("promoted new root", "blkid", newRoot.BlkID)

			return nil
		}

		parent, err := t.cache.Get(n.ParentID())
		if err != nil {
			return err
		}

		idx := childIndexOf(parent, n.BlkID)
		parent.ShiftSlotsRight(idx)
		parent.SetKeyCount(parent.KeyCount() + 1)
		parent.SetKey(idx, splitKey)
		parent.SetChild(idx, n.BlkID)
		parent.SetChild(idx+1, sibling.BlkID)
		sibling.SetParent(parent.BlkID)
		t.cache.MarkDirty(parent.BlkID)

		t.logger.V(0).Info("split node", "left", n.BlkID, "right", sibling.BlkID, "parent", parent.BlkID)

		if parent.KeyCount() != t.maxKeys+1 {
			return nil
		}

		n = parent
	}
}
