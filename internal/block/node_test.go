package block

import "testing"

func newLeaf(order uint64) *Node {
	n := NewNode(NodeHeaderSize+(2*int(order)-1)*8, order)
	n.SetType(TypeLeaf)
	return n
}

func newInternal(order uint64) *Node {
	n := NewNode(NodeHeaderSize+(2*int(order)-1)*8, order)
	n.SetType(TypeInternal)
	return n
}

func TestLeafInsertSortedKeepsOrder(t *testing.T) {
	n := newLeaf(5)
	n.LeafInsertSorted(30, 300)
	n.LeafInsertSorted(10, 100)
	n.LeafInsertSorted(20, 200)

	if n.KeyCount() != 3 {
		t.Fatalf("KeyCount() = %d, want 3", n.KeyCount())
	}
	want := []uint64{10, 20, 30}
	for i, k := range want {
		if n.Key(i) != k {
			t.Errorf("Key(%d) = %d, want %d", i, n.Key(i), k)
		}
	}
	if n.Value(0) != 100 || n.Value(1) != 200 || n.Value(2) != 300 {
		t.Errorf("values out of order: %d %d %d", n.Value(0), n.Value(1), n.Value(2))
	}
}

func TestLeafInsertSortedAllowsDuplicateKeys(t *testing.T) {
	n := newLeaf(5)
	n.LeafInsertSorted(5, 1)
	n.LeafInsertSorted(5, 2)
	n.LeafInsertSorted(5, 3)

	if n.KeyCount() != 3 {
		t.Fatalf("KeyCount() = %d, want 3", n.KeyCount())
	}
	for i := 0; i < 3; i++ {
		if n.Key(i) != 5 {
			t.Errorf("Key(%d) = %d, want 5", i, n.Key(i))
		}
	}
	if n.Value(0) != 1 || n.Value(1) != 2 || n.Value(2) != 3 {
		t.Errorf("duplicate-key values not in insertion order: %d %d %d", n.Value(0), n.Value(1), n.Value(2))
	}
}

func TestSearchLeastGE(t *testing.T) {
	n := newLeaf(7)
	for _, k := range []uint64{10, 20, 30, 40} {
		n.LeafInsertSorted(k, k*10)
	}

	cases := []struct {
		key  uint64
		want int
	}{
		{5, 0},
		{10, 0},
		{15, 1},
		{40, 3},
		{41, 4},
	}
	for _, c := range cases {
		if got := n.SearchLeastGE(c.key); got != c.want {
			t.Errorf("SearchLeastGE(%d) = %d, want %d", c.key, got, c.want)
		}
	}
}

func TestShiftSlotsRightOpensGap(t *testing.T) {
	n := newInternal(5)
	n.SetKeyCount(2)
	n.SetChild(0, 100)
	n.SetKey(0, 10)
	n.SetChild(1, 101)
	n.SetKey(1, 20)
	n.SetChild(2, 102)

	n.ShiftSlotsRight(1)
	n.SetKeyCount(3)
	n.SetKey(1, 15)
	n.SetChild(1, 999)

	if n.Child(0) != 100 || n.Key(0) != 10 {
		t.Errorf("slot 0 disturbed: child=%d key=%d", n.Child(0), n.Key(0))
	}
	if n.Child(1) != 999 || n.Key(1) != 15 {
		t.Errorf("inserted slot wrong: child=%d key=%d", n.Child(1), n.Key(1))
	}
	if n.Key(2) != 20 || n.Child(2) != 101 || n.Child(3) != 102 {
		t.Errorf("tail not shifted correctly: key2=%d child2=%d child3=%d", n.Key(2), n.Child(2), n.Child(3))
	}
}

func TestCopyTailHalfLeaf(t *testing.T) {
	src := newLeaf(7)
	for _, k := range []uint64{1, 2, 3, 4, 5} {
		src.LeafInsertSorted(k, k*100)
	}
	dst := newLeaf(7)

	CopyTailHalf(dst, src, 3, 2)
	dst.SetKeyCount(2)

	if dst.Key(0) != 4 || dst.Key(1) != 5 {
		t.Fatalf("dst keys = [%d,%d], want [4,5]", dst.Key(0), dst.Key(1))
	}
	if dst.Value(0) != 400 || dst.Value(1) != 500 {
		t.Fatalf("dst values = [%d,%d], want [400,500]", dst.Value(0), dst.Value(1))
	}
}

func TestValueAndChildPanicOnWrongRole(t *testing.T) {
	leaf := newLeaf(5)
	leaf.SetKeyCount(1)
	func() {
		defer func() {
			if recover() == nil {
				t.Error("Child on a leaf did not panic")
			}
		}()
		leaf.Child(0)
	}()

	internal := newInternal(5)
	internal.SetKeyCount(1)
	func() {
		defer func() {
			if recover() == nil {
				t.Error("Value on an internal node did not panic")
			}
		}()
		internal.Value(0)
	}()
}

func TestNodeHeaderRoundTrip(t *testing.T) {
	n := newLeaf(5)
	n.SetParent(7)
	n.SetLeftSibling(3)
	n.SetRightSibling(9)
	n.SetKeyCount(2)

	raw := n.Raw()
	wrapped := WrapNode(raw[:NodeHeaderSize+(2*5-1)*8], 5)

	if wrapped.ParentID() != 7 || wrapped.LeftSibling() != 3 || wrapped.RightSibling() != 9 {
		t.Errorf("header did not round-trip through WrapNode")
	}
	if !wrapped.IsLeaf() {
		t.Errorf("wrapped node lost its leaf type bit")
	}
}
