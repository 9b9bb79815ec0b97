package cache

import (
	"testing"

	"github.com/daicang/bplustore/internal/block"
	"github.com/daicang/bplustore/internal/logging"
)

const testOrder = 5

func testBlockSize() int {
	return block.NodeHeaderSize + (2*testOrder-1)*8
}

type fakeLoader struct {
	blocks map[uint64][]byte
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{blocks: map[uint64][]byte{}}
}

func (l *fakeLoader) Load(blockID uint64, dst []byte, size int) error {
	buf, ok := l.blocks[blockID]
	if !ok {
		buf = make([]byte, size)
	}
	copy(dst, buf)
	return nil
}

func TestInstallIsNew(t *testing.T) {
	c := New(newFakeLoader(), testOrder, testBlockSize(), 0, logging.Discard())
	n := block.NewNode(testBlockSize(), testOrder)
	c.Install(5, n)

	if c.StateOf(5) != New {
		t.Fatalf("StateOf(5) = %v, want New", c.StateOf(5))
	}
	newIDs, dirtyIDs := c.NewAndDirty()
	if len(newIDs) != 1 || newIDs[0] != 5 || len(dirtyIDs) != 0 {
		t.Fatalf("NewAndDirty() = %v, %v", newIDs, dirtyIDs)
	}
}

func TestGetLazyLoadsClean(t *testing.T) {
	loader := newFakeLoader()
	c := New(loader, testOrder, testBlockSize(), 0, logging.Discard())

	n, err := c.Get(2)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if n.BlkID != 2 {
		t.Fatalf("BlkID = %d, want 2", n.BlkID)
	}
	if c.StateOf(2) != Clean {
		t.Fatalf("StateOf(2) = %v, want Clean", c.StateOf(2))
	}
}

func TestMarkDirtyNeverDowngradesNew(t *testing.T) {
	c := New(newFakeLoader(), testOrder, testBlockSize(), 0, logging.Discard())
	c.Install(1, block.NewNode(testBlockSize(), testOrder))
	c.MarkDirty(1)

	if c.StateOf(1) != New {
		t.Fatalf("MarkDirty downgraded a New node to %v", c.StateOf(1))
	}
}

func TestMarkAllCleanReclassifies(t *testing.T) {
	c := New(newFakeLoader(), testOrder, testBlockSize(), 0, logging.Discard())
	c.Install(1, block.NewNode(testBlockSize(), testOrder))
	if _, err := c.Get(2); err != nil {
		t.Fatalf("Get: %v", err)
	}
	c.MarkDirty(2)

	c.MarkAllClean()

	if c.StateOf(1) != Clean || c.StateOf(2) != Clean {
		t.Fatalf("states after MarkAllClean: 1=%v 2=%v", c.StateOf(1), c.StateOf(2))
	}
	newIDs, dirtyIDs := c.NewAndDirty()
	if len(newIDs) != 0 || len(dirtyIDs) != 0 {
		t.Fatalf("NewAndDirty() non-empty after MarkAllClean: %v %v", newIDs, dirtyIDs)
	}
}

func TestBoundedEvictionOnlyTouchesCleanNodes(t *testing.T) {
	c := New(newFakeLoader(), testOrder, testBlockSize(), 1, logging.Discard())

	if _, err := c.Get(1); err != nil {
		t.Fatalf("Get(1): %v", err)
	}
	// Installing a New node must never be evicted by the capacity
	// bound, even though the LRU has room for only one entry.
	c.Install(2, block.NewNode(testBlockSize(), testOrder))

	if _, err := c.Get(3); err != nil {
		t.Fatalf("Get(3): %v", err)
	}

	if _, ok := c.Peek(2); !ok {
		t.Fatal("New node at 2 was evicted")
	}
}
