package main

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/daicang/bplustore/internal/btree"
)

var (
	colorNew   = color.New(color.FgGreen)
	colorDirty = color.New(color.FgYellow)
	colorClean = color.New(color.FgWhite)
)

// dump prints the meta record and every allocated block, colorizing
// each node by its new/dirty/clean classification (green/yellow/
// white) so a reader can see at a glance what a Flush would write.
func dump(tr *btree.Tree) error {
	fmt.Printf("order=%d minKeys=%d maxKeys=%d blockSize=%d rootBlkID=%d maxBlkID=%d\n",
		tr.Order(), tr.MinKeys(), tr.MaxKeys(), tr.BlockSize(), tr.RootBlkID(), tr.MaxBlkID())

	for id := uint64(1); id <= tr.MaxBlkID(); id++ {
		n, err := tr.Node(id)
		if err != nil {
			return err
		}

		kind := "internal"
		if n.IsLeaf() {
			kind = "leaf"
		}
		if n.IsRoot() {
			kind = "root+" + kind
		}

		line := fmt.Sprintf("block %d [%s] keys=%d parent=%d left=%d right=%d",
			id, kind, n.KeyCount(), n.ParentID(), n.LeftSibling(), n.RightSibling())

		switch tr.NodeState(id).String() {
		case "new":
			colorNew.Println(line)
		case "dirty":
			colorDirty.Println(line)
		default:
			colorClean.Println(line)
		}

		kc := int(n.KeyCount())
		fmt.Print("  keys:")
		for i := 0; i < kc; i++ {
			fmt.Printf(" %d", n.Key(i))
		}
		fmt.Println()

		if n.IsLeaf() {
			fmt.Print("  vals:")
			for i := 0; i < kc; i++ {
				fmt.Printf(" %d", n.Value(i))
			}
			fmt.Println()
		} else {
			fmt.Print("  children:")
			for i := 0; i <= kc; i++ {
				fmt.Printf(" %d", n.Child(i))
			}
			fmt.Println()
		}
	}

	return nil
}
