// Command btreeutil is the inspector/REPL surface SPEC_FULL.md §B
// grounds on other_examples/conure-db's CLI stack (chzyer/readline,
// fatih/color): open a tree file, insert/search/dump interactively.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/daicang/bplustore/internal/btree"
	"github.com/daicang/bplustore/internal/logging"
)

func main() {
	path := flag.String("path", "", "tree file path")
	order := flag.Uint64("order", 101, "order to use when creating a new tree")
	verbose := flag.Bool("v", false, "log lifecycle events to stderr")
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "btreeutil: -path is required")
		os.Exit(2)
	}

	logger := logging.Discard()
	if *verbose {
		logger = logging.New()
	}

	tr, err := btree.Open(btree.OpenFlag{
		Path:            *path,
		Order:           *order,
		CreateIfMissing: true,
		Logger:          logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "btreeutil: open %s: %v\n", *path, err)
		os.Exit(1)
	}
	defer tr.Close()

	if err := runREPL(tr); err != nil {
		fmt.Fprintf(os.Stderr, "btreeutil: %v\n", err)
		os.Exit(1)
	}
}
