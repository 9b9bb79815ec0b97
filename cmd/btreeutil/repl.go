package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/daicang/bplustore/internal/btree"
)

const usage = `commands:
  insert <key> <value>        insert one (key, value) pair
  get <key> [limit]           point search, default limit 10
  range <lo> <hi> [limit]     closed-interval range search, default limit 10
  dump                        dump meta and every node block
  flush                       persist pending new/dirty blocks
  help                        show this message
  quit                        flush and exit
`

func runREPL(tr *btree.Tree) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "btreeutil> ",
		HistoryFile:     "",
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Print(usage)

	for {
		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			return tr.Flush()
		}
		if err != nil {
			return err
		}

		if err := dispatch(tr, strings.Fields(line)); err != nil {
			if err == errQuit {
				return nil
			}
			fmt.Println("error:", err)
		}
	}
}

var errQuit = fmt.Errorf("quit")

func dispatch(tr *btree.Tree, fields []string) error {
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "help":
		fmt.Print(usage)
	case "quit", "exit":
		if err := tr.Flush(); err != nil {
			return err
		}
		return errQuit
	case "flush":
		return tr.Flush()
	case "insert":
		return cmdInsert(tr, fields[1:])
	case "get":
		return cmdGet(tr, fields[1:])
	case "range":
		return cmdRange(tr, fields[1:])
	case "dump":
		return dump(tr)
	default:
		fmt.Printf("unknown command %q, try help\n", fields[0])
	}

	return nil
}

func parseUint(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}

func cmdInsert(tr *btree.Tree, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: insert <key> <value>")
	}
	k, err := parseUint(args[0])
	if err != nil {
		return err
	}
	v, err := parseUint(args[1])
	if err != nil {
		return err
	}
	return tr.Insert(k, v)
}

func cmdGet(tr *btree.Tree, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: get <key> [limit]")
	}
	k, err := parseUint(args[0])
	if err != nil {
		return err
	}
	limit := uint64(10)
	if len(args) > 1 {
		limit, err = parseUint(args[1])
		if err != nil {
			return err
		}
	}
	vals, err := tr.PointSearch(limit, k)
	if err != nil {
		return err
	}
	defer vals.Release()
	for i := 0; i < vals.Count(); i++ {
		fmt.Println(vals.Get(i))
	}
	return nil
}

func cmdRange(tr *btree.Tree, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: range <lo> <hi> [limit]")
	}
	lo, err := parseUint(args[0])
	if err != nil {
		return err
	}
	hi, err := parseUint(args[1])
	if err != nil {
		return err
	}
	limit := uint64(10)
	if len(args) > 2 {
		limit, err = parseUint(args[2])
		if err != nil {
			return err
		}
	}
	vals, err := tr.RangeSearch(limit, lo, hi)
	if err != nil {
		return err
	}
	defer vals.Release()
	for i := 0; i < vals.Count(); i++ {
		fmt.Println(vals.Get(i))
	}
	return nil
}
