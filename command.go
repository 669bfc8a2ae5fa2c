package main

import (
	"fmt"
	"io"
	"os"

	"vqlite/btree"
	"vqlite/pager"
)

type MetaCommandResult int

const (
	MetaCommandSuccess MetaCommandResult = iota
	MetaCommandUnrecognizedCommand
)

// doMetaCommand dispatches a leading-dot command. `.exit` flushes the pager
// and terminates the process with status 0; it never returns. `.btree` and
// `.constants` print to out and return MetaCommandSuccess.
func doMetaCommand(input string, tree *btree.Tree, pgr *pager.Pager, out io.Writer) MetaCommandResult {
	switch input {
	case ".exit":
		pgr.Close()
		os.Exit(0)
		return MetaCommandSuccess // unreachable
	case ".btree":
		text, err := tree.Print()
		if err != nil {
			fmt.Fprintf(out, "error printing tree: %v\n", err)
			return MetaCommandSuccess
		}
		fmt.Fprint(out, text)
		return MetaCommandSuccess
	case ".constants":
		fmt.Fprintln(out, btree.Constants())
		return MetaCommandSuccess
	default:
		return MetaCommandUnrecognizedCommand
	}
}
