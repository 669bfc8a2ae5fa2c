package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"vqlite/btree"
	"vqlite/pager"
)

// Run drives the REPL loop: print prompt, read a line, dispatch it as a
// meta-command or statement, repeat. It returns only on read error (e.g.
// EOF on stdin); `.exit` terminates the process directly from
// doMetaCommand.
func Run(in io.Reader, out io.Writer, tree *btree.Tree, pgr *pager.Pager) error {
	reader := bufio.NewReader(in)
	for {
		printPrompt(out)
		line, err := readInput(reader)
		if err != nil {
			return err
		}
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if res := doMetaCommand(line, tree, pgr, out); res == MetaCommandUnrecognizedCommand {
				fmt.Fprintf(out, "Unrecognized command '%s'.\n", line)
			}
			continue
		}

		stmt, err := prepareStatement(line)
		if err != nil {
			fmt.Fprintln(out, err.Error())
			continue
		}
		executeStatement(stmt, tree, out)
	}
}

func executeStatement(stmt *Statement, tree *btree.Tree, out io.Writer) {
	switch stmt.Type {
	case StatementInsert:
		executeInsert(stmt, tree, out)
	case StatementSelect:
		executeSelect(tree, out)
	}
}

func executeInsert(stmt *Statement, tree *btree.Tree, out io.Writer) {
	r := stmt.RowToInsert
	err := tree.Insert(r.ID, r)
	if err == nil {
		fmt.Fprintln(out, "Executed.")
		return
	}
	var dupErr *btree.DuplicateKeyError
	if errors.As(err, &dupErr) {
		fmt.Fprintf(out, "Key (%d) already exists in table\n", dupErr.Key)
		fmt.Fprintln(out, "Failed to insert, key already exists.")
		return
	}
	fatal(err)
}

func executeSelect(tree *btree.Tree, out io.Writer) {
	c, err := tree.Start()
	if err != nil {
		fatal(err)
	}
	for !c.EndOfTable {
		r, err := c.Row()
		if err != nil {
			fatal(err)
		}
		fmt.Fprintln(out, r.Format())
		if err := c.Advance(); err != nil {
			fatal(err)
		}
	}
	fmt.Fprintln(out, "Executed.")
}
