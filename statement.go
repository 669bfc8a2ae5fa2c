package main

import "vqlite/row"

// StatementType distinguishes the two SQL-like statements the parser
// recognizes.
type StatementType int

const (
	StatementInsert StatementType = iota
	StatementSelect
)

// Statement is the parsed form of one input line, ready for execution
// against the tree.
type Statement struct {
	Type        StatementType
	RowToInsert row.Row
}
