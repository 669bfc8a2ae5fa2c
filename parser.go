package main

import (
	"fmt"
	"strconv"
	"strings"

	"vqlite/row"
)

// ParseError covers every input the tokenizer rejects before it reaches the
// tree: syntax errors, unrecognized keywords, and over-long fields. It is
// printed to the user and never logged; the REPL simply continues.
type ParseError struct {
	msg string
}

func (e *ParseError) Error() string { return e.msg }

func syntaxError(input string) *ParseError {
	return &ParseError{msg: fmt.Sprintf("Syntax error in statement '%s'.", input)}
}

func unrecognizedKeyword(input string) *ParseError {
	return &ParseError{msg: fmt.Sprintf("Unrecognized keyword at start of '%s'.", input)}
}

// prepareStatement tokenizes one input line into a Statement. The first
// whitespace-delimited word selects the statement kind; everything beyond
// that is specific to INSERT.
func prepareStatement(input string) (*Statement, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return nil, unrecognizedKeyword(input)
	}

	switch strings.ToLower(fields[0]) {
	case "insert":
		return prepareInsert(input, fields)
	case "select":
		if len(fields) != 1 {
			return nil, syntaxError(input)
		}
		return &Statement{Type: StatementSelect}, nil
	default:
		return nil, unrecognizedKeyword(input)
	}
}

// prepareInsert parses "insert <id> <username> <email>". A missing field, a
// malformed or negative id, or an id overflowing uint32 are all reported as
// the same generic syntax error, matching the source grammar's single
// failure mode for a malformed INSERT.
func prepareInsert(input string, fields []string) (*Statement, error) {
	if len(fields) != 4 {
		return nil, syntaxError(input)
	}
	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || id < 0 || id > int64(^uint32(0)) {
		return nil, syntaxError(input)
	}

	username, email := fields[2], fields[3]
	if len(username) > row.MaxUsernameLength {
		return nil, &ParseError{msg: "username too long"}
	}
	if len(email) > row.MaxEmailLength {
		return nil, &ParseError{msg: "email too long"}
	}

	return &Statement{
		Type: StatementInsert,
		RowToInsert: row.Row{
			ID:       uint32(id),
			Username: username,
			Email:    email,
		},
	}, nil
}
