package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"vqlite/btree"
	"vqlite/pager"
)

// cli is the kong argument model: a single positional database file. Kong
// generates --help for free and fails with its own usage error when the
// argument is missing.
var cli struct {
	DBFile string `arg:"" name:"db-file" help:"Path to the database file." type:"path"`
}

// logger is set up once in main and used by fatal for every Fatal-class
// error raised while the REPL is running.
var logger *zap.Logger

// fatal logs err with full context and terminates the process with status
// 1. Unlike `.exit` and end of input, it does not close the pager, so
// resident pages are not flushed.
func fatal(err error) {
	if logger != nil {
		logger.Error("fatal error", zap.Error(err))
	}
	os.Exit(1)
}

func main() {
	kong.Parse(&cli, kong.Description("vqlite is a line-oriented REPL over a disk-backed B+-tree table."))

	sessionID := uuid.New()
	l, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	logger = l.With(zap.String("session_id", sessionID.String()), zap.String("db_file", cli.DBFile))
	defer logger.Sync()

	pgr, err := pager.Open(afero.NewOsFs(), cli.DBFile, logger)
	if err != nil {
		logger.Error("failed to open database file", zap.Error(err))
		os.Exit(1)
	}

	tree, err := btree.New(pgr)
	if err != nil {
		logger.Error("failed to initialize tree", zap.Error(err))
		os.Exit(1)
	}

	if err := Run(os.Stdin, os.Stdout, tree, pgr); err != nil {
		pgr.Close()
		os.Exit(0)
	}
}
