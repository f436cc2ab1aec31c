package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/mmynk/groupledger/internal/config"
	"github.com/mmynk/groupledger/internal/storage/sqlite"
)

type migrateCmd struct {
	dbPath string
}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "apply database migrations and print the schema version" }
func (*migrateCmd) Usage() string {
	return `ledger migrate [-db <path>]

  Creates the database if needed and applies every pending migration.
`
}

func (c *migrateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dbPath, "db", "", "Database path. Defaults to LEDGER_DB_PATH.")
}

func (c *migrateCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	path := c.dbPath
	if path == "" {
		path = os.Getenv(config.EnvDBPath)
	}
	if path == "" {
		fmt.Fprintf(os.Stderr, "no database path: pass -db or set %s\n", config.EnvDBPath)
		return subcommands.ExitUsageError
	}

	store, err := sqlite.New(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	fmt.Printf("%s: schema version %d\n", path, store.SchemaVersion())
	return subcommands.ExitSuccess
}
