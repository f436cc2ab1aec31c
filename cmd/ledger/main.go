// Command ledger runs and administers the group expense ledger.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

var commands = []subcommands.Command{
	&serveCmd{},
	&migrateCmd{},
	&tokenCmd{},
}

func main() {
	// Settings in .env are optional; real environment variables win.
	_ = godotenv.Load()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	for _, c := range commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
