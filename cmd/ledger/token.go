package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/mmynk/groupledger/internal/auth"
	"github.com/mmynk/groupledger/internal/config"
)

type tokenCmd struct {
	user string
}

func (*tokenCmd) Name() string     { return "token" }
func (*tokenCmd) Synopsis() string { return "mint a bearer token for a user" }
func (*tokenCmd) Usage() string {
	return `ledger token -user <id>

  Prints a signed token for the given user ID, valid for LEDGER_JWT_TTL.
  Intended for development and scripting against a local server.
`
}

func (c *tokenCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.user, "user", "", "User ID to put in the token.")
}

func (c *tokenCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.user == "" {
		fmt.Fprintln(os.Stderr, "-user is required")
		return subcommands.ExitUsageError
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	token, err := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TTL).Generate(c.user)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Println(token)
	return subcommands.ExitSuccess
}
