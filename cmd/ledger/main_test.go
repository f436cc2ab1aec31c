package main

import (
	"context"
	"flag"
	"path/filepath"
	"testing"

	"github.com/google/subcommands"

	"github.com/mmynk/groupledger/internal/config"
)

func TestCommandNamesUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range commands {
		if seen[c.Name()] {
			t.Errorf("duplicate command %q", c.Name())
		}
		seen[c.Name()] = true
		if c.Synopsis() == "" || c.Usage() == "" {
			t.Errorf("command %q is missing help text", c.Name())
		}
	}
}

func run(t *testing.T, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parsing flags: %v", err)
	}
	return c.Execute(context.Background(), fs)
}

func TestTokenCmd(t *testing.T) {
	t.Setenv(config.EnvJWTSecret, "0123456789abcdef0123456789abcdef")

	if got := run(t, &tokenCmd{}); got != subcommands.ExitUsageError {
		t.Errorf("token without -user = %v, want usage error", got)
	}
	if got := run(t, &tokenCmd{}, "-user", "alice"); got != subcommands.ExitSuccess {
		t.Errorf("token -user alice = %v, want success", got)
	}
}

func TestMigrateCmd(t *testing.T) {
	t.Setenv(config.EnvDBPath, "")
	if got := run(t, &migrateCmd{}); got != subcommands.ExitUsageError {
		t.Errorf("migrate without a path = %v, want usage error", got)
	}

	dbPath := filepath.Join(t.TempDir(), "nested", "ledger.db")
	if got := run(t, &migrateCmd{}, "-db", dbPath); got != subcommands.ExitSuccess {
		t.Errorf("migrate -db %s = %v, want success", dbPath, got)
	}
}
