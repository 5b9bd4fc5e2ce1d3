package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"coinvault/internal/present"
)

type historyCmd struct {
	limit int
	reset bool
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the transaction history" }
func (*historyCmd) Usage() string {
	return `history [-n <count>] [-reset]

  Lists the stored transaction history, newest first, valued at the current
  price. -reset discards the stored history so a new one is generated.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 0, "show at most n transactions (0 for all)")
	f.BoolVar(&c.reset, "reset", false, "regenerate the stored history")
}

func (c *historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.limit < 0 {
		fmt.Fprintln(os.Stderr, "-n must not be negative")
		return subcommands.ExitUsageError
	}

	a, err := newApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	if c.reset {
		if err := a.repo.Reset(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error resetting history: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	// The history view degrades to "~" without a price.
	_ = a.btc.Refresh(ctx)
	views, _, err := a.server.BuildHistory(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading history: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.limit > 0 && c.limit < len(views) {
		views = views[:c.limit]
	}

	title := fmt.Sprintf("%s Transaction History", a.server.LedgerSymbol())
	if err := printMarkdown(present.HistoryMarkdown(title, views)); err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
