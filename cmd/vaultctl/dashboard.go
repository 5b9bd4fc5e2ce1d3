package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"coinvault/internal/models"
	"coinvault/internal/present"
)

type dashboardCmd struct{}

func (*dashboardCmd) Name() string     { return "dashboard" }
func (*dashboardCmd) Synopsis() string { return "display balances, total value and recent transactions" }
func (*dashboardCmd) Usage() string {
	return `dashboard

  Values every holding at current prices and lists the latest transactions.
`
}

func (*dashboardCmd) SetFlags(*flag.FlagSet) {}

func (*dashboardCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	_ = a.prices.Refresh(ctx)
	dash, status, _ := a.server.BuildDashboard(ctx)
	if status != models.StatusReady {
		fmt.Fprintln(os.Stderr, "Failed to load prices")
		return subcommands.ExitFailure
	}

	if err := printMarkdown(present.DashboardMarkdown(dash)); err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
