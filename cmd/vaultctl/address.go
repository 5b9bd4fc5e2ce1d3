package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
)

type addressCmd struct {
	symbol string
}

func (*addressCmd) Name() string     { return "address" }
func (*addressCmd) Synopsis() string { return "print the receive address of an asset" }
func (*addressCmd) Usage() string {
	return `address -s <symbol>

  Prints the receive address only, so it can be piped to a clipboard tool.
`
}

func (c *addressCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "asset symbol, e.g. BTC")
}

func (c *addressCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" {
		fmt.Fprintln(os.Stderr, "-s is required")
		return subcommands.ExitUsageError
	}
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure
	}
	asset, ok := cfg.Assets.Lookup(strings.ToUpper(c.symbol))
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown asset %q\n", c.symbol)
		return subcommands.ExitFailure
	}
	fmt.Println(asset.Address)
	return subcommands.ExitSuccess
}
