package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"coinvault/internal/market"
	"coinvault/internal/present"
)

type pricesCmd struct{}

func (*pricesCmd) Name() string     { return "prices" }
func (*pricesCmd) Synopsis() string { return "fetch current prices for the asset catalog" }
func (*pricesCmd) Usage() string {
	return `prices

  Fetches USD price and 24h change for every catalog asset.
`
}

func (*pricesCmd) SetFlags(*flag.FlagSet) {}

func (*pricesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure
	}

	client := market.NewCoinGecko(market.WithBaseURL(cfg.Market.CoinGeckoURL), market.WithTimeout(cfg.Market.Timeout))
	snap, err := client.Fetch(ctx, cfg.Assets.FeedIDs())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load prices: %v\n", err)
		return subcommands.ExitFailure
	}

	var b strings.Builder
	b.WriteString("# Prices\n\n| Asset | Price | 24h |\n|---|---:|---:|\n")
	for _, a := range cfg.Assets {
		q := snap.Quote(a.FeedID)
		fmt.Fprintf(&b, "| %s (%s) | %s | %s |\n", a.Name, a.Symbol, present.USD(q.PriceUSD), present.Change(q.Change24h))
	}
	if err := printMarkdown(b.String()); err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
