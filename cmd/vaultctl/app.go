package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"coinvault/internal/accrual"
	"coinvault/internal/api"
	"coinvault/internal/config"
	"coinvault/internal/ledger"
	"coinvault/internal/market"
	"coinvault/internal/present"
	"coinvault/internal/realtime"
	"coinvault/internal/store"
)

// app is the wiring shared by the subcommands. close must be called.
type app struct {
	cfg    *config.Config
	repo   *ledger.Repository
	prices *market.Feed
	btc    *market.Feed
	server *api.Server
	close  func()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}
	cfg.Log.Level = "error"
	if err := config.SetupLogging(cfg.Log); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	kv, closeStore, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	codec, err := ledger.CodecByName(cfg.Ledger.Codec)
	if err != nil {
		closeStore()
		return nil, err
	}
	seed := cfg.Ledger.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	a := &app{
		cfg:  cfg,
		repo: ledger.NewRepository(kv, codec, cfg.Ledger.Key, ledger.NewGenerator(cfg.Ledger.Start, seed)),
		prices: market.NewFeed(
			market.NewCoinGecko(market.WithBaseURL(cfg.Market.CoinGeckoURL), market.WithTimeout(cfg.Market.Timeout)),
			cfg.Assets.FeedIDs(),
		),
		btc: market.NewFeed(
			market.NewCoinCap(market.WithBaseURL(cfg.Market.CoinCapURL), market.WithTimeout(cfg.Market.Timeout)),
			[]string{cfg.Market.HistoryFeedID},
		),
		close: closeStore,
	}
	a.server = api.NewServer(api.Wallet{
		Catalog:       cfg.Assets,
		Holdings:      cfg.Holdings,
		Prices:        a.prices,
		HistoryPrice:  a.btc,
		HistoryFeedID: cfg.Market.HistoryFeedID,
		Ledger:        a.repo,
		Accrual:       accrual.NewAccruer(cfg.Accrual.Symbol, cfg.Accrual.Initial, cfg.Accrual.Increment, cfg.Accrual.Interval),
		RecentCount:   cfg.Ledger.RecentCount,
	}, realtime.NewHub())
	return a, nil
}

func printMarkdown(md string) error {
	out, err := present.Render(md, *style)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(os.Stdout, out)
	return err
}
