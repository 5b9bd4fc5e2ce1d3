package main

import (
	"context"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"coinvault/internal/accrual"
	"coinvault/internal/api"
	"coinvault/internal/config"
	"coinvault/internal/ledger"
	"coinvault/internal/market"
	"coinvault/internal/realtime"
	"coinvault/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	var (
		configPath = flag.String("config", envOr("COINVAULT_CONFIG", ""), "YAML config file (defaults built in)")
		addr       = flag.String("addr", "", "server listen address, overrides config")
		staticDir  = flag.String("static", envOr("STATIC_DIR", ""), "directory of a built frontend to serve")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	logx.Must(err)
	if *addr != "" {
		cfg.Addr = *addr
	}
	logx.Must(config.SetupLogging(cfg.Log))
	config.LogSummary(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	kv, closeStore, err := store.Open(ctx, cfg.Store)
	logx.Must(err)
	defer closeStore()

	codec, err := ledger.CodecByName(cfg.Ledger.Codec)
	logx.Must(err)
	seed := cfg.Ledger.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	repo := ledger.NewRepository(kv, codec, cfg.Ledger.Key, ledger.NewGenerator(cfg.Ledger.Start, seed))
	if _, err := repo.LoadOrGenerate(ctx); err != nil {
		logx.Errorf("ledger warmup failed: %v", err)
	}

	prices := market.NewFeed(
		market.NewCoinGecko(market.WithBaseURL(cfg.Market.CoinGeckoURL), market.WithTimeout(cfg.Market.Timeout)),
		cfg.Assets.FeedIDs(),
	)
	historyPrice := market.NewFeed(
		market.NewCoinCap(market.WithBaseURL(cfg.Market.CoinCapURL), market.WithTimeout(cfg.Market.Timeout)),
		[]string{cfg.Market.HistoryFeedID},
	)
	acc := accrual.NewAccruer(cfg.Accrual.Symbol, cfg.Accrual.Initial, cfg.Accrual.Increment, cfg.Accrual.Interval)

	hub := realtime.NewHub()
	apiServer := api.NewServer(api.Wallet{
		Catalog:       cfg.Assets,
		Holdings:      cfg.Holdings,
		Prices:        prices,
		HistoryPrice:  historyPrice,
		HistoryFeedID: cfg.Market.HistoryFeedID,
		Ledger:        repo,
		Accrual:       acc,
		RecentCount:   cfg.Ledger.RecentCount,
	}, hub, api.WithStaticDir(*staticDir))

	prices.OnRefresh(func(market.State) { apiServer.BroadcastDashboard(ctx) })
	historyPrice.OnRefresh(func(market.State) { apiServer.BroadcastHistoryPrice() })
	acc.OnTick(func(string, float64) { apiServer.BroadcastDashboard(ctx) })

	priceTask := prices.Start(ctx, cfg.Market.Refresh)
	defer priceTask.Stop()
	historyTask := historyPrice.Start(ctx, cfg.Market.Refresh)
	defer historyTask.Stop()
	accrualTask := acc.Start(ctx)
	defer accrualTask.Stop()

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	logx.Must(err)
	logx.Infof("coinvault backend listening on %s", ln.Addr())
	if err := serve(ctx, httpServer, ln, 8*time.Second); err != nil {
		logx.Errorf("server failed: %v", err)
	}
}
