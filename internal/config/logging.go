package config

import (
	"fmt"

	"github.com/zeromicro/go-zero/core/logx"
)

// SetupLogging configures logx from the log section.
func SetupLogging(c LogConfig) error {
	if err := logx.SetUp(logx.LogConf{
		ServiceName: c.ServiceName,
		Mode:        c.Mode,
		Encoding:    c.Encoding,
		Level:       c.Level,
		Path:        c.Path,
	}); err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	logx.DisableStat()
	return nil
}

// SummaryLines describes the loaded configuration without secrets.
func SummaryLines(c *Config) []string {
	if c == nil {
		return []string{"Configuration: <nil>"}
	}
	storeLine := fmt.Sprintf("Store: %s", c.Store.Driver)
	switch c.Store.Driver {
	case "sqlite", "file":
		storeLine += " " + c.Store.Path
	case "postgres":
		storeLine += " (dsn configured)"
	}
	return []string{
		fmt.Sprintf("Listen: %s", c.Addr),
		storeLine,
		fmt.Sprintf("Price feed: %s every %s", c.Market.CoinGeckoURL, c.Market.Refresh),
		fmt.Sprintf("History price: %s (%s)", c.Market.CoinCapURL, c.Market.HistoryFeedID),
		fmt.Sprintf("Ledger: key=%s codec=%s start=%s", c.Ledger.Key, c.Ledger.Codec, c.Ledger.Start.Format(startLayout)),
		fmt.Sprintf("Accrual: %s +%g every %s", c.Accrual.Symbol, c.Accrual.Increment, c.Accrual.Interval),
		fmt.Sprintf("Assets: %d, holdings: %d", len(c.Assets), len(c.Holdings)),
	}
}

func LogSummary(c *Config) {
	logx.Info("configuration summary")
	for _, line := range SummaryLines(c) {
		logx.Infof("config • %s", line)
	}
}
