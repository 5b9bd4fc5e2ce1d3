package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"coinvault/internal/models"
)

const startLayout = "2006-01-02"

type Config struct {
	Addr     string           `yaml:"addr"`
	Log      LogConfig        `yaml:"log"`
	Store    StoreConfig      `yaml:"store"`
	Market   MarketConfig     `yaml:"market"`
	Ledger   LedgerConfig     `yaml:"ledger"`
	Accrual  AccrualConfig    `yaml:"accrual"`
	Assets   models.Catalog   `yaml:"assets"`
	Holdings []models.Holding `yaml:"holdings"`
}

type LogConfig struct {
	ServiceName string `yaml:"service_name"`
	Mode        string `yaml:"mode"`
	Encoding    string `yaml:"encoding"`
	Level       string `yaml:"level"`
	Path        string `yaml:"path"`
}

type StoreConfig struct {
	// Driver is one of sqlite, file, postgres, memory.
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	DSN    string `yaml:"dsn"`
}

type MarketConfig struct {
	CoinGeckoURL string `yaml:"coingecko_url"`
	CoinCapURL   string `yaml:"coincap_url"`
	// HistoryFeedID is the asset the history view prices through CoinCap.
	HistoryFeedID string `yaml:"history_feed_id"`

	RefreshRaw string        `yaml:"refresh_interval"`
	Refresh    time.Duration `yaml:"-"`
	TimeoutRaw string        `yaml:"timeout"`
	Timeout    time.Duration `yaml:"-"`
}

type LedgerConfig struct {
	Key   string `yaml:"key"`
	Codec string `yaml:"codec"`
	// Seed fixes the generator's random source; zero means seed from time.
	Seed        uint64 `yaml:"seed"`
	RecentCount int    `yaml:"recent_count"`

	StartRaw string    `yaml:"start"`
	Start    time.Time `yaml:"-"`
}

type AccrualConfig struct {
	Symbol    string  `yaml:"symbol"`
	Initial   float64 `yaml:"initial"`
	Increment float64 `yaml:"increment"`

	IntervalRaw string        `yaml:"interval"`
	Interval    time.Duration `yaml:"-"`
}

// Default returns the demo wallet configuration.
func Default() *Config {
	return &Config{
		Addr: ":8080",
		Log: LogConfig{
			ServiceName: "coinvault",
			Mode:        "console",
			Encoding:    "plain",
			Level:       "info",
		},
		Store: StoreConfig{Driver: "sqlite", Path: "./coinvault.db"},
		Market: MarketConfig{
			CoinGeckoURL:  "https://api.coingecko.com/api/v3",
			CoinCapURL:    "https://api.coincap.io",
			HistoryFeedID: "bitcoin",
			RefreshRaw:    "60s",
			TimeoutRaw:    "10s",
		},
		Ledger: LedgerConfig{
			Key:         "btcTxs",
			Codec:       "json",
			RecentCount: 4,
			StartRaw:    "2025-03-01",
		},
		Accrual: AccrualConfig{
			Symbol:      "BTC",
			Initial:     0.7,
			Increment:   0.08,
			IntervalRaw: "12h",
		},
		Assets: models.Catalog{
			{Symbol: "BTC", Name: "Bitcoin", FeedID: "bitcoin", Address: "bc1qexamplebtcaddress"},
			{Symbol: "ETH", Name: "Ethereum", FeedID: "ethereum", Address: "0xExampleEthAddress"},
			{Symbol: "USDT", Name: "Tether", FeedID: "tether", Address: "TY3ExampleTronUSDT"},
			{Symbol: "SOL", Name: "Solana", FeedID: "solana", Address: "7GhExampleSolAddress"},
			{Symbol: "USDC", Name: "USD Coin", FeedID: "usd-coin", Address: "0xExampleUsdcAddress"},
		},
		Holdings: []models.Holding{
			{Symbol: "BTC", Quantity: 0.8},
			{Symbol: "ETH", Quantity: 1.1},
			{Symbol: "USDT", Quantity: 1050.0},
			{Symbol: "SOL", Quantity: 25.44},
			{Symbol: "USDC", Quantity: 980.0},
		},
	}
}

// Load reads a YAML config file layered over Default. An empty path returns
// the defaults after environment expansion.
func Load(path string) (*Config, error) {
	LoadDotenvOnce()
	if path == "" {
		cfg := Default()
		if err := cfg.normalise(); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()
	return LoadFromReader(file)
}

func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

func LoadFromReader(r io.Reader) (*Config, error) {
	LoadDotenvOnce()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.normalise(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalise() error {
	c.Addr = expand(c.Addr)
	c.Store.Driver = strings.ToLower(expand(c.Store.Driver))
	c.Store.Path = expand(c.Store.Path)
	c.Store.DSN = expand(c.Store.DSN)
	c.Market.CoinGeckoURL = strings.TrimRight(expand(c.Market.CoinGeckoURL), "/")
	c.Market.CoinCapURL = strings.TrimRight(expand(c.Market.CoinCapURL), "/")
	c.Ledger.Codec = strings.ToLower(expand(c.Ledger.Codec))

	var err error
	if c.Market.Refresh, err = parseDuration("market.refresh_interval", c.Market.RefreshRaw); err != nil {
		return err
	}
	if c.Market.Timeout, err = parseDuration("market.timeout", c.Market.TimeoutRaw); err != nil {
		return err
	}
	if c.Accrual.Interval, err = parseDuration("accrual.interval", c.Accrual.IntervalRaw); err != nil {
		return err
	}
	start, err := time.ParseInLocation(startLayout, strings.TrimSpace(c.Ledger.StartRaw), time.UTC)
	if err != nil {
		return fmt.Errorf("ledger.start: %w", err)
	}
	c.Ledger.Start = start
	for i := range c.Holdings {
		c.Holdings[i].Symbol = strings.ToUpper(strings.TrimSpace(c.Holdings[i].Symbol))
	}
	c.Accrual.Symbol = strings.ToUpper(strings.TrimSpace(c.Accrual.Symbol))
	return nil
}

// Validate checks the catalog and holdings invariants.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Assets) == 0 {
		errs = append(errs, errors.New("assets: catalog is empty"))
	}
	seen := make(map[string]bool, len(c.Assets))
	for _, a := range c.Assets {
		if a.Symbol == "" || a.FeedID == "" {
			errs = append(errs, fmt.Errorf("assets: %q needs symbol and feed_id", a.Name))
		}
		if seen[a.Symbol] {
			errs = append(errs, fmt.Errorf("assets: duplicate symbol %s", a.Symbol))
		}
		seen[a.Symbol] = true
	}
	for _, h := range c.Holdings {
		if !seen[h.Symbol] {
			errs = append(errs, fmt.Errorf("holdings: %s is not in the asset catalog", h.Symbol))
		}
		if h.Quantity < 0 {
			errs = append(errs, fmt.Errorf("holdings: %s quantity must not be negative", h.Symbol))
		}
	}
	if c.Accrual.Symbol != "" && !seen[c.Accrual.Symbol] {
		errs = append(errs, fmt.Errorf("accrual: %s is not in the asset catalog", c.Accrual.Symbol))
	}
	switch c.Store.Driver {
	case "sqlite", "file":
		if c.Store.Path == "" {
			errs = append(errs, fmt.Errorf("store: %s driver needs a path", c.Store.Driver))
		}
	case "postgres":
		if c.Store.DSN == "" {
			errs = append(errs, errors.New("store: postgres driver needs a dsn"))
		}
	case "memory":
	default:
		errs = append(errs, fmt.Errorf("store: unknown driver %q", c.Store.Driver))
	}
	switch c.Ledger.Codec {
	case "json", "msgpack":
	default:
		errs = append(errs, fmt.Errorf("ledger: unknown codec %q", c.Ledger.Codec))
	}
	if c.Market.Refresh <= 0 {
		errs = append(errs, errors.New("market: refresh_interval must be positive"))
	}
	if c.Accrual.Interval <= 0 {
		errs = append(errs, errors.New("accrual: interval must be positive"))
	}
	return errors.Join(errs...)
}

func expand(s string) string {
	return strings.TrimSpace(os.ExpandEnv(s))
}

func parseDuration(field, raw string) (time.Duration, error) {
	raw = expand(raw)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}
