package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"

	"coinvault/internal/models"
)

var ErrNoData = errors.New("market: no price data")

// Fetcher returns a fresh snapshot for the given feed identifiers.
type Fetcher interface {
	Fetch(ctx context.Context, ids []string) (models.PriceSnapshot, error)
}

type Option func(*httpBase)

func WithHTTPClient(c *http.Client) Option {
	return func(b *httpBase) { b.httpClient = c }
}

func WithBaseURL(u string) Option {
	return func(b *httpBase) { b.baseURL = strings.TrimRight(u, "/") }
}

func WithTimeout(d time.Duration) Option {
	return func(b *httpBase) {
		if d > 0 {
			b.httpClient = &http.Client{Timeout: d, Transport: b.httpClient.Transport}
		}
	}
}

type httpBase struct {
	httpClient *http.Client
	baseURL    string
	now        func() time.Time
}

func newBase(defaultURL string, opts []Option) httpBase {
	b := httpBase{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultURL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b httpBase) get(ctx context.Context, endpoint, name string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", name, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s prices: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%s status %d: %s", name, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s prices: %w", name, err)
	}
	return body, nil
}

// CoinGecko reads /simple/price with USD price and 24h change.
type CoinGecko struct {
	httpBase
}

func NewCoinGecko(opts ...Option) *CoinGecko {
	return &CoinGecko{httpBase: newBase("https://api.coingecko.com/api/v3", opts)}
}

func (c *CoinGecko) Fetch(ctx context.Context, ids []string) (models.PriceSnapshot, error) {
	values := url.Values{}
	values.Set("ids", strings.Join(ids, ","))
	values.Set("vs_currencies", "usd")
	values.Set("include_24hr_change", "true")
	endpoint := c.baseURL + "/simple/price?" + values.Encode()

	body, err := c.get(ctx, endpoint, "coingecko")
	if err != nil {
		return models.PriceSnapshot{}, err
	}

	var payload map[string]struct {
		USD       float64 `json:"usd"`
		Change24h float64 `json:"usd_24h_change"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return models.PriceSnapshot{}, fmt.Errorf("decode coingecko prices: %w", err)
	}

	snap := models.PriceSnapshot{
		Quotes:    make(map[string]models.Quote, len(payload)),
		FetchedAt: c.now().UTC(),
	}
	for id, v := range payload {
		if math.IsNaN(v.USD) || v.USD < 0 {
			continue
		}
		snap.Quotes[id] = models.Quote{PriceUSD: v.USD, Change24h: v.Change24h}
	}
	return snap, nil
}

// CoinCap reads the /v2/assets list shape, where each record carries its
// price as a decimal string.
type CoinCap struct {
	httpBase
}

func NewCoinCap(opts ...Option) *CoinCap {
	return &CoinCap{httpBase: newBase("https://api.coincap.io", opts)}
}

func (c *CoinCap) Fetch(ctx context.Context, ids []string) (models.PriceSnapshot, error) {
	values := url.Values{}
	values.Set("ids", strings.Join(ids, ","))
	endpoint := c.baseURL + "/v2/assets?" + values.Encode()

	body, err := c.get(ctx, endpoint, "coincap")
	if err != nil {
		return models.PriceSnapshot{}, err
	}

	var jobj any
	if err := json.Unmarshal(body, &jobj); err != nil {
		return models.PriceSnapshot{}, fmt.Errorf("decode coincap assets: %w", err)
	}
	records, err := jsonpath.Get("$.data[*]", jobj)
	if err != nil {
		return models.PriceSnapshot{}, fmt.Errorf("coincap assets: %w", err)
	}
	list, _ := records.([]any)

	snap := models.PriceSnapshot{
		Quotes:    make(map[string]models.Quote, len(list)),
		FetchedAt: c.now().UTC(),
	}
	for _, rec := range list {
		id, _ := lookup(rec, "$.id").(string)
		price, ok := number(lookup(rec, "$.priceUsd"))
		if id == "" || !ok || price < 0 {
			continue
		}
		change, _ := number(lookup(rec, "$.changePercent24Hr"))
		snap.Quotes[id] = models.Quote{PriceUSD: price, Change24h: change}
	}
	return snap, nil
}

// Price returns the USD price of a single asset, or ErrNoData when the
// response carries none.
func (c *CoinCap) Price(ctx context.Context, id string) (float64, error) {
	snap, err := c.Fetch(ctx, []string{id})
	if err != nil {
		return 0, err
	}
	q, ok := snap.Quotes[id]
	if !ok {
		return 0, fmt.Errorf("coincap %s: %w", id, ErrNoData)
	}
	return q.PriceUSD, nil
}

func lookup(obj any, path string) any {
	v, err := jsonpath.Get(path, obj)
	if err != nil {
		return nil
	}
	return v
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n)
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil && !math.IsNaN(f)
	default:
		return 0, false
	}
}
