package models

import (
	"encoding/json"
	"time"
)

type Asset struct {
	Symbol  string `json:"symbol" yaml:"symbol"`
	Name    string `json:"name" yaml:"name"`
	FeedID  string `json:"feedId" yaml:"feed_id"`
	Address string `json:"address" yaml:"address"`
}

// Catalog is the fixed list of supported assets, in display order.
type Catalog []Asset

func (c Catalog) Lookup(symbol string) (Asset, bool) {
	for _, a := range c {
		if a.Symbol == symbol {
			return a, true
		}
	}
	return Asset{}, false
}

func (c Catalog) FeedIDs() []string {
	ids := make([]string, 0, len(c))
	for _, a := range c {
		ids = append(ids, a.FeedID)
	}
	return ids
}

type Holding struct {
	Symbol   string  `json:"symbol" yaml:"symbol"`
	Quantity float64 `json:"quantity" yaml:"quantity"`
}

type Quote struct {
	PriceUSD  float64 `json:"priceUsd"`
	Change24h float64 `json:"change24h"`
}

// PriceSnapshot maps a price-feed identifier to its latest quote.
type PriceSnapshot struct {
	Quotes    map[string]Quote `json:"quotes"`
	FetchedAt time.Time        `json:"fetchedAt"`
}

// Quote returns the quote for id, or a zero quote when the feed has none.
func (s PriceSnapshot) Quote(id string) Quote {
	return s.Quotes[id]
}

type Direction string

const (
	DirectionReceive Direction = "receive"
	DirectionSend    Direction = "send"
)

type Transaction struct {
	ID           string    `msgpack:"id"`
	Direction    Direction `msgpack:"type"`
	Amount       float64   `msgpack:"amount"`
	Counterparty string    `msgpack:"counterparty"`
	Timestamp    time.Time `msgpack:"timestamp"`
}

// transactionRecord is the stored JSON shape: timestamps are unix milliseconds.
type transactionRecord struct {
	ID           string    `json:"id"`
	Direction    Direction `json:"type"`
	Amount       float64   `json:"amount"`
	Counterparty string    `json:"counterparty"`
	Timestamp    int64     `json:"timestamp"`
}

func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.record())
}

func (t *Transaction) UnmarshalJSON(data []byte) error {
	var rec transactionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	*t = rec.transaction()
	return nil
}

func (t Transaction) IsReceive() bool {
	return t.Direction == DirectionReceive
}

// Ledger is ordered newest first.
type Ledger []Transaction

type AssetValuation struct {
	Asset
	Quantity  float64 `json:"quantity"`
	PriceUSD  float64 `json:"priceUsd"`
	Change24h float64 `json:"change24h"`
	FiatUSD   float64 `json:"fiatUsd"`
}

type PortfolioValuation struct {
	Assets   []AssetValuation `json:"assets"`
	TotalUSD float64          `json:"totalUsd"`
}

// TransactionView is a ledger entry paired with its current-price valuation.
type TransactionView struct {
	Transaction
	FiatUSD     *float64 `json:"fiatUsd,omitempty"`
	FiatDisplay string   `json:"fiatDisplay"`
	Label       string   `json:"label"`
	AmountLabel string   `json:"amountLabel"`
	When        string   `json:"when"`
}

// transactionViewRecord is the flattened JSON shape of a TransactionView.
type transactionViewRecord struct {
	transactionRecord
	FiatUSD     *float64 `json:"fiatUsd,omitempty"`
	FiatDisplay string   `json:"fiatDisplay"`
	Label       string   `json:"label"`
	AmountLabel string   `json:"amountLabel"`
	When        string   `json:"when"`
}

func (r transactionRecord) transaction() Transaction {
	return Transaction{
		ID:           r.ID,
		Direction:    r.Direction,
		Amount:       r.Amount,
		Counterparty: r.Counterparty,
		Timestamp:    time.UnixMilli(r.Timestamp).UTC(),
	}
}

func (t Transaction) record() transactionRecord {
	return transactionRecord{
		ID:           t.ID,
		Direction:    t.Direction,
		Amount:       t.Amount,
		Counterparty: t.Counterparty,
		Timestamp:    t.Timestamp.UnixMilli(),
	}
}

// MarshalJSON flattens the embedded transaction record next to the view fields.
func (v TransactionView) MarshalJSON() ([]byte, error) {
	return json.Marshal(transactionViewRecord{
		transactionRecord: v.Transaction.record(),
		FiatUSD:           v.FiatUSD,
		FiatDisplay:       v.FiatDisplay,
		Label:             v.Label,
		AmountLabel:       v.AmountLabel,
		When:              v.When,
	})
}

func (v *TransactionView) UnmarshalJSON(data []byte) error {
	var rec transactionViewRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	*v = TransactionView{
		Transaction: rec.transactionRecord.transaction(),
		FiatUSD:     rec.FiatUSD,
		FiatDisplay: rec.FiatDisplay,
		Label:       rec.Label,
		AmountLabel: rec.AmountLabel,
		When:        rec.When,
	}
	return nil
}

type FeedStatus string

const (
	StatusLoading FeedStatus = "loading"
	StatusError   FeedStatus = "error"
	StatusReady   FeedStatus = "ready"
)

type Dashboard struct {
	Portfolio    PortfolioValuation `json:"portfolio"`
	TotalDisplay string             `json:"totalDisplay"`
	Stale        bool               `json:"stale"`
	FetchedAt    time.Time          `json:"fetchedAt"`
	Recent       []TransactionView  `json:"recent"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}
