package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coinvault/internal/models"
)

var catalog = models.Catalog{
	{Symbol: "BTC", Name: "Bitcoin", FeedID: "bitcoin"},
	{Symbol: "ETH", Name: "Ethereum", FeedID: "ethereum"},
	{Symbol: "SOL", Name: "Solana", FeedID: "solana"},
}

func TestValueSumsHoldings(t *testing.T) {
	holdings := []models.Holding{{Symbol: "BTC", Quantity: 0.8}, {Symbol: "ETH", Quantity: 1.1}}
	snapshot := models.PriceSnapshot{Quotes: map[string]models.Quote{
		"bitcoin":  {PriceUSD: 50000, Change24h: 1.5},
		"ethereum": {PriceUSD: 3000, Change24h: -2.25},
	}}

	got := Value(catalog, holdings, snapshot)

	assert.Equal(t, 43300.0, got.TotalUSD)
	require.Len(t, got.Assets, 2)
	assert.Equal(t, 40000.0, got.Assets[0].FiatUSD)
	assert.Equal(t, 3300.0, got.Assets[1].FiatUSD)
	assert.Equal(t, -2.25, got.Assets[1].Change24h)
	assert.Equal(t, "Ethereum", got.Assets[1].Name)
}

func TestValueMissingPriceIsZero(t *testing.T) {
	got := Value(catalog, []models.Holding{{Symbol: "SOL", Quantity: 10}}, models.PriceSnapshot{})

	require.Len(t, got.Assets, 1)
	assert.Zero(t, got.Assets[0].FiatUSD)
	assert.Zero(t, got.Assets[0].PriceUSD)
	assert.Zero(t, got.TotalUSD)
}

func TestTransactionFiat(t *testing.T) {
	tx := models.Transaction{Amount: 0.002}

	fiat, ok := TransactionFiat(tx, 50000)
	assert.True(t, ok)
	assert.Equal(t, 100.0, fiat)

	_, ok = TransactionFiat(tx, 0)
	assert.False(t, ok)
}

func TestWithOverrideDoesNotMutateInput(t *testing.T) {
	in := []models.Holding{{Symbol: "BTC", Quantity: 0.8}, {Symbol: "ETH", Quantity: 1.1}}

	out := WithOverride(in, "BTC", 0.86)

	assert.Equal(t, 0.86, out[0].Quantity)
	assert.Equal(t, 0.8, in[0].Quantity)
}

func TestQuantityFor(t *testing.T) {
	q, ok := QuantityFor(100, models.Quote{PriceUSD: 50000})
	assert.True(t, ok)
	assert.Equal(t, 0.002, q)

	_, ok = QuantityFor(100, models.Quote{})
	assert.False(t, ok)
}
