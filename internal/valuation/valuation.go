package valuation

import (
	"github.com/shopspring/decimal"

	"coinvault/internal/models"
)

// Value prices every holding against snapshot. Holdings whose asset is not
// in the catalog or has no quote contribute zero.
func Value(catalog models.Catalog, holdings []models.Holding, snapshot models.PriceSnapshot) models.PortfolioValuation {
	out := models.PortfolioValuation{
		Assets: make([]models.AssetValuation, 0, len(holdings)),
	}

	total := decimal.Zero
	for _, h := range holdings {
		asset, ok := catalog.Lookup(h.Symbol)
		if !ok {
			asset = models.Asset{Symbol: h.Symbol, Name: h.Symbol}
		}
		quote := snapshot.Quote(asset.FeedID)
		price := quote.PriceUSD
		if price < 0 {
			price = 0
		}

		fiat := decimal.NewFromFloat(h.Quantity).Mul(decimal.NewFromFloat(price))
		total = total.Add(fiat)

		out.Assets = append(out.Assets, models.AssetValuation{
			Asset:     asset,
			Quantity:  h.Quantity,
			PriceUSD:  price,
			Change24h: quote.Change24h,
			FiatUSD:   fiat.InexactFloat64(),
		})
	}

	out.TotalUSD = total.InexactFloat64()
	return out
}

// TransactionFiat values tx at the current price. ok is false when no
// usable price is known.
func TransactionFiat(tx models.Transaction, priceUSD float64) (fiat float64, ok bool) {
	if priceUSD <= 0 {
		return 0, false
	}
	return decimal.NewFromFloat(tx.Amount).Mul(decimal.NewFromFloat(priceUSD)).InexactFloat64(), true
}

// WithOverride returns holdings with symbol's quantity replaced by quantity.
func WithOverride(holdings []models.Holding, symbol string, quantity float64) []models.Holding {
	out := make([]models.Holding, len(holdings))
	copy(out, holdings)
	for i := range out {
		if out[i].Symbol == symbol {
			out[i].Quantity = quantity
		}
	}
	return out
}

// QuantityFor returns how much of asset usd buys at the snapshot price.
func QuantityFor(usd float64, quote models.Quote) (float64, bool) {
	if quote.PriceUSD <= 0 {
		return 0, false
	}
	return decimal.NewFromFloat(usd).DivRound(decimal.NewFromFloat(quote.PriceUSD), 8).InexactFloat64(), true
}
