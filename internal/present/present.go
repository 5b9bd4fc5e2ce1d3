// Package present turns valuations and ledger entries into display strings
// shared by the HTTP views and the terminal client.
package present

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"coinvault/internal/models"
	"coinvault/internal/valuation"
)

// Unavailable is shown in place of a fiat value when no price is known.
const Unavailable = "~"

// USD formats v as dollars with cents, e.g. "$43,300.00".
func USD(v float64) string {
	cents := decimal.NewFromFloat(v).Shift(2).Round(0).IntPart()
	return money.New(cents, money.USD).Display()
}

func Change(pct float64) string {
	sign := ""
	if pct >= 0 {
		sign = "+"
	}
	return sign + strconv.FormatFloat(pct, 'f', 2, 64) + "%"
}

func Quantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

func TxLabel(tx models.Transaction, symbol string) string {
	if tx.IsReceive() {
		return "Received " + symbol
	}
	return "Sent " + symbol
}

func AmountLabel(tx models.Transaction, symbol string) string {
	sign := "-"
	if tx.IsReceive() {
		sign = "+"
	}
	return fmt.Sprintf("%s%s %s", sign, Quantity(tx.Amount), symbol)
}

func CounterpartyLabel(tx models.Transaction) string {
	if tx.IsReceive() {
		return "from " + tx.Counterparty
	}
	return "to " + tx.Counterparty
}

// Relative renders t against now, e.g. "3 hours ago".
func Relative(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}

// When is the absolute plus relative timestamp shown in the history view.
func When(t, now time.Time) string {
	return fmt.Sprintf("%s (%s)", t.UTC().Format("Jan 2, 2006 3:04 PM"), Relative(t, now))
}

// TransactionViews values every entry at priceUSD. A non-positive price
// leaves FiatUSD nil and shows Unavailable.
func TransactionViews(l models.Ledger, symbol string, priceUSD float64, now time.Time) []models.TransactionView {
	out := make([]models.TransactionView, 0, len(l))
	for _, tx := range l {
		v := models.TransactionView{
			Transaction: tx,
			FiatDisplay: Unavailable,
			Label:       TxLabel(tx, symbol),
			AmountLabel: AmountLabel(tx, symbol),
			When:        When(tx.Timestamp, now),
		}
		if fiat, ok := valuation.TransactionFiat(tx, priceUSD); ok {
			v.FiatUSD = &fiat
			v.FiatDisplay = USD(fiat)
		}
		out = append(out, v)
	}
	return out
}
