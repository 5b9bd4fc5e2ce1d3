// Package ledger synthesizes the demo BTC transaction history and keeps it
// stable across restarts by persisting the first generated copy.
package ledger

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"coinvault/internal/models"
)

const (
	minPerDay      = 3
	maxPerDay      = 5
	minReceives    = 3
	minAmount      = 0.0005
	amountSpread   = 0.005
	amountDecimals = 4

	counterpartyChars = "abcdefghijklmnopqrstuvwxyz0123456789"
	DefaultPrefix     = "bc1"
)

// DefaultStart is the first day of the generated history.
var DefaultStart = time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

// Generator builds a ledger covering every UTC calendar day from Start
// through the day of now, inclusive.
type Generator struct {
	Start  time.Time
	Rand   *rand.Rand
	Prefix string
}

// NewGenerator returns a generator seeded with seed. The same seed and now
// always produce the same ledger.
func NewGenerator(start time.Time, seed uint64) *Generator {
	return &Generator{
		Start:  start,
		Rand:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		Prefix: DefaultPrefix,
	}
}

func (g *Generator) Generate(now time.Time) models.Ledger {
	start := day(g.Start)
	last := day(now)
	prefix := g.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}

	var out models.Ledger
	id := 1
	for d := start; !d.After(last); d = d.AddDate(0, 0, 1) {
		n := minPerDay + g.Rand.IntN(maxPerDay-minPerDay+1)
		receives := 0
		for i := 0; i < n; i++ {
			receive := receives < minReceives || g.Rand.Float64() > 0.5
			if receive {
				receives++
			}
			dir := models.DirectionSend
			if receive {
				dir = models.DirectionReceive
			}

			ts := d.Add(time.Duration(g.Rand.IntN(24))*time.Hour + time.Duration(g.Rand.IntN(60))*time.Minute)
			out = append(out, models.Transaction{
				ID:           fmt.Sprintf("tx%d", id),
				Direction:    dir,
				Amount:       g.amount(),
				Counterparty: g.counterparty(prefix),
				Timestamp:    ts,
			})
			id++
		}
	}

	slices.SortStableFunc(out, func(a, b models.Transaction) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return out
}

func (g *Generator) amount() float64 {
	v := g.Rand.Float64()*amountSpread + minAmount
	return decimal.NewFromFloat(v).Round(amountDecimals).InexactFloat64()
}

func (g *Generator) counterparty(prefix string) string {
	var b strings.Builder
	b.WriteString(prefix)
	g.randomChars(&b, 3)
	b.WriteString("...")
	g.randomChars(&b, 3)
	return b.String()
}

func (g *Generator) randomChars(b *strings.Builder, n int) {
	for i := 0; i < n; i++ {
		b.WriteByte(counterpartyChars[g.Rand.IntN(len(counterpartyChars))])
	}
}

func day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayCount tallies one calendar day of a ledger.
type DayCount struct {
	Total    int
	Receives int
}

// CountByDay groups l by UTC date (YYYY-MM-DD).
func CountByDay(l models.Ledger) map[string]DayCount {
	out := make(map[string]DayCount)
	for _, tx := range l {
		k := tx.Timestamp.UTC().Format(time.DateOnly)
		c := out[k]
		c.Total++
		if tx.IsReceive() {
			c.Receives++
		}
		out[k] = c
	}
	return out
}

// Recent returns at most n of the newest transactions.
func Recent(l models.Ledger, n int) models.Ledger {
	if n < 0 {
		n = 0
	}
	if n > len(l) {
		n = len(l)
	}
	return l[:n:n]
}
