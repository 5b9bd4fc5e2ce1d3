package accrual

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zeromicro/go-zero/core/logx"

	"coinvault/internal/schedule"
)

const (
	DefaultInterval  = 12 * time.Hour
	DefaultIncrement = 0.08
	precision        = 8
)

// Accruer holds one asset quantity that grows by a fixed increment per tick.
type Accruer struct {
	symbol    string
	increment decimal.Decimal
	interval  time.Duration

	mu        sync.RWMutex
	quantity  decimal.Decimal
	listeners []func(symbol string, quantity float64)
}

func NewAccruer(symbol string, initial, increment float64, interval time.Duration) *Accruer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Accruer{
		symbol:    symbol,
		increment: decimal.NewFromFloat(increment),
		interval:  interval,
		quantity:  decimal.NewFromFloat(initial),
	}
}

func (a *Accruer) Symbol() string { return a.symbol }

func (a *Accruer) Quantity() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.quantity.InexactFloat64()
}

// OnTick registers fn to be called after every increment.
func (a *Accruer) OnTick(fn func(symbol string, quantity float64)) {
	a.mu.Lock()
	a.listeners = append(a.listeners, fn)
	a.mu.Unlock()
}

// Tick applies one increment and returns the new quantity.
func (a *Accruer) Tick() float64 {
	a.mu.Lock()
	a.quantity = a.quantity.Add(a.increment).Round(precision)
	q := a.quantity.InexactFloat64()
	listeners := append([]func(string, float64){}, a.listeners...)
	a.mu.Unlock()

	logx.Infof("accrual: %s holding increased: %s", a.symbol, decimal.NewFromFloat(q).StringFixed(precision))
	for _, fn := range listeners {
		fn(a.symbol, q)
	}
	return q
}

// Start schedules Tick on the accrual interval. The caller owns the returned
// task and must Stop it.
func (a *Accruer) Start(ctx context.Context) *schedule.Task {
	return schedule.Every(ctx, a.interval, func(context.Context) { a.Tick() })
}
