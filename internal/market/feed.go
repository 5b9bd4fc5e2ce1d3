package market

import (
	"context"
	"sync"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"coinvault/internal/models"
	"coinvault/internal/schedule"
)

// State is what consumers of a Feed observe.
type State struct {
	Status   models.FeedStatus
	Snapshot models.PriceSnapshot
	// Stale is set when the latest refresh failed but an earlier one
	// succeeded; Snapshot then holds the last good data.
	Stale bool
	Err   error
}

// Feed keeps the latest snapshot for a fixed set of identifiers.
type Feed struct {
	fetcher Fetcher
	ids     []string

	mu        sync.RWMutex
	snapshot  models.PriceSnapshot
	hasData   bool
	lastErr   error
	attempted bool
	listeners []func(State)
}

func NewFeed(f Fetcher, ids []string) *Feed {
	return &Feed{fetcher: f, ids: append([]string(nil), ids...)}
}

// Refresh fetches once. On failure the previous snapshot is kept.
func (f *Feed) Refresh(ctx context.Context) error {
	snap, err := f.fetcher.Fetch(ctx, f.ids)

	f.mu.Lock()
	f.attempted = true
	if err != nil {
		f.lastErr = err
	} else {
		f.snapshot, f.hasData, f.lastErr = snap, true, nil
	}
	state := f.stateLocked()
	listeners := append([]func(State){}, f.listeners...)
	f.mu.Unlock()

	if err != nil {
		logx.WithContext(ctx).Errorf("price feed: refresh failed ids=%v stale=%t err=%v", f.ids, state.Stale, err)
	}
	for _, fn := range listeners {
		fn(state)
	}
	return err
}

func (f *Feed) State() State {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.stateLocked()
}

func (f *Feed) stateLocked() State {
	switch {
	case f.hasData:
		return State{Status: models.StatusReady, Snapshot: f.snapshot, Stale: f.lastErr != nil, Err: f.lastErr}
	case f.attempted && f.lastErr != nil:
		return State{Status: models.StatusError, Err: f.lastErr}
	default:
		return State{Status: models.StatusLoading}
	}
}

// OnRefresh registers fn to receive the state after every refresh attempt.
func (f *Feed) OnRefresh(fn func(State)) {
	f.mu.Lock()
	f.listeners = append(f.listeners, fn)
	f.mu.Unlock()
}

// Start refreshes now and then on every interval. The caller owns the
// returned task and must Stop it.
func (f *Feed) Start(ctx context.Context, interval time.Duration) *schedule.Task {
	return schedule.Every(ctx, interval, func(ctx context.Context) {
		_ = f.Refresh(ctx)
	}, schedule.Immediately())
}
