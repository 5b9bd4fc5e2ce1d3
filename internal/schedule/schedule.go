// Package schedule runs repeating background work that is owned by a single
// caller and must be stopped exactly once when that caller goes away.
package schedule

import (
	"context"
	"sync"
	"time"
)

// Task is a running periodic job. The zero value is not usable; create one
// with Every.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

type options struct {
	immediate bool
}

type Option func(*options)

// Immediately runs fn once before waiting for the first interval.
func Immediately() Option {
	return func(o *options) { o.immediate = true }
}

// Every calls fn on each interval until ctx is cancelled or Stop is called.
// Calls never overlap: a slow fn delays the next tick instead of stacking.
func Every(ctx context.Context, interval time.Duration, fn func(context.Context), opts ...Option) *Task {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(ctx)
	t := &Task{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(t.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		if o.immediate {
			fn(ctx)
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn(ctx)
			}
		}
	}()
	return t
}

// Stop cancels the task and waits for an in-flight call to return. It is
// safe to call more than once.
func (t *Task) Stop() {
	t.once.Do(t.cancel)
	<-t.done
}

// Done is closed once the task goroutine has exited.
func (t *Task) Done() <-chan struct{} {
	return t.done
}
