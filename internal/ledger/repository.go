package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"coinvault/internal/models"
	"coinvault/internal/store"
)

var errEmptyLedger = errors.New("ledger is empty")

// Repository loads the persisted ledger, generating and saving it the first
// time. A stored value that fails to decode or validate is replaced by a
// fresh ledger.
type Repository struct {
	kv        store.KV
	codec     Codec
	key       string
	generator *Generator
	now       func() time.Time

	mu     sync.Mutex
	ledger models.Ledger
	loaded bool
}

type RepositoryOption func(*Repository)

// WithClock overrides the time used to bound generation.
func WithClock(now func() time.Time) RepositoryOption {
	return func(r *Repository) { r.now = now }
}

func NewRepository(kv store.KV, codec Codec, key string, g *Generator, opts ...RepositoryOption) *Repository {
	r := &Repository{
		kv:        kv,
		codec:     codec,
		key:       key,
		generator: g,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LoadOrGenerate returns the ledger, reading the store at most once per
// repository.
func (r *Repository) LoadOrGenerate(ctx context.Context) (models.Ledger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded {
		return r.ledger, nil
	}

	data, err := r.kv.Get(ctx, r.key)
	switch {
	case err == nil:
		l, decodeErr := r.codec.Decode(data)
		if decodeErr == nil {
			decodeErr = r.validate(l)
		}
		if decodeErr == nil {
			r.ledger, r.loaded = l, true
			return l, nil
		}
		logx.WithContext(ctx).Errorf("ledger: stored %s is invalid, regenerating: %v", r.key, decodeErr)
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	l := r.generator.Generate(r.now())
	encoded, err := r.codec.Encode(l)
	if err != nil {
		return nil, fmt.Errorf("encode ledger: %w", err)
	}
	if err := r.kv.Set(ctx, r.key, encoded); err != nil {
		return nil, fmt.Errorf("save ledger: %w", err)
	}
	logx.WithContext(ctx).Infof("ledger: generated %d transactions since %s", len(l), r.generator.Start.Format(time.DateOnly))

	r.ledger, r.loaded = l, true
	return l, nil
}

// validate rejects decoded ledgers that the generator could never have
// produced. An empty ledger is only valid before the first generated day.
func (r *Repository) validate(l models.Ledger) error {
	if len(l) == 0 {
		if day(r.now()).Before(day(r.generator.Start)) {
			return nil
		}
		return errEmptyLedger
	}
	for i, tx := range l {
		switch {
		case tx.ID == "":
			return fmt.Errorf("transaction %d: missing id", i)
		case tx.Direction != models.DirectionReceive && tx.Direction != models.DirectionSend:
			return fmt.Errorf("transaction %s: unknown direction %q", tx.ID, tx.Direction)
		case tx.Amount <= 0:
			return fmt.Errorf("transaction %s: non-positive amount %v", tx.ID, tx.Amount)
		case tx.Timestamp.IsZero() || tx.Timestamp.Unix() == 0:
			return fmt.Errorf("transaction %s: missing timestamp", tx.ID)
		}
	}
	return nil
}

// Reset deletes the stored ledger so the next load generates a new one.
func (r *Repository) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.kv.Delete(ctx, r.key); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("reset ledger: %w", err)
	}
	r.ledger, r.loaded = nil, false
	return nil
}
