package ledger

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coinvault/internal/models"
	"coinvault/internal/store"
)

func TestGenerateThreeDayScenario(t *testing.T) {
	now := time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)
	l := NewGenerator(DefaultStart, 42).Generate(now)

	days := CountByDay(l)
	assert.Len(t, days, 3)
	for _, k := range []string{"2025-03-01", "2025-03-02", "2025-03-03"} {
		c, ok := days[k]
		require.True(t, ok, "missing day %s", k)
		assert.GreaterOrEqual(t, c.Total, 3, k)
		assert.LessOrEqual(t, c.Total, 5, k)
		assert.GreaterOrEqual(t, c.Receives, 3, k)
	}
}

func TestGenerateInvariantsOverLongRange(t *testing.T) {
	now := time.Date(2025, 10, 16, 8, 30, 0, 0, time.UTC)
	for seed := uint64(1); seed <= 5; seed++ {
		l := NewGenerator(DefaultStart, seed).Generate(now)

		days := CountByDay(l)
		wantDays := int(now.Sub(DefaultStart).Hours()/24) + 1
		require.Len(t, days, wantDays)
		for k, c := range days {
			assert.True(t, c.Total >= 3 && c.Total <= 5, "day %s has %d txs", k, c.Total)
			assert.GreaterOrEqual(t, c.Receives, 3, "day %s", k)
		}

		ids := make(map[string]bool, len(l))
		for i, tx := range l {
			if i > 0 {
				assert.False(t, tx.Timestamp.After(l[i-1].Timestamp), "ledger not newest first at %d", i)
			}
			assert.False(t, ids[tx.ID], "duplicate id %s", tx.ID)
			ids[tx.ID] = true
			assert.GreaterOrEqual(t, tx.Amount, 0.0005)
			assert.LessOrEqual(t, tx.Amount, 0.0055)
			assert.Zero(t, tx.Timestamp.Second())
			assert.Regexp(t, `^bc1[a-z0-9]{3}\.\.\.[a-z0-9]{3}$`, tx.Counterparty)
		}
	}
}

func TestGenerateAmountsHaveFourDecimals(t *testing.T) {
	l := NewGenerator(DefaultStart, 7).Generate(DefaultStart.AddDate(0, 0, 30))
	for _, tx := range l {
		scaled := tx.Amount * 10000
		assert.InDelta(t, float64(int64(scaled+0.5)), scaled, 1e-6, "amount %v", tx.Amount)
	}
}

func TestGenerateIsReproducibleForSeed(t *testing.T) {
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	a := NewGenerator(DefaultStart, 99).Generate(now)
	b := NewGenerator(DefaultStart, 99).Generate(now)
	assert.Equal(t, a, b)
}

func TestGenerateBeforeStartIsEmpty(t *testing.T) {
	l := NewGenerator(DefaultStart, 1).Generate(DefaultStart.AddDate(0, 0, -1))
	assert.Empty(t, l)
}

func TestCodecRoundTrip(t *testing.T) {
	l := NewGenerator(DefaultStart, 3).Generate(time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC))
	for _, codec := range []Codec{JSONCodec{}, MsgpackCodec{}} {
		t.Run(codec.Name(), func(t *testing.T) {
			data, err := codec.Encode(l)
			require.NoError(t, err)
			got, err := codec.Decode(data)
			require.NoError(t, err)
			assert.Equal(t, l, got)
		})
	}
}

func TestJSONCodecStoredShape(t *testing.T) {
	l := models.Ledger{{
		ID:           "tx1",
		Direction:    models.DirectionReceive,
		Amount:       0.0012,
		Counterparty: "bc1abc...xyz",
		Timestamp:    time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC),
	}}
	data, err := JSONCodec{}.Encode(l)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"tx1","type":"receive","amount":0.0012,"counterparty":"bc1abc...xyz","timestamp":1740825000000}]`, string(data))
}

func TestCodecByName(t *testing.T) {
	c, err := CodecByName("msgpack")
	require.NoError(t, err)
	assert.Equal(t, "msgpack", c.Name())

	_, err = CodecByName("gob")
	assert.Error(t, err)
}

func TestLoadOrGenerateSavesOnce(t *testing.T) {
	kv := store.NewMemoryStore()
	now := func() time.Time { return time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	first, err := NewRepository(kv, JSONCodec{}, "btcTxs", NewGenerator(DefaultStart, 1), WithClock(now)).LoadOrGenerate(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	// A differently seeded generator must not be consulted once data exists.
	second, err := NewRepository(kv, JSONCodec{}, "btcTxs", NewGenerator(DefaultStart, 2), WithClock(now)).LoadOrGenerate(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLoadOrGenerateRegeneratesCorruptData(t *testing.T) {
	kv := store.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, "btcTxs", []byte("{not json")))

	repo := NewRepository(kv, JSONCodec{}, "btcTxs", NewGenerator(DefaultStart, 1),
		WithClock(func() time.Time { return time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC) }))
	l, err := repo.LoadOrGenerate(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, l)

	stored, err := kv.Get(ctx, "btcTxs")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(stored), "["), "corrupt value was not replaced")
}

func TestLoadOrGenerateRegeneratesInvalidRecords(t *testing.T) {
	now := func() time.Time { return time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC) }
	cases := map[string]string{
		"null":         `null`,
		"empty list":   `[]`,
		"blank record": `[{}]`,
		"unknown type": `[{"id":"tx1","type":"mint","amount":0.001,"counterparty":"bc1abc...xyz","timestamp":1740787200000}]`,
		"zero amount":  `[{"id":"tx1","type":"receive","amount":0,"counterparty":"bc1abc...xyz","timestamp":1740787200000}]`,
		"missing id":   `[{"type":"send","amount":0.001,"counterparty":"bc1abc...xyz","timestamp":1740787200000}]`,
		"missing time": `[{"id":"tx1","type":"send","amount":0.001,"counterparty":"bc1abc...xyz"}]`,
	}
	for name, stored := range cases {
		t.Run(name, func(t *testing.T) {
			kv := store.NewMemoryStore()
			ctx := context.Background()
			require.NoError(t, kv.Set(ctx, "btcTxs", []byte(stored)))

			l, err := NewRepository(kv, JSONCodec{}, "btcTxs", NewGenerator(DefaultStart, 1), WithClock(now)).LoadOrGenerate(ctx)
			require.NoError(t, err)
			days := CountByDay(l)
			require.Len(t, days, 2)
			for _, tx := range l {
				assert.NotEmpty(t, tx.ID)
				assert.Greater(t, tx.Amount, 0.0)
			}

			saved, err := kv.Get(ctx, "btcTxs")
			require.NoError(t, err)
			reloaded, err := JSONCodec{}.Decode(saved)
			require.NoError(t, err)
			assert.Len(t, reloaded, len(l))
		})
	}
}

func TestLoadOrGenerateKeepsEmptyLedgerBeforeStart(t *testing.T) {
	kv := store.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, "btcTxs", []byte(`[]`)))

	now := func() time.Time { return DefaultStart.AddDate(0, 0, -1) }
	l, err := NewRepository(kv, JSONCodec{}, "btcTxs", NewGenerator(DefaultStart, 1), WithClock(now)).LoadOrGenerate(ctx)
	require.NoError(t, err)
	assert.Empty(t, l)

	saved, err := kv.Get(ctx, "btcTxs")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(saved))
}

type failingKV struct{ store.KV }

func (failingKV) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}

func TestLoadOrGeneratePropagatesStoreErrors(t *testing.T) {
	repo := NewRepository(failingKV{}, JSONCodec{}, "btcTxs", NewGenerator(DefaultStart, 1))
	_, err := repo.LoadOrGenerate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestResetForcesRegeneration(t *testing.T) {
	kv := store.NewMemoryStore()
	ctx := context.Background()
	now := func() time.Time { return time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC) }
	repo := NewRepository(kv, JSONCodec{}, "btcTxs", NewGenerator(DefaultStart, 1), WithClock(now))

	_, err := repo.LoadOrGenerate(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.Reset(ctx))

	_, err = kv.Get(ctx, "btcTxs")
	assert.ErrorIs(t, err, store.ErrNotFound)

	l, err := repo.LoadOrGenerate(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, l)
}

func TestRecent(t *testing.T) {
	l := models.Ledger{{ID: "tx3"}, {ID: "tx2"}, {ID: "tx1"}}
	assert.Len(t, Recent(l, 2), 2)
	assert.Len(t, Recent(l, 10), 3)
	assert.Empty(t, Recent(l, -1))
}
