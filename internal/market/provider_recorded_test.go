package market

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/dnaeon/go-vcr/recorder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Replays a recorded CoinGecko call. Skips when the cassette is absent unless
// RECORD_CASSETTES=1, in which case it hits the live API and records it.
func TestCoinGecko_Fetch_Recorded(t *testing.T) {
	cassette := filepath.Join("testdata", "cassettes", "coingecko_simple_price")
	if _, err := os.Stat(cassette + ".yaml"); os.IsNotExist(err) {
		if os.Getenv("RECORD_CASSETTES") != "1" {
			t.Skipf("cassette missing; set RECORD_CASSETTES=1 to record: %s", cassette)
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(cassette), 0o755))
	}

	r, err := recorder.New(cassette)
	require.NoError(t, err)
	defer func() { _ = r.Stop() }()

	client := NewCoinGecko(WithHTTPClient(&http.Client{Transport: r}))
	snap, err := client.Fetch(context.Background(), []string{"bitcoin", "ethereum"})
	require.NoError(t, err)
	assert.Greater(t, snap.Quote("bitcoin").PriceUSD, 0.0)
	assert.Greater(t, snap.Quote("ethereum").PriceUSD, 0.0)
}
