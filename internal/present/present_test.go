package present

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coinvault/internal/models"
)

func TestUSD(t *testing.T) {
	assert.Equal(t, "$43,300.00", USD(43300))
	assert.Equal(t, "$0.06", USD(0.055))
	assert.Equal(t, "$0.00", USD(0))
}

func TestChange(t *testing.T) {
	assert.Equal(t, "+1.25%", Change(1.25))
	assert.Equal(t, "-0.50%", Change(-0.5))
	assert.Equal(t, "+0.00%", Change(0))
}

func TestLabels(t *testing.T) {
	in := models.Transaction{Direction: models.DirectionReceive, Amount: 0.0012, Counterparty: "bc1abc...xyz"}
	out := models.Transaction{Direction: models.DirectionSend, Amount: 0.003, Counterparty: "bc1def...uvw"}

	assert.Equal(t, "Received BTC", TxLabel(in, "BTC"))
	assert.Equal(t, "+0.0012 BTC", AmountLabel(in, "BTC"))
	assert.Equal(t, "from bc1abc...xyz", CounterpartyLabel(in))
	assert.Equal(t, "Sent BTC", TxLabel(out, "BTC"))
	assert.Equal(t, "-0.003 BTC", AmountLabel(out, "BTC"))
	assert.Equal(t, "to bc1def...uvw", CounterpartyLabel(out))
}

func TestRelative(t *testing.T) {
	now := time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "3 hours ago", Relative(now.Add(-3*time.Hour), now))
}

func TestTransactionViewsWithAndWithoutPrice(t *testing.T) {
	now := time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)
	l := models.Ledger{{ID: "tx1", Direction: models.DirectionReceive, Amount: 0.002, Timestamp: now.Add(-time.Hour)}}

	priced := TransactionViews(l, "BTC", 50000, now)
	require.Len(t, priced, 1)
	require.NotNil(t, priced[0].FiatUSD)
	assert.Equal(t, 100.0, *priced[0].FiatUSD)
	assert.Equal(t, "$100.00", priced[0].FiatDisplay)

	unpriced := TransactionViews(l, "BTC", 0, now)
	assert.Nil(t, unpriced[0].FiatUSD)
	assert.Equal(t, Unavailable, unpriced[0].FiatDisplay)
}

func TestDashboardMarkdown(t *testing.T) {
	md := DashboardMarkdown(models.Dashboard{
		Portfolio: models.PortfolioValuation{
			TotalUSD: 43300,
			Assets: []models.AssetValuation{
				{Asset: models.Asset{Symbol: "BTC", Name: "Bitcoin"}, Quantity: 0.8, FiatUSD: 40000, Change24h: 1.5},
			},
		},
	})
	assert.Contains(t, md, "Total Balance $43,300.00")
	assert.Contains(t, md, "| Bitcoin | 0.8 BTC | $40,000.00 | +1.50% |")
	assert.NotContains(t, md, "## Transactions")
}

func TestRenderNoTTY(t *testing.T) {
	out, err := Render(HistoryMarkdown("Bitcoin Transaction History", nil), "notty")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "Bitcoin Transaction History"))
}
