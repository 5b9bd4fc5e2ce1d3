package api

import (
	"context"
	"errors"

	"github.com/zeromicro/go-zero/core/logx"

	"coinvault/internal/ledger"
	"coinvault/internal/models"
	"coinvault/internal/present"
	"coinvault/internal/valuation"
)

var (
	errLoadingPrices = errors.New("prices are still loading")
	errPricesFailed  = errors.New("price feed unavailable")
)

// Messages shown in place of the dashboard.
const (
	msgLoadingPrices = "Loading prices..."
	msgPricesFailed  = "Failed to load prices"
)

// CurrentHoldings returns the configured holdings with the accruing quantity
// applied.
func (s *Server) CurrentHoldings() []models.Holding {
	if s.wallet.Accrual == nil {
		return s.wallet.Holdings
	}
	return valuation.WithOverride(s.wallet.Holdings, s.wallet.Accrual.Symbol(), s.wallet.Accrual.Quantity())
}

// BuildDashboard values the wallet against the dashboard feed. It returns a
// non-ready status, and no dashboard, until a first snapshot exists.
func (s *Server) BuildDashboard(ctx context.Context) (models.Dashboard, models.FeedStatus, error) {
	state := s.wallet.Prices.State()
	switch state.Status {
	case models.StatusLoading:
		return models.Dashboard{}, models.StatusLoading, errLoadingPrices
	case models.StatusError:
		return models.Dashboard{}, models.StatusError, errPricesFailed
	}

	now := s.wallet.Now()
	portfolio := valuation.Value(s.wallet.Catalog, s.CurrentHoldings(), state.Snapshot)
	out := models.Dashboard{
		Portfolio:    portfolio,
		TotalDisplay: present.USD(portfolio.TotalUSD),
		Stale:        state.Stale,
		FetchedAt:    state.Snapshot.FetchedAt,
		Recent:       []models.TransactionView{},
		UpdatedAt:    now.UTC(),
	}

	l, err := s.wallet.Ledger.LoadOrGenerate(ctx)
	if err != nil {
		logx.WithContext(ctx).Errorf("dashboard: load ledger: %v", err)
		return out, models.StatusReady, nil
	}
	price := state.Snapshot.Quote(s.wallet.HistoryFeedID).PriceUSD
	out.Recent = present.TransactionViews(ledger.Recent(l, s.wallet.RecentCount), s.ledgerSymbol, price, now)
	return out, models.StatusReady, nil
}

// historyPrice reads the history feed. Any non-ready state, or a zero price,
// counts as unavailable.
func (s *Server) historyPrice() (float64, bool) {
	if s.wallet.HistoryPrice == nil {
		return 0, false
	}
	state := s.wallet.HistoryPrice.State()
	if state.Status != models.StatusReady {
		return 0, false
	}
	price := state.Snapshot.Quote(s.wallet.HistoryFeedID).PriceUSD
	return price, price > 0
}

// BuildHistory returns the full ledger valued at the history price. A price
// failure never fails the view.
func (s *Server) BuildHistory(ctx context.Context) ([]models.TransactionView, bool, error) {
	l, err := s.wallet.Ledger.LoadOrGenerate(ctx)
	if err != nil {
		return nil, false, err
	}
	price, ok := s.historyPrice()
	return present.TransactionViews(l, s.ledgerSymbol, price, s.wallet.Now()), ok, nil
}
