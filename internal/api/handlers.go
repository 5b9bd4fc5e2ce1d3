package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"coinvault/internal/models"
	"coinvault/internal/valuation"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"prices":       s.wallet.Prices.State().Status,
		"wsClients":    s.hub.ClientCount(),
		"ledgerSymbol": s.ledgerSymbol,
	})
}

func (s *Server) handleListAssets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.wallet.Catalog)
}

// handleAddress returns the bare receive address so a client can copy it
// straight to the clipboard.
func (s *Server) handleAddress(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(strings.TrimSpace(mux.Vars(r)["symbol"]))
	asset, ok := s.wallet.Catalog.Lookup(symbol)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "asset not found"})
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(asset.Address))
}

func (s *Server) handleHoldings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.CurrentHoldings())
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dash, status, _ := s.BuildDashboard(r.Context())
	switch status {
	case models.StatusLoading:
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": string(status), "error": msgLoadingPrices})
	case models.StatusError:
		writeJSON(w, http.StatusBadGateway, map[string]string{"status": string(status), "error": msgPricesFailed})
	default:
		writeJSON(w, http.StatusOK, dash)
	}
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	views, priced, err := s.BuildHistory(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a non-negative integer"})
			return
		}
		if limit < len(views) {
			views = views[:limit]
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"symbol":         s.ledgerSymbol,
		"priceAvailable": priced,
		"transactions":   views,
	})
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Symbol  string  `json:"symbol"`
		Address string  `json:"address"`
		Amount  float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	req.Address = strings.TrimSpace(req.Address)
	if _, ok := s.wallet.Catalog.Lookup(req.Symbol); !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown asset"})
		return
	}
	if req.Address == "" || req.Amount <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid send payload"})
		return
	}
	if req.Amount > s.holdingQuantity(req.Symbol) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "insufficient balance"})
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"status":    "demo",
		"submitted": false,
		"symbol":    req.Symbol,
		"address":   req.Address,
		"amount":    req.Amount,
	})
}

func (s *Server) handleBuyQuote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Symbol string  `json:"symbol"`
		USD    float64 `json:"usd"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	asset, ok := s.wallet.Catalog.Lookup(req.Symbol)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown asset"})
		return
	}
	if req.USD <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "usd must be positive"})
		return
	}

	state := s.wallet.Prices.State()
	quote := state.Snapshot.Quote(asset.FeedID)
	qty, ok := valuation.QuantityFor(req.USD, quote)
	if state.Status != models.StatusReady || !ok {
		writeError(w, http.StatusServiceUnavailable, errors.New("no price available for "+asset.Symbol))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"symbol":   asset.Symbol,
		"usd":      req.USD,
		"priceUsd": quote.PriceUSD,
		"quantity": qty,
	})
}

func (s *Server) holdingQuantity(symbol string) float64 {
	for _, h := range s.CurrentHoldings() {
		if h.Symbol == symbol {
			return h.Quantity
		}
	}
	return 0
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
