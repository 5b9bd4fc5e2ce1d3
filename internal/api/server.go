package api

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/zeromicro/go-zero/core/logx"

	"coinvault/internal/market"
	"coinvault/internal/models"
	"coinvault/internal/realtime"
)

type PriceFeed interface {
	State() market.State
}

type LedgerSource interface {
	LoadOrGenerate(ctx context.Context) (models.Ledger, error)
}

// Accrual is a holding whose quantity changes over the process lifetime.
type Accrual interface {
	Symbol() string
	Quantity() float64
}

// Wallet groups what the views read. Prices drives the dashboard and
// HistoryPrice the transaction history.
type Wallet struct {
	Catalog       models.Catalog
	Holdings      []models.Holding
	Prices        PriceFeed
	HistoryPrice  PriceFeed
	HistoryFeedID string
	Ledger        LedgerSource
	Accrual       Accrual
	RecentCount   int
	Now           func() time.Time
}

type Server struct {
	wallet       Wallet
	ledgerSymbol string
	hub          *realtime.Hub
	router       *mux.Router
	upgrader     websocket.Upgrader
}

type ServerOption func(*Server)

// WithStaticDir serves a built single-page frontend from dir for every path
// that is not an API route.
func WithStaticDir(dir string) ServerOption {
	return func(s *Server) {
		if dir == "" {
			return
		}
		s.router.PathPrefix("/").Handler(spaHandler{staticPath: dir, indexPath: "index.html"})
	}
}

func NewServer(w Wallet, hub *realtime.Hub, opts ...ServerOption) *Server {
	if w.Now == nil {
		w.Now = time.Now
	}
	if w.RecentCount <= 0 {
		w.RecentCount = 4
	}
	server := &Server{
		wallet: w,
		hub:    hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	server.ledgerSymbol = "BTC"
	for _, a := range w.Catalog {
		if a.FeedID == w.HistoryFeedID {
			server.ledgerSymbol = a.Symbol
		}
	}

	r := mux.NewRouter()
	r.Use(requestIDMiddleware, accessLogMiddleware, corsMiddleware)

	r.HandleFunc("/api/health", server.handleHealth).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/assets", server.handleListAssets).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/assets/{symbol}/address", server.handleAddress).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/holdings", server.handleHoldings).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/dashboard", server.handleDashboard).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/transactions", server.handleTransactions).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/send", server.handleSend).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/api/buy/quote", server.handleBuyQuote).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/ws", server.handleWebSocket).Methods(http.MethodGet)

	server.router = r
	for _, opt := range opts {
		opt(server)
	}
	return server
}

type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join(h.staticPath, filepath.Clean("/"+r.URL.Path))
	fi, err := os.Stat(path)
	if os.IsNotExist(err) || (err == nil && fi.IsDir()) {
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// LedgerSymbol is the asset the transaction history is denominated in.
func (s *Server) LedgerSymbol() string {
	return s.ledgerSymbol
}

// BroadcastDashboard pushes the current dashboard, or its loading/error
// status, to every websocket client.
func (s *Server) BroadcastDashboard(ctx context.Context) {
	s.hub.Broadcast(s.dashboardEvent(ctx))
}

// BroadcastHistoryPrice pushes the history view's current price.
func (s *Server) BroadcastHistoryPrice() {
	price, ok := s.historyPrice()
	data := map[string]any{"feedId": s.wallet.HistoryFeedID, "available": ok}
	if ok {
		data["priceUsd"] = price
	}
	s.hub.Broadcast(realtime.Event{Type: realtime.EventHistoryPrice, Data: data})
}

func (s *Server) dashboardEvent(ctx context.Context) realtime.Event {
	dash, status, err := s.BuildDashboard(ctx)
	if status != models.StatusReady {
		data := map[string]string{"status": string(status)}
		if err != nil {
			data["error"] = err.Error()
		}
		return realtime.Event{Type: realtime.EventStatus, Data: data}
	}
	return realtime.Event{Type: realtime.EventDashboard, Data: dash}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.hub.AddClient(conn)

	if err := s.hub.Send(conn, s.dashboardEvent(r.Context())); err != nil {
		logx.WithContext(r.Context()).Errorf("ws: initial dashboard: %v", err)
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.hub.RemoveClient(conn)
			return
		}
	}
}
