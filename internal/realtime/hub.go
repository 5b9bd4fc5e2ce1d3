package realtime

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/zeromicro/go-zero/core/logx"
)

const writeWait = 5 * time.Second

var ErrClientGone = errors.New("realtime: client not registered")

// Event is the envelope pushed to websocket clients.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

const (
	EventDashboard    = "dashboard"
	EventStatus       = "status"
	EventHistoryPrice = "history_price"
)

type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]*sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*sync.Mutex)}
}

func (h *Hub) AddClient(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = &sync.Mutex{}
	h.mu.Unlock()
}

func (h *Hub) RemoveClient(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	h.mu.Unlock()
	if ok {
		_ = conn.Close()
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Send writes one event to conn. gorilla connections allow a single
// concurrent writer, so writes are serialized per client and refused once
// the client has been removed.
func (h *Hub) Send(conn *websocket.Conn, ev Event) error {
	h.mu.RLock()
	lock, ok := h.clients[conn]
	h.mu.RUnlock()
	if !ok {
		return ErrClientGone
	}

	lock.Lock()
	defer lock.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(ev)
}

func (h *Hub) Broadcast(ev Event) {
	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		clients = append(clients, conn)
	}
	h.mu.RUnlock()

	for _, conn := range clients {
		if err := h.Send(conn, ev); err != nil {
			if errors.Is(err, ErrClientGone) {
				continue
			}
			logx.Errorf("realtime: drop client %s: %v", conn.RemoteAddr(), err)
			h.RemoveClient(conn)
		}
	}
}
