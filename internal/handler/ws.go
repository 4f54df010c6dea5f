package handler

import (
	"net/http"
	"sync"

	"github.com/flyagencia/salesops/internal/infra/observability"
	"github.com/flyagencia/salesops/internal/port"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// BoardHub keeps the set of connected dashboard sockets and pushes
// board events to all of them. It implements port.BoardNotifier.
type BoardHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewBoardHub creates an empty hub.
func NewBoardHub(metrics *observability.Metrics, logger *zap.Logger) *BoardHub {
	return &BoardHub{
		clients: make(map[*websocket.Conn]bool),
		metrics: metrics,
		logger:  logger,
	}
}

// Broadcast sends an event to every connected client. Clients whose
// write fails are dropped.
func (h *BoardHub) Broadcast(event port.BoardEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		if err := client.WriteJSON(event); err != nil {
			client.Close()
			delete(h.clients, client)
		}
	}
	h.metrics.SetWSClients(len(h.clients))
}

// ServeHTTP upgrades the connection and keeps it registered until the
// client disconnects. Inbound messages are ignored; the socket is a
// one-way push channel.
func (h *BoardHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.metrics.SetWSClients(len(h.clients))
	h.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, conn)
	h.metrics.SetWSClients(len(h.clients))
	h.mu.Unlock()
}
