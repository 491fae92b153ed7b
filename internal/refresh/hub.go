// Package refresh pushes "state changed" events to connected UIs over
// WebSocket so a surface can re-render the booking views after a save.
package refresh

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kawaclinic/appointment-desk/pkg/logging"
	"golang.org/x/net/websocket"
)

// Event is what the hub sends to every connected client.
type Event struct {
	Type string `json:"type"`
	At   string `json:"at"`
}

// EventBookingsChanged is broadcast after every successful append.
const EventBookingsChanged = "bookings_changed"

// Hub tracks active WebSocket connections and broadcasts change events.
type Hub struct {
	logger *logging.Logger

	mu    sync.RWMutex
	conns map[string]*websocket.Conn
}

// NewHub creates an empty hub.
func NewHub(logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Default()
	}
	return &Hub{
		logger: logger,
		conns:  make(map[string]*websocket.Conn),
	}
}

// HandleWebSocket upgrades the request and keeps the connection registered
// until the client goes away. Clients never send anything meaningful; the
// channel exists for server-to-client refresh pushes.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serve(conn)
	}).ServeHTTP(w, r)
}

func (h *Hub) serve(conn *websocket.Conn) {
	id := uuid.NewString()

	h.mu.Lock()
	h.conns[id] = conn
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		delete(h.conns, id)
		h.mu.Unlock()
	}()

	h.logger.Debug("refresh: client connected", "client_id", id)

	// Block until the client disconnects; inbound frames are drained and
	// ignored.
	for {
		var discard map[string]any
		if err := websocket.JSON.Receive(conn, &discard); err != nil {
			h.logger.Debug("refresh: client disconnected", "client_id", id, "error", err)
			return
		}
	}
}

// Broadcast notifies every connected client that the bookings changed.
// Connections that fail to receive are dropped.
func (h *Hub) Broadcast() {
	evt := Event{
		Type: EventBookingsChanged,
		At:   time.Now().UTC().Format(time.RFC3339),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, conn := range h.conns {
		if err := websocket.JSON.Send(conn, evt); err != nil {
			h.logger.Debug("refresh: dropping dead connection", "client_id", id, "error", err)
			conn.Close()
			delete(h.conns, id)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}
