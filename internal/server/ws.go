package server

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/engine"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local-only surface
	},
}

// EventHub fans gesture events out to connected WebSocket clients. Slow
// clients are disconnected rather than allowed to back up the pipeline.
type EventHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]chan engine.Event
}

// NewEventHub creates an empty hub.
func NewEventHub() *EventHub {
	return &EventHub{
		clients: make(map[*websocket.Conn]chan engine.Event),
	}
}

// Publish delivers an event to every connected client. It never blocks: a
// client whose send buffer is full misses the event.
func (h *EventHub) Publish(ev engine.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.clients {
		select {
		case ch <- ev:
		default:
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *EventHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *EventHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	ch := make(chan engine.Event, 32)

	h.mu.Lock()
	h.clients[conn] = ch
	h.mu.Unlock()

	go h.writeLoop(conn, ch)

	// Drain reads to detect disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(conn)
	conn.Close()
}

func (h *EventHub) writeLoop(conn *websocket.Conn, ch chan engine.Event) {
	for ev := range ch {
		if err := conn.WriteJSON(ev); err != nil {
			h.remove(conn)
			conn.Close()
			return
		}
	}
}

func (h *EventHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(ch)
	}
}
