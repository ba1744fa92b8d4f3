package monitoring

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is one entry-lifecycle notification pushed to connected manager
// dashboards.
type Event struct {
	Type       string      `json:"type"` // 'entry.created', 'entry.updated', 'entry.completed', 'entry.deleted'
	EmployeeID string      `json:"employee_id"`
	EntryID    int         `json:"entry_id"`
	Payload    interface{} `json:"payload,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}

// Hub fans entry lifecycle events out to websocket subscribers. Slow or dead
// connections are dropped rather than blocking the broadcast loop.
type Hub struct {
	clients    map[*websocket.Conn]bool
	clientsMux sync.Mutex
	broadcast  chan Event
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan Event, 64),
	}
}

// Run consumes the broadcast channel until it is closed. Call in a goroutine.
func (h *Hub) Run() {
	for event := range h.broadcast {
		h.clientsMux.Lock()
		for conn := range h.clients {
			conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteJSON(event); err != nil {
				log.Printf("[Hub] dropping client: %v", err)
				conn.Close()
				delete(h.clients, conn)
			}
		}
		h.clientsMux.Unlock()
	}
}

// Register adds a websocket connection to the broadcast set.
func (h *Hub) Register(conn *websocket.Conn) {
	h.clientsMux.Lock()
	h.clients[conn] = true
	h.clientsMux.Unlock()
}

// Unregister removes and closes a websocket connection.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.clientsMux.Lock()
	if h.clients[conn] {
		conn.Close()
		delete(h.clients, conn)
	}
	h.clientsMux.Unlock()
}

// Publish enqueues an event without blocking; events are dropped when the
// buffer is full. Safe to call on a nil hub.
func (h *Hub) Publish(event Event) {
	if h == nil {
		return
	}
	event.Timestamp = time.Now()
	select {
	case h.broadcast <- event:
	default:
	}
}
