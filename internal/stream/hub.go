package stream

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Event is one push to the dashboard: a full snapshot of whatever changed.
// Snapshots replace, never patch, so a client that missed events is still
// correct after the next one.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub fans dashboard events out to connected clients. Connections are keyed
// by a per-connection UUID so one browser can hold several tabs.
type Hub struct {
	connections map[string]*websocket.Conn
	mutex       sync.RWMutex
	log         zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		connections: make(map[string]*websocket.Conn),
		log:         log.With().Str("component", "stream").Logger(),
	}
}

func (h *Hub) Register(id string, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if old, exists := h.connections[id]; exists && old != nil {
		_ = old.Close()
	}
	h.connections[id] = conn
}

func (h *Hub) Unregister(id string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if conn, exists := h.connections[id]; exists && conn != nil {
		_ = conn.Close()
		delete(h.connections, id)
	}
}

// Broadcast pushes the event to every connection, dropping the ones whose
// write fails.
func (h *Hub) Broadcast(event Event) {
	h.mutex.RLock()
	conns := make(map[string]*websocket.Conn, len(h.connections))
	for id, conn := range h.connections {
		conns[id] = conn
	}
	h.mutex.RUnlock()

	for id, conn := range conns {
		if err := conn.WriteJSON(event); err != nil {
			h.log.Debug().Str("conn", id).Err(err).Msg("dropping dead connection")
			h.Unregister(id)
		}
	}
}

// SendTo pushes the event to a single connection. Returns false when the
// connection is gone or its write failed.
func (h *Hub) SendTo(id string, event Event) bool {
	h.mutex.RLock()
	conn, exists := h.connections[id]
	h.mutex.RUnlock()

	if !exists || conn == nil {
		return false
	}
	if err := conn.WriteJSON(event); err != nil {
		h.Unregister(id)
		return false
	}
	return true
}

func (h *Hub) Count() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.connections)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for id, conn := range h.connections {
		if conn != nil {
			_ = conn.Close()
		}
		delete(h.connections, id)
	}
}
