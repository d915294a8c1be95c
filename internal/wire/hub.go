package wire

import (
	"sync"

	"github.com/gorilla/websocket"

	"github.com/sensorstreamkit/pubsub-smoke-tests/framework"
)

// Hub tracks subscriber connections and fans messages out to all of them. Writes are
// serialized under the hub lock because gorilla connections do not allow concurrent
// writers.
type Hub struct {
	mu     sync.Mutex
	conns  map[*websocket.Conn]struct{}
	logger framework.Logger
}

func NewHub(logger framework.Logger) *Hub {
	if logger == nil {
		logger = framework.NullLogger()
	}
	return &Hub{conns: make(map[*websocket.Conn]struct{}), logger: logger}
}

func (h *Hub) Add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = struct{}{}
	h.logger.Printf("subscriber connected from %s", conn.RemoteAddr())
}

func (h *Hub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
	_ = conn.Close()
	h.logger.Printf("subscriber disconnected from %s", conn.RemoteAddr())
}

// Broadcast delivers one message to every connected subscriber and reports how many
// subscribers received it.
func (h *Hub) Broadcast(message []byte) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	delivered := 0
	for conn := range h.conns {
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			h.logger.Printf("write to subscriber %s failed: %s", conn.RemoteAddr(), err)
			continue
		}
		delivered++
	}
	return delivered
}

func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}
