package ws

import (
	"context"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// broadcastBuffer bounds how many events may wait for the Run loop
const broadcastBuffer = 256

// Conn is the part of a websocket connection the hub writes to
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type Hub struct {
	Clients    map[Conn]bool
	Register   chan Conn
	Unregister chan Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
	logger     *zap.Logger
	done       chan struct{}
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		Clients:    make(map[Conn]bool),
		Register:   make(chan Conn),
		Unregister: make(chan Conn),
		Broadcast:  make(chan []byte, broadcastBuffer),
		logger:     logger.Named("ws"),
		done:       make(chan struct{}),
	}
}

// Join registers conn. It returns false once the hub has stopped.
func (h *Hub) Join(conn Conn) bool {
	select {
	case h.Register <- conn:
		return true
	case <-h.done:
		return false
	}
}

// Leave unregisters conn; after the hub has stopped it is a no-op
func (h *Hub) Leave(conn Conn) {
	select {
	case h.Unregister <- conn:
	case <-h.done:
	}
}

// Publish queues message for every client. It never blocks; when the queue
// is full the event is dropped.
func (h *Hub) Publish(message []byte) {
	select {
	case h.Broadcast <- message:
	default:
		h.logger.Warn("broadcast queue full, dropping event", zap.Int("bytes", len(message)))
	}
}

// ClientCount reports the number of connected clients
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

// Run dispatches registrations and broadcasts until ctx is done, then
// closes every remaining client
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for conn := range h.Clients {
				conn.Close()
				delete(h.Clients, conn)
			}
			h.mutex.Unlock()
			return

		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			total := len(h.Clients)
			h.mutex.Unlock()
			h.logger.Info("client connected", zap.Int("clients", total))

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					h.logger.Debug("dropping client after write error", zap.Error(err))
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}
