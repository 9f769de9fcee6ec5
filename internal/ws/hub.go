package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"go-portfolio-api/internal/events"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Hub fans product events out to every connected websocket client.
type Hub struct {
	clients    map[Conn]bool
	register   chan Conn
	unregister chan Conn
	broadcast  chan []byte
	done       chan struct{}
	mutex      sync.Mutex
	logger     zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[Conn]bool),
		register:   make(chan Conn),
		unregister: make(chan Conn),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		logger:     logger.With().Str("component", "ws-hub").Logger(),
	}
}

// Run serves registrations and broadcasts until ctx is done, then closes all clients.
// Joins and leaves after that return immediately.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			h.mutex.Unlock()
			return

		case conn := <-h.register:
			h.mutex.Lock()
			h.clients[conn] = true
			h.mutex.Unlock()
			h.logger.Debug().Msg("websocket client connected")

		case conn := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.broadcast:
			h.mutex.Lock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					h.logger.Debug().Err(err).Msg("dropping websocket client")
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Publish queues the event for broadcast. It does not wait for delivery.
func (h *Hub) Publish(ctx context.Context, event events.Event) error {
	msg, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("ws: encode %s: %w", event.Type, err)
	}
	select {
	case h.broadcast <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("ws: broadcast queue full, dropped %s", event.Type)
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Upgrade rejects non-websocket requests on the stream route.
func Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// join registers conn. It reports false, closing conn, once the hub has stopped.
func (h *Hub) join(conn Conn) bool {
	select {
	case h.register <- conn:
		return true
	case <-h.done:
		conn.Close()
		return false
	}
}

func (h *Hub) leave(conn Conn) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Handler registers each connection and blocks reading until the client leaves.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		if !h.join(c) {
			return
		}
		defer h.leave(c)

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	})
}
