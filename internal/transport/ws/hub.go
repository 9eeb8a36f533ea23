// Package ws delivers live notifications over websocket connections.
package ws

import (
	"errors"
	"sync"

	"github.com/Sahil-1827/task-management-system-backend/internal/entities"
	"github.com/Sahil-1827/task-management-system-backend/internal/transport/http/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrChannelNotFound is returned when emitting to a closed or unknown channel.
	ErrChannelNotFound = errors.New("channel not found")
	// ErrChannelBusy is returned when a channel's send queue is full.
	ErrChannelBusy = errors.New("channel send queue full")
)

const userKey = "ws_user"

// Conn is the subset of *websocket.Conn the hub uses.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v interface{}) error
	Close() error
}

// Registrar records which user owns a channel.
type Registrar interface {
	Register(userID, channelID string)
	Unregister(channelID string) (string, bool)
}

// Message is the frame written to clients.
type Message struct {
	Event entities.EventKind `json:"event"`
	Data  interface{}        `json:"data"`
}

type client struct {
	userID string
	conn   Conn
	send   chan Message
}

// Hub owns the open channels and implements notify.Transport.
type Hub struct {
	log      *zap.SugaredLogger
	presence Registrar
	buffer   int

	mu      sync.RWMutex
	clients map[string]*client
	closed  bool
	wg      sync.WaitGroup
}

// NewHub returns a hub that queues up to buffer messages per channel.
func NewHub(log *zap.SugaredLogger, presence Registrar, buffer int) *Hub {
	if buffer <= 0 {
		buffer = 1
	}
	return &Hub{
		log:      log.Named("ws"),
		presence: presence,
		buffer:   buffer,
		clients:  make(map[string]*client),
	}
}

// Emit queues a message for channelID without blocking.
func (h *Hub) Emit(channelID string, kind entities.EventKind, payload any) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	cl, ok := h.clients[channelID]
	if !ok {
		return ErrChannelNotFound
	}
	select {
	case cl.send <- Message{Event: kind, Data: payload}:
		return nil
	default:
		return ErrChannelBusy
	}
}

// Serve runs one connection for userID until the peer disconnects. Incoming
// frames are read and discarded. Connections arriving after Close are closed
// immediately.
func (h *Hub) Serve(userID string, conn Conn) {
	channelID := uuid.NewString()
	cl := &client{userID: userID, conn: conn, send: make(chan Message, h.buffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[channelID] = cl
	h.wg.Add(1)
	h.mu.Unlock()
	defer h.wg.Done()

	h.presence.Register(userID, channelID)
	h.log.Debugw("channel opened", "user_id", userID, "channel_id", channelID)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range cl.send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Warnw("write failed", "channel_id", channelID, "error", err)
				_ = conn.Close()
				for range cl.send {
				}
				return
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.presence.Unregister(channelID)
	h.mu.Lock()
	delete(h.clients, channelID)
	close(cl.send)
	h.mu.Unlock()
	<-writerDone
	_ = conn.Close()
	h.log.Debugw("channel closed", "user_id", userID, "channel_id", channelID)
}

// Count returns the number of open channels.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close refuses new connections, disconnects every open channel and waits
// until each of them has been torn down.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	for _, cl := range h.clients {
		_ = cl.conn.Close()
	}
	h.mu.Unlock()
	h.wg.Wait()
}

// Upgrade admits authenticated websocket upgrade requests. It must run after
// middleware.Authenticate.
func (h *Hub) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return fiber.ErrUnauthorized
	}
	c.Locals(userKey, actor.ID)
	return c.Next()
}

// Handler returns the websocket endpoint.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		userID, _ := c.Locals(userKey).(string)
		if userID == "" {
			_ = c.Close()
			return
		}
		h.Serve(userID, c)
	})
}
