package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Notifier is the fire-and-forget toast sink. Implementations must never
// block the caller and never fail the calling operation.
type Notifier interface {
	Success(userID uuid.UUID, message string)
	Info(userID uuid.UUID, message string)
	Error(userID uuid.UUID, message string)
}

// Toast is the payload delivered to connected clients.
type Toast struct {
	Level   string    `json:"level"`
	Message string    `json:"message"`
	SentAt  time.Time `json:"sent_at"`
}

type delivery struct {
	userID uuid.UUID
	toast  Toast
}

type client struct {
	userID uuid.UUID
	conn   *websocket.Conn
	send   chan Toast
}

// Hub broadcasts toasts to the websocket connections of each identity.
// Clients that are not connected simply miss the toast; sends to slow
// clients are dropped rather than queued without bound.
type Hub struct {
	log        zerolog.Logger
	upgrader   websocket.Upgrader
	clients    map[uuid.UUID]map[*client]struct{}
	register   chan *client
	unregister chan *client
	deliveries chan delivery
	done       chan struct{}
}

// NewHub creates a Hub. allowedOrigins mirrors the HTTP CORS list; an
// empty slice permits all origins (development mode).
func NewHub(log zerolog.Logger, allowedOrigins []string) *Hub {
	return &Hub{
		log: log.With().Str("component", "notify_hub").Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowedOrigins) == 0 {
					return true
				}
				origin := r.Header.Get("Origin")
				for _, allowed := range allowedOrigins {
					if strings.EqualFold(allowed, origin) {
						return true
					}
				}
				return false
			},
		},
		clients:    make(map[uuid.UUID]map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		deliveries: make(chan delivery, 256),
		done:       make(chan struct{}),
	}
}

// Run owns the client registry. Call in a goroutine; returns when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	h.log.Info().Msg("Hub started")
	for {
		select {
		case <-ctx.Done():
			h.log.Info().Msg("Hub stopping")
			return
		case c := <-h.register:
			if h.clients[c.userID] == nil {
				h.clients[c.userID] = make(map[*client]struct{})
			}
			h.clients[c.userID][c] = struct{}{}
		case c := <-h.unregister:
			if set, ok := h.clients[c.userID]; ok {
				if _, ok := set[c]; ok {
					delete(set, c)
					close(c.send)
					if len(set) == 0 {
						delete(h.clients, c.userID)
					}
				}
			}
		case d := <-h.deliveries:
			for c := range h.clients[d.userID] {
				select {
				case c.send <- d.toast:
				default:
					// Slow client; drop the toast.
				}
			}
		}
	}
}

// Serve upgrades the request to a websocket and streams toasts for userID.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	// The registry goroutine may already be gone during shutdown, so
	// every send toward it must also watch for the hub closing.
	c := &client{userID: userID, conn: conn, send: make(chan Toast, 16)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()

	// Read loop exists only to detect disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	select {
	case h.unregister <- c:
	case <-h.done:
	}
	conn.Close()
}

func (c *client) writePump() {
	for toast := range c.send {
		payload, err := json.Marshal(toast)
		if err != nil {
			continue
		}
		c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// Success implements Notifier.
func (h *Hub) Success(userID uuid.UUID, message string) {
	h.push(userID, "success", message)
}

// Info implements Notifier.
func (h *Hub) Info(userID uuid.UUID, message string) {
	h.push(userID, "info", message)
}

// Error implements Notifier.
func (h *Hub) Error(userID uuid.UUID, message string) {
	h.push(userID, "error", message)
}

func (h *Hub) push(userID uuid.UUID, level, message string) {
	d := delivery{userID: userID, toast: Toast{Level: level, Message: message, SentAt: time.Now()}}
	select {
	case h.deliveries <- d:
	default:
		// Hub backlog full; toasts are best effort.
	}
}

// Nop is a Notifier that discards every toast. Used by CLIs.
type Nop struct{}

func (Nop) Success(uuid.UUID, string) {}
func (Nop) Info(uuid.UUID, string)    {}
func (Nop) Error(uuid.UUID, string)   {}
