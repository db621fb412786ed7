package simulator

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rileyhilliard/lui/internal/logger"
	"github.com/rileyhilliard/lui/internal/push"
)

const (
	writeWait   = 5 * time.Second
	sendBacklog = 32
)

// Hub fans push frames out to every connected panel.
type Hub struct {
	log      logger.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]*client
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates an empty hub.
func NewHub(log logger.Logger) *Hub {
	return &Hub{
		log: logger.OrNoop(log),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[string]*client),
	}
}

// ServeHTTP upgrades the request and keeps the client registered until its
// connection drops.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("push upgrade failed: %v", err)
		return
	}

	c := &client{id: uuid.NewString(), conn: conn, send: make(chan []byte, sendBacklog)}
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	h.log.Info("push client %s connected from %s", c.id, r.RemoteAddr)

	go h.writeLoop(c)

	// Panels never send anything; reading only notices the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.drop(c)
}

// Broadcast sends one event to every client. Slow clients that can't keep
// up are dropped.
func (h *Hub) Broadcast(eventType string, payload interface{}) error {
	frame, err := push.Encode(eventType, payload)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.log.Debug("push %s -> %d clients", eventType, len(h.clients))
	for id, c := range h.clients {
		select {
		case c.send <- frame:
		default:
			h.log.Warn("push client %s is too slow, dropping it", id)
			delete(h.clients, id)
			close(c.send)
		}
	}
	return nil
}

// Clients returns how many panels are connected.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.send)
	}
}

func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()
	for frame := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			h.log.Debug("push client %s write failed: %v", c.id, err)
			h.drop(c)
			break
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// drop unregisters c once. The write loop exits when send is closed.
func (h *Hub) drop(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; !ok {
		return
	}
	delete(h.clients, c.id)
	close(c.send)
	h.log.Info("push client %s disconnected", c.id)
}
