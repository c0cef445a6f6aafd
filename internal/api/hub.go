/*
Package api
File: hub.go
Description:
    The WebSocket Hub is the real-time side of the presentation boundary.

    It maintains a registry of all connected UI clients and fans out every
    engine event (gains, passive ticks, purchases, resets) to them. Clients
    may also send commands over the socket (act, hold start/stop) so a held
    key or pointer does not need one HTTP request per repeat.

    Architecture:
    - Hub: owns the client set; only Run touches it.
    - Client: one browser connection with its own buffered send queue.
    - ServeWs: upgrades a GET request and starts the client pumps.
*/

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/everforgeworks/pile-clicker/internal/game"
)

// SenderEngine marks messages that originate from the engine rather than a client.
const SenderEngine = "engine"

// Message defines the standard JSON envelope for all real-time communication.
type Message struct {
	Type    string      `json:"type"`    // Event or command type (e.g., "gain", "hold_start")
	Payload interface{} `json:"payload"` // The actual data (Event, Gain, or nothing)
	Sender  string      `json:"sender"`  // "engine" or the client ID
}

// Client represents a single connected browser tab.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// CommandFunc handles a command received from a client.
type CommandFunc func(c *Client, msg Message)

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients   map[*Client]bool
	connected atomic.Int64

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	quit       chan struct{}

	onCommand CommandFunc
	log       *zap.Logger
}

// NewHub creates a new Hub. Run must be started before clients connect.
func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
		log:        log,
	}
}

// OnCommand installs the handler for client commands. Call before Run.
func (h *Hub) OnCommand(fn CommandFunc) {
	h.onCommand = fn
}

// Connected reports how many clients are registered.
func (h *Hub) Connected() int {
	return int(h.connected.Load())
}

// ID returns the connection's unique ID.
func (c *Client) ID() string {
	return c.id
}

// Run is the main event loop for the Hub. It blocks until ctx is done,
// then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.quit)
		for client := range h.clients {
			delete(h.clients, client)
			close(client.send)
		}
		h.connected.Store(0)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.clients[client] = true
			h.connected.Store(int64(len(h.clients)))
			h.log.Info("ws connection registered", zap.String("client", client.id))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.connected.Store(int64(len(h.clients)))
				h.log.Info("ws connection closed", zap.String("client", client.id))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Send buffer full: the client hung or disconnected.
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.connected.Store(int64(len(h.clients)))
		}
	}
}

// Publish queues a message for every client. It never blocks on a stopped hub.
func (h *Hub) Publish(msg Message) {
	b, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("marshal broadcast", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- b:
	case <-h.quit:
	}
}

// PublishEvent forwards an engine event. It is meant to be an Engine subscriber.
func (h *Hub) PublishEvent(ev game.Event) {
	h.Publish(Message{Type: string(ev.Kind), Payload: ev, Sender: SenderEngine})
}

// upgrader configures the WebSocket handshake.
// CheckOrigin allows any host, matching the permissive CORS policy of the REST API.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWs upgrades the HTTP connection and starts the client pumps.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}

	client := &Client{id: uuid.NewString(), hub: hub, conn: conn, send: make(chan []byte, 256)}

	select {
	case hub.register <- client:
	case <-hub.quit:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump decodes commands from the connection until it closes.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.quit:
		}
		c.conn.Close()
	}()
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warn("ws read error", zap.String("client", c.id), zap.Error(err))
			}
			return
		}
		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.hub.log.Debug("ws bad message", zap.String("client", c.id), zap.Error(err))
			continue
		}
		msg.Sender = c.id
		if c.hub.onCommand != nil {
			c.hub.onCommand(c, msg)
		}
	}
}

// writePump writes queued messages to the connection until send is closed.
func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)

		if err := w.Close(); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
