// Package telemetry streams live car state to websocket clients.
//
// A Hub owns the set of connected clients. The game loop hands it frames
// with Publish, which never blocks: when the hub falls behind, frames are
// dropped rather than stalling the next tick. Slow clients whose send
// buffer fills up are disconnected.
//
// Usage:
//
//	hub := telemetry.NewHub()
//	go hub.Run(ctx)
//	http.Handle("/telemetry", hub)
//	...
//	hub.Publish(frame)
package telemetry

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Frames buffered between the game loop and the hub
	inboxSize = 64

	clientBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Telemetry is read-only and meant for local dashboards
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Frame is one published snapshot of the race
type Frame struct {
	Session  string  `json:"session"`
	Tick     int64   `json:"tick"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Heading  float64 `json:"heading"`
	Speed    float64 `json:"speed"`
	SpeedKPH int     `json:"speed_kph"`
	Laps     int     `json:"laps"`
	OffTrack bool    `json:"off_track"`
	// Lap times in seconds, zero until known
	CurrentLap float64 `json:"current_lap"`
	LastLap    float64 `json:"last_lap"`
	BestLap    float64 `json:"best_lap"`
	Event      string  `json:"event,omitempty"`
}

const (
	EventLap     = "lap"
	EventRestart = "restart"
)

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub fans frames out to every connected client
type Hub struct {
	clients map[*client]bool

	inbox      chan Frame
	register   chan *client
	unregister chan *client

	dropped atomic.Int64
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		inbox:      make(chan Frame, inboxSize),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

// Run is the hub's event loop. It returns when ctx is cancelled, closing
// all client connections.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.removeClient(c)
			}
			return

		case c := <-h.register:
			h.clients[c] = true
			log.Printf("Telemetry client connected from %s (total clients: %d)", c.conn.RemoteAddr(), len(h.clients))

		case c := <-h.unregister:
			h.removeClient(c)

		case f := <-h.inbox:
			h.broadcast(f)
		}
	}
}

// Publish queues a frame for broadcast. It never blocks.
func (h *Hub) Publish(f Frame) bool {
	select {
	case h.inbox <- f:
		return true
	default:
		h.dropped.Add(1)
		return false
	}
}

// Dropped returns the number of frames discarded because the hub was busy
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// ServeHTTP upgrades the request to a websocket and registers the client
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Telemetry websocket upgrade failed: %v", err)
		return
	}

	c := &client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, clientBufferSize),
	}

	select {
	case h.register <- c:
	case <-r.Context().Done():
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

func (h *Hub) broadcast(f Frame) {
	data, err := json.Marshal(f)
	if err != nil {
		log.Printf("Failed to marshal telemetry frame: %v", err)
		return
	}

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Client's send buffer is full
			h.removeClient(c)
		}
	}
}

func (h *Hub) removeClient(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	log.Printf("Telemetry client disconnected (remaining clients: %d)", len(h.clients))
}

// readPump only services control frames; clients do not send data
func (c *client) readPump() {
	defer func() {
		// The hub may already be gone on shutdown
		select {
		case c.hub.unregister <- c:
		case <-time.After(time.Second):
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Telemetry websocket error: %v", err)
			}
			return
		}
	}
}

// writePump sends queued frames, one JSON document per websocket message
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
