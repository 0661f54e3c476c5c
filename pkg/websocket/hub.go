package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Hub fans viewer updates out to websocket clients grouped by room. Each
// viewer session has its own room, so several tabs on one session stay in
// sync.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan Broadcast
	stop       chan struct{}
	stopOnce   sync.Once

	log   *zap.Logger
	rooms map[string]map[*Client]bool
}

type Broadcast struct {
	Room    string
	Type    string
	Payload any
}

// Envelope is the wire format of every message sent to clients.
type Envelope struct {
	Type      string `json:"type"`
	Payload   any    `json:"payload"`
	Timestamp string `json:"timestamp"`
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Broadcast, 256),
		stop:       make(chan struct{}),
		log:        log,
		rooms:      map[string]map[*Client]bool{},
	}
}

// Run serves the hub until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case <-h.stop:
			h.closeAll()
			return
		case c := <-h.register:
			if h.rooms[c.Room] == nil {
				h.rooms[c.Room] = map[*Client]bool{}
			}
			h.rooms[c.Room][c] = true
		case c := <-h.unregister:
			h.removeClient(c)
		case b := <-h.broadcast:
			h.broadcastToRoom(b)
		}
	}
}

// Stop ends Run. Register, Unregister and Broadcast become no-ops afterwards.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
}

func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.stop:
		c.closeSend()
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.stop:
	}
}

// Broadcast queues payload for every client in room. It never blocks the
// caller: when the queue is full the update is dropped, and the next update
// carries the full viewer state anyway.
func (h *Hub) Broadcast(room, typ string, payload any) {
	select {
	case h.broadcast <- Broadcast{Room: room, Type: typ, Payload: payload}:
	case <-h.stop:
	default:
		h.log.Warn("ws broadcast queue full", zap.String("room", room), zap.String("type", typ))
	}
}

// closeAll disconnects every client. Only the Run goroutine, or the
// supervisor once Run has died, may call it.
func (h *Hub) closeAll() {
	for room, clients := range h.rooms {
		for c := range clients {
			c.closeSend()
		}
		delete(h.rooms, room)
	}
}

func (h *Hub) removeClient(c *Client) {
	if c == nil {
		return
	}
	if clients := h.rooms[c.Room]; clients != nil {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.rooms, c.Room)
		}
	}
	c.closeSend()
}

func (h *Hub) broadcastToRoom(b Broadcast) {
	clients := h.rooms[b.Room]
	if len(clients) == 0 {
		return
	}
	data, err := Encode(b.Type, b.Payload)
	if err != nil {
		h.log.Error("ws broadcast marshal error", zap.String("room", b.Room), zap.String("type", b.Type), zap.Error(err))
		return
	}
	for c := range clients {
		select {
		case c.Send <- data:
		default:
			// Backpressure / dead client.
			h.removeClient(c)
		}
	}
}

// Encode wraps payload in an Envelope.
func Encode(typ string, payload any) ([]byte, error) {
	return json.Marshal(Envelope{
		Type:      typ,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
}
