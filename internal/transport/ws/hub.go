package ws

import (
	"encoding/json"
	"sync"
)

// Message is the envelope sent to subscribers. The hub only ever announces
// that a room changed; clients re-fetch over HTTP, which stays the read
// contract.
type Message struct {
	Type     string `json:"type"`
	RoomCode string `json:"roomCode"`
}

const MsgRoomUpdated = "room_updated"

// Conn is one subscriber to a room's updates.
type Conn struct {
	RoomCode string
	Send     chan []byte
}

// Hub fans room-changed pokes out to per-room subscriber sets.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Conn]struct{})}
}

func (h *Hub) Register(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.rooms[c.RoomCode]
	if !ok {
		conns = make(map[*Conn]struct{})
		h.rooms[c.RoomCode] = conns
	}
	conns[c] = struct{}{}
}

func (h *Hub) Unregister(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.rooms[c.RoomCode]
	if !ok {
		return
	}
	if _, ok := conns[c]; !ok {
		return
	}
	delete(conns, c)
	close(c.Send)
	if len(conns) == 0 {
		delete(h.rooms, c.RoomCode)
	}
}

// RoomChanged implements service.Broadcaster. Slow subscribers miss pokes
// rather than block a request; the poll loop covers them.
func (h *Hub) RoomChanged(code string) {
	data, err := json.Marshal(Message{Type: MsgRoomUpdated, RoomCode: code})
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[code] {
		select {
		case c.Send <- data:
		default:
		}
	}
}
