package ws

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"spyroom/internal/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler upgrades subscribers onto the notify hub.
type Handler struct {
	hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

// ServeRoom handles GET /api/rooms/{code}/ws.
func (h *Handler) ServeRoom(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(mux.Vars(r)["code"])

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Warnw("ws upgrade failed", "code", code, "err", err)
		return
	}

	conn := &Conn{RoomCode: code, Send: make(chan []byte, 8)}
	h.hub.Register(conn)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

// readPump discards everything the client sends; it exists to notice a
// dropped connection.
func (h *Handler) readPump(wsConn *websocket.Conn, conn *Conn) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
	}()
	wsConn.SetReadLimit(512)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		return wsConn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := wsConn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()
	for {
		select {
		case data, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := wsConn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
