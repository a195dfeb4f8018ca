package events

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/flip7/internal/model"
)

const (
	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Subscribers only send control frames
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// envelope is the WebSocket framing of a stream message
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ServeWebSocket upgrades the request and streams a lobby's events as JSON
// text frames until either side goes away
func (s *Streamer) ServeWebSocket(w http.ResponseWriter, r *http.Request, code model.LobbyCode, playerID model.PlayerID) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed",
			slog.String("lobby_code", string(code)),
			slog.Any("error", err))
		return
	}

	hub := s.hubs.GetOrCreateHub(code)
	client := NewClient(playerID, "websocket", s.clock.Now())
	if !hub.Register(client) {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "lobby closed"))
		_ = conn.Close()
		return
	}

	closed := make(chan struct{})
	go s.readPump(conn, closed)
	s.writePump(conn, client, closed)
	hub.Unregister(client)
}

// readPump drains inbound frames so pongs and close frames are processed
func (s *Streamer) readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Warn("websocket read error", slog.Any("error", err))
			}
			return
		}
	}
}

func (s *Streamer) writePump(conn *websocket.Conn, client *Client, closed <-chan struct{}) {
	ticker := s.clock.NewTicker(pingPeriod, "websocket", "ping")
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Messages():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(envelope{Event: message.Event, Data: message.Data}); err != nil {
				s.logger.Warn("websocket write failed", slog.Any("error", err))
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-closed:
			return
		}
	}
}
