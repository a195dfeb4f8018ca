package events

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/coder/quartz"

	"github.com/mcoot/flip7/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time between keepalives on idle streams
	keepalivePeriod = 30 * time.Second

	// Buffer size for outgoing messages per client
	sendBufferSize = 256
)

// Streamer serves lobby hubs over SSE and WebSocket
type Streamer struct {
	hubs            *HubManager
	clock           quartz.Clock
	keepalivePeriod time.Duration
	logger          *slog.Logger
}

// NewStreamer creates a new Streamer
func NewStreamer(hubs *HubManager, clk quartz.Clock, logger *slog.Logger) *Streamer {
	return &Streamer{
		hubs:            hubs,
		clock:           clk,
		keepalivePeriod: keepalivePeriod,
		logger:          logger.With(slog.String("component", "stream")),
	}
}

// WithKeepalive overrides the keepalive period
func (s *Streamer) WithKeepalive(d time.Duration) *Streamer {
	s.keepalivePeriod = d
	return s
}

// formatSSEMessage renders one SSE frame, splitting multi-line data
func formatSSEMessage(event string, data []byte) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "event: %s\n", event)
	for _, line := range splitLines(string(data)) {
		fmt.Fprintf(&buf, "data: %s\n", line)
	}
	buf.WriteString("\n")
	return buf.Bytes()
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

// ServeSSE streams a lobby's events to the caller until they disconnect
// or the hub shuts down
func (s *Streamer) ServeSSE(w http.ResponseWriter, r *http.Request, code model.LobbyCode, playerID model.PlayerID) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	hub := s.hubs.GetOrCreateHub(code)
	client := NewClient(playerID, "sse", s.clock.Now())
	if !hub.Register(client) {
		http.Error(w, "Lobby closed", http.StatusGone)
		return
	}
	defer hub.Unregister(client)

	// Streams outlive the server's write timeout
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	_, _ = w.Write(formatSSEMessage("connected", []byte(`{"status":"connected"}`)))
	flusher.Flush()

	ticker := s.clock.NewTicker(s.keepalivePeriod, "sse", "keepalive")
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.Messages():
			if !ok {
				return
			}
			if _, err := w.Write(formatSSEMessage(message.Event, message.Data)); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
