package events

import (
	"log/slog"
	"sync"
	"time"

	"github.com/coder/quartz"

	"github.com/mcoot/flip7/internal/model"
)

// Message is one named event as fanned out to subscribers.
// Data is the JSON-encoded event body.
type Message struct {
	Event string
	Data  []byte
}

// Client is a single subscriber to a hub
type Client struct {
	playerID    model.PlayerID
	transport   string
	connectedAt time.Time
	send        chan Message
}

// NewClient creates a new Client with a bounded send buffer
func NewClient(playerID model.PlayerID, transport string, connectedAt time.Time) *Client {
	return &Client{
		playerID:    playerID,
		transport:   transport,
		connectedAt: connectedAt,
		send:        make(chan Message, sendBufferSize),
	}
}

// Messages returns the channel the hub delivers on; it is closed when the
// client is unregistered or the hub shuts down
func (c *Client) Messages() <-chan Message {
	return c.send
}

// Hub fans messages out to every subscriber of a single lobby
type Hub struct {
	lobbyCode model.LobbyCode
	clients   map[*Client]bool
	mu        sync.RWMutex
	clock     quartz.Clock
	logger    *slog.Logger

	register   chan *Client
	unregister chan *Client
	broadcast  chan Message
	done       chan struct{}
	closeOnce  sync.Once

	// emptySince is zero while any client is registered
	emptySince time.Time
}

// NewHub creates a new Hub for a lobby
func NewHub(lobbyCode model.LobbyCode, clk quartz.Clock, logger *slog.Logger) *Hub {
	return &Hub{
		lobbyCode:  lobbyCode,
		clients:    make(map[*Client]bool),
		clock:      clk,
		logger:     logger.With(slog.String("lobby_code", string(lobbyCode))),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Message, 256),
		done:       make(chan struct{}),
		emptySince: clk.Now(),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	h.logger.Debug("event hub started")
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.emptySince = time.Time{}
			clientCount := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("stream client registered",
				slog.String("player_id", string(client.playerID)),
				slog.String("transport", client.transport),
				slog.Int("total_clients", clientCount))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				clientCount := len(h.clients)
				if clientCount == 0 {
					h.emptySince = h.clock.Now()
				}
				h.mu.Unlock()
				h.logger.Info("stream client unregistered",
					slog.String("player_id", string(client.playerID)),
					slog.Duration("connection_duration", h.clock.Since(client.connectedAt)),
					slog.Int("total_clients", clientCount))
			} else {
				h.mu.Unlock()
			}

		case message := <-h.broadcast:
			h.deliver(message)

		case <-h.done:
			// Messages queued before Close still go out
			for pending := true; pending; {
				select {
				case message := <-h.broadcast:
					h.deliver(message)
				default:
					pending = false
				}
			}

			h.mu.Lock()
			clientCount := len(h.clients)
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Debug("event hub stopped", slog.Int("disconnected_clients", clientCount))
			return
		}
	}
}

func (h *Hub) deliver(message Message) {
	h.mu.RLock()
	dropped := 0
	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			dropped++
		}
	}
	h.mu.RUnlock()

	if dropped > 0 {
		h.logger.Warn("stream messages dropped - client buffer full",
			slog.String("event", message.Event),
			slog.Int("dropped", dropped))
	}
}

// Register adds a client to the hub.
// Returns false if the hub has already shut down.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues a message for every client
func (h *Hub) Broadcast(message Message) {
	select {
	case <-h.done:
		return
	default:
	}

	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("stream broadcast dropped - hub buffer full",
			slog.String("event", message.Event))
	}
}

// Close shuts down the hub and disconnects every client
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// Done is closed once the hub shuts down
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// idle reports how long the hub has had no clients; zero while any are connected
func (h *Hub) idle() time.Duration {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.clients) > 0 || h.emptySince.IsZero() {
		return 0
	}
	return h.clock.Since(h.emptySince)
}

// HubManager keeps one hub per live lobby
type HubManager struct {
	hubs   map[model.LobbyCode]*Hub
	mu     sync.RWMutex
	clock  quartz.Clock
	logger *slog.Logger
}

// NewHubManager creates a new HubManager
func NewHubManager(clk quartz.Clock, logger *slog.Logger) *HubManager {
	return &HubManager{
		hubs:   make(map[model.LobbyCode]*Hub),
		clock:  clk,
		logger: logger.With(slog.String("component", "events")),
	}
}

// GetOrCreateHub returns the hub for a lobby, creating one if it doesn't exist
func (m *HubManager) GetOrCreateHub(lobbyCode model.LobbyCode) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[lobbyCode]; ok {
		return hub
	}

	hub := NewHub(lobbyCode, m.clock, m.logger)
	m.hubs[lobbyCode] = hub
	go hub.Run()
	return hub
}

// GetHub returns the hub for a lobby, or nil if it doesn't exist
func (m *HubManager) GetHub(lobbyCode model.LobbyCode) *Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hubs[lobbyCode]
}

// RemoveHub removes and closes a hub
func (m *HubManager) RemoveHub(lobbyCode model.LobbyCode) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[lobbyCode]; ok {
		hub.Close()
		delete(m.hubs, lobbyCode)
		m.logger.Info("event hub removed", slog.String("lobby_code", string(lobbyCode)))
	}
}

// CleanupEmptyHubs removes hubs that have had no clients for at least grace.
// The grace keeps a hub alive between GetOrCreateHub and Register.
func (m *HubManager) CleanupEmptyHubs(grace time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for code, hub := range m.hubs {
		if hub.idle() >= grace && hub.ClientCount() == 0 {
			hub.Close()
			delete(m.hubs, code)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Debug("empty event hubs removed", slog.Int("count", removed))
	}
	return removed
}

// CloseAll closes every hub, ending all streams
func (m *HubManager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for code, hub := range m.hubs {
		hub.Close()
		delete(m.hubs, code)
	}
}

// Len returns the number of open hubs
func (m *HubManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.hubs)
}
