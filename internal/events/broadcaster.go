package events

import (
	"encoding/json"
	"log/slog"

	"github.com/coder/quartz"

	"github.com/mcoot/flip7/internal/api/response"
	"github.com/mcoot/flip7/internal/model"
)

// Stream event names
const (
	StreamLobbyUpdate    = "lobby-update"
	StreamGameUpdate     = "game-update"
	StreamGameComplete   = "game-complete"
	StreamSessionExpired = "session-expired"
)

// StreamName maps a domain event to the name it is streamed under
func StreamName(t model.EventType) string {
	switch t {
	case model.EventLobbyCreated, model.EventPlayerJoined, model.EventBotAdded:
		return StreamLobbyUpdate
	case model.EventGameCompleted:
		return StreamGameComplete
	case model.EventSessionExpired:
		return StreamSessionExpired
	default:
		return StreamGameUpdate
	}
}

// Broadcaster turns domain events into stream messages for a lobby's hub
type Broadcaster struct {
	hubManager *HubManager
	clock      quartz.Clock
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, clk quartz.Clock, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		clock:      clk,
		logger:     logger.With(slog.String("component", "broadcaster")),
	}
}

// Publish encodes the event and queues it on the lobby's hub.
// Lobbies nobody is subscribed to have no hub and the event is dropped.
func (b *Broadcaster) Publish(event *model.Event) {
	hub := b.hubManager.GetHub(event.LobbyCode)
	if hub == nil {
		return
	}

	data, err := json.Marshal(response.EventFromModel(event))
	if err != nil {
		b.logger.Error("failed to encode stream event",
			slog.String("lobby_code", string(event.LobbyCode)),
			slog.String("event", string(event.Type)),
			slog.Any("error", err))
		return
	}

	hub.Broadcast(Message{Event: StreamName(event.Type), Data: data})
}

func (b *Broadcaster) event(t model.EventType, code model.LobbyCode, playerID model.PlayerID, snap *model.Snapshot, payload any) *model.Event {
	return &model.Event{
		Type:      t,
		Timestamp: b.clock.Now(),
		LobbyCode: code,
		PlayerID:  playerID,
		Snapshot:  snap,
		Payload:   payload,
	}
}

// LobbyCreated announces a new lobby; it is dropped unless someone already subscribed
func (b *Broadcaster) LobbyCreated(snap *model.Snapshot) {
	b.Publish(b.event(model.EventLobbyCreated, snap.LobbyCode, snap.Creator, snap, nil))
}

// PlayerJoined announces a human joining the lobby
func (b *Broadcaster) PlayerJoined(player *model.Player, snap *model.Snapshot) {
	b.Publish(b.event(model.EventPlayerJoined, snap.LobbyCode, player.ID, snap, model.PlayerJoinedPayload{Player: *player}))
}

// BotAdded announces a bot seat being filled
func (b *Broadcaster) BotAdded(bot *model.Player, snap *model.Snapshot) {
	b.Publish(b.event(model.EventBotAdded, snap.LobbyCode, bot.ID, snap, model.PlayerJoinedPayload{Player: *bot}))
}

// GameStarted announces that the creator started the game
func (b *Broadcaster) GameStarted(startedBy model.PlayerID, snap *model.Snapshot) {
	b.Publish(b.event(model.EventGameStarted, snap.LobbyCode, startedBy, snap, nil))
	b.completeIfFinished(snap)
}

// CardDrawn announces a draw, and the end of the game if the draw finished it
func (b *Broadcaster) CardDrawn(outcome *model.DrawOutcome, snap *model.Snapshot) {
	t := model.EventCardDrawn
	if outcome.Busted {
		t = model.EventPlayerBusted
	}
	b.Publish(b.event(t, snap.LobbyCode, outcome.PlayerID, snap, model.CardDrawnPayload{Outcome: *outcome}))
	b.completeIfFinished(snap)
}

// PlayerStayed announces a stay, and the end of the game if the stay finished it
func (b *Broadcaster) PlayerStayed(outcome *model.StayOutcome, snap *model.Snapshot) {
	b.Publish(b.event(model.EventPlayerStayed, snap.LobbyCode, outcome.PlayerID, snap, model.PlayerStayedPayload{Outcome: *outcome}))
	b.completeIfFinished(snap)
}

// SessionExpired tells subscribers the session was reaped
func (b *Broadcaster) SessionExpired(code model.LobbyCode) {
	b.Publish(b.event(model.EventSessionExpired, code, "", nil, nil))
}

func (b *Broadcaster) completeIfFinished(snap *model.Snapshot) {
	if !snap.IsFinished() {
		return
	}
	result := model.GameResult{
		GameID:      snap.GameID,
		LobbyCode:   snap.LobbyCode,
		Standings:   snap.Standings,
		Winners:     snap.Winners,
		CompletedAt: b.clock.Now(),
	}
	b.Publish(b.event(model.EventGameCompleted, snap.LobbyCode, "", snap, model.GameCompletedPayload{Result: result}))
}
