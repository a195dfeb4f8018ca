package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	// Lobby events
	EventLobbyCreated EventType = "lobby_created"
	EventPlayerJoined EventType = "player_joined"
	EventBotAdded     EventType = "bot_added"
	EventGameStarted  EventType = "game_started"

	// Game events
	EventCardDrawn     EventType = "card_drawn"
	EventPlayerBusted  EventType = "player_busted"
	EventPlayerStayed  EventType = "player_stayed"
	EventGameCompleted EventType = "game_completed"

	// Session events
	EventSessionExpired EventType = "session_expired"
)

// Event is published to stream subscribers after every accepted action
type Event struct {
	Type      EventType
	Timestamp time.Time
	LobbyCode LobbyCode
	PlayerID  PlayerID  // The player who triggered the event, if any
	Snapshot  *Snapshot // Nil for session_expired
	Payload   any       // Type-specific data
}

// PlayerJoinedPayload contains data for player joined and bot added events
type PlayerJoinedPayload struct {
	Player Player
}

// CardDrawnPayload contains data for card drawn and player busted events
type CardDrawnPayload struct {
	Outcome DrawOutcome
}

// PlayerStayedPayload contains data for player stayed events
type PlayerStayedPayload struct {
	Outcome StayOutcome
}

// GameCompletedPayload contains data for game completed events
type GameCompletedPayload struct {
	Result GameResult
}
