package model

import (
	"slices"
	"time"
)

// LobbyCode is a human-readable identifier for joining lobbies
type LobbyCode string

// LobbyState represents the current state of a lobby
type LobbyState string

const (
	LobbyStateWaiting LobbyState = "waiting" // Accepting joins
	LobbyStateStarted LobbyState = "started" // Roster frozen, game owns the players
)

// Lobby is the pre-game enrollment for a single game.
// Roster[0] is always the creator.
type Lobby struct {
	Code      LobbyCode
	Creator   PlayerID
	Roster    []PlayerID
	State     LobbyState
	GameID    GameID // Empty until started
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasPlayer returns true if the player is on the roster
func (l *Lobby) HasPlayer(id PlayerID) bool {
	return slices.Contains(l.Roster, id)
}

// IsStarted returns true once the creator has started the game
func (l *Lobby) IsStarted() bool {
	return l.State == LobbyStateStarted
}
