package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player represents a participant in lobbies and games
type Player struct {
	ID          PlayerID
	DisplayName string
	IsGuest     bool   // true for unregistered players
	IsBot       bool   // true for server-controlled players
	BotStrategy string // strategy name, only set for bots
	CreatedAt   time.Time
}

// RegisteredPlayer extends Player with authentication data
// Stored separately so password hashes never travel with sessions
type RegisteredPlayer struct {
	PlayerID     PlayerID
	Username     string // login username (immutable)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
