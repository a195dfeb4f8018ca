package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Lobby errors
	ErrLobbyNotFound = errors.New("lobby not found")
	ErrAlreadyJoined = errors.New("player has already joined this lobby")
	ErrNotCreator    = errors.New("only the lobby creator can do that")
	ErrLobbyStarted  = errors.New("lobby has already started")

	// Game errors
	ErrNoGameInProgress = errors.New("no game in progress")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrGameComplete     = errors.New("game is already complete")

	// Result errors
	ErrResultNotFound = errors.New("game result not found")

	// Bot errors
	ErrUnknownBotStrategy = errors.New("unknown bot strategy")
)
