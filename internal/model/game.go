package model

import (
	"slices"
	"time"
)

// GameID uniquely identifies a game
type GameID string

// GameState represents the current phase of a game
type GameState string

const (
	GameStatePlaying  GameState = "playing"  // At least one player has no final score
	GameStateFinished GameState = "finished" // Every player has banked or busted
)

// PlayerStatus describes where a player is in their turn lifecycle
type PlayerStatus string

const (
	StatusActive PlayerStatus = "active"
	StatusBanked PlayerStatus = "banked"
	StatusBusted PlayerStatus = "busted"
)

// Game is a single round of Flip 7 over a frozen roster.
//
// Hands holds every card a player drew that did not bust them. FinalScores is
// populated only for players who stayed or busted; a player with no entry is
// still active. Busted records which of those entries came from a bust, since
// a banked empty hand also scores zero.
type Game struct {
	ID          GameID
	LobbyCode   LobbyCode
	State       GameState
	Roster      []PlayerID
	Hands       map[PlayerID][]int
	FinalScores map[PlayerID]int
	Busted      map[PlayerID]bool
	TurnIdx     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CurrentPlayer returns the player whose turn it is
func (g *Game) CurrentPlayer() PlayerID {
	if len(g.Roster) == 0 {
		return ""
	}
	return g.Roster[g.TurnIdx]
}

// HasFinalScore returns true if the player has banked or busted
func (g *Game) HasFinalScore(id PlayerID) bool {
	_, ok := g.FinalScores[id]
	return ok
}

// IsTerminal returns true once every roster member has a final score
func (g *Game) IsTerminal() bool {
	for _, id := range g.Roster {
		if !g.HasFinalScore(id) {
			return false
		}
	}
	return true
}

// HandContains returns true if the card is already in the player's hand
func (g *Game) HandContains(id PlayerID, card int) bool {
	return slices.Contains(g.Hands[id], card)
}

// HandSum returns the sum of the player's hand
func (g *Game) HandSum(id PlayerID) int {
	sum := 0
	for _, card := range g.Hands[id] {
		sum += card
	}
	return sum
}

// Status returns the player's current status
func (g *Game) Status(id PlayerID) PlayerStatus {
	switch {
	case !g.HasFinalScore(id):
		return StatusActive
	case g.Busted[id]:
		return StatusBusted
	default:
		return StatusBanked
	}
}

// Score returns the final score if set, otherwise the live hand sum
func (g *Game) Score(id PlayerID) int {
	if score, ok := g.FinalScores[id]; ok {
		return score
	}
	return g.HandSum(id)
}

// DrawOutcome reports the result of a draw action
type DrawOutcome struct {
	PlayerID   PlayerID
	Card       int
	Busted     bool
	Score      int      // 0 on bust, otherwise the running hand sum
	GameOver   bool     // true if this draw ended the game
	NextPlayer PlayerID // Empty when the game is over
}

// StayOutcome reports the result of a stay action
type StayOutcome struct {
	PlayerID   PlayerID
	Score      int
	GameOver   bool
	NextPlayer PlayerID
}

// Standing is one row of the scoreboard
type Standing struct {
	PlayerID PlayerID
	Score    int
	Status   PlayerStatus
}

// GameResult is the durable record of a finished game
type GameResult struct {
	GameID      GameID
	LobbyCode   LobbyCode
	Standings   []Standing
	Winners     []PlayerID // Every maximal scorer; ties are not broken
	CompletedAt time.Time
}
