package model

// Phase describes which state machine currently owns a session
type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhasePlaying  Phase = "playing"
	PhaseFinished Phase = "finished"
)

// PlayerView is one player's row in a snapshot
type PlayerView struct {
	PlayerID PlayerID
	Hand     []int
	Status   PlayerStatus
	Score    int
}

// Snapshot is a plain, copy-safe view of a session after an action.
// Renderers consume it; it shares no memory with the live session.
type Snapshot struct {
	LobbyCode     LobbyCode
	Phase         Phase
	Version       int
	Creator       PlayerID
	Roster        []PlayerID
	GameID        GameID
	Players       []PlayerView
	CurrentPlayer PlayerID // Empty in the lobby phase and once finished
	Standings     []Standing
	Winners       []PlayerID // Only set once finished
}

// IsFinished returns true if the snapshot describes a terminal game
func (s *Snapshot) IsFinished() bool {
	return s.Phase == PhaseFinished
}
