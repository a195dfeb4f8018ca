package response

import (
	"time"

	"github.com/mcoot/flip7/internal/model"
	"github.com/mcoot/flip7/internal/services/auth"
)

// Player represents a player in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
	IsBot       bool   `json:"is_bot,omitempty"`
	BotStrategy string `json:"bot_strategy,omitempty"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		IsGuest:     p.IsGuest,
		IsBot:       p.IsBot,
		BotStrategy: p.BotStrategy,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player    `json:"player"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(&s.Player),
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
}

// PlayerView is one player's row in a Snapshot
type PlayerView struct {
	PlayerID string `json:"player_id"`
	Hand     []int  `json:"hand"`
	Status   string `json:"status"`
	Score    int    `json:"score"`
}

// Standing is one row of the scoreboard
type Standing struct {
	PlayerID string `json:"player_id"`
	Score    int    `json:"score"`
	Status   string `json:"status"`
}

// Snapshot is the renderable state of a lobby or game
type Snapshot struct {
	LobbyCode     string       `json:"lobby_code"`
	Phase         string       `json:"phase"`
	Version       int          `json:"version"`
	Creator       string       `json:"creator"`
	Roster        []string     `json:"roster"`
	GameID        string       `json:"game_id,omitempty"`
	Players       []PlayerView `json:"players"`
	CurrentPlayer string       `json:"current_player,omitempty"`
	Standings     []Standing   `json:"standings,omitempty"`
	Winners       []string     `json:"winners,omitempty"`
}

// SnapshotFromModel converts a model.Snapshot
func SnapshotFromModel(s *model.Snapshot) Snapshot {
	players := make([]PlayerView, len(s.Players))
	for i, p := range s.Players {
		hand := p.Hand
		if hand == nil {
			hand = []int{}
		}
		players[i] = PlayerView{
			PlayerID: string(p.PlayerID),
			Hand:     hand,
			Status:   string(p.Status),
			Score:    p.Score,
		}
	}

	return Snapshot{
		LobbyCode:     string(s.LobbyCode),
		Phase:         string(s.Phase),
		Version:       s.Version,
		Creator:       string(s.Creator),
		Roster:        playerIDs(s.Roster),
		GameID:        string(s.GameID),
		Players:       players,
		CurrentPlayer: string(s.CurrentPlayer),
		Standings:     standingsFromModel(s.Standings),
		Winners:       playerIDs(s.Winners),
	}
}

// DrawOutcome reports a draw action
type DrawOutcome struct {
	PlayerID   string `json:"player_id"`
	Card       int    `json:"card"`
	Busted     bool   `json:"busted"`
	Score      int    `json:"score"`
	GameOver   bool   `json:"game_over"`
	NextPlayer string `json:"next_player,omitempty"`
}

// DrawOutcomeFromModel converts a model.DrawOutcome
func DrawOutcomeFromModel(o *model.DrawOutcome) DrawOutcome {
	return DrawOutcome{
		PlayerID:   string(o.PlayerID),
		Card:       o.Card,
		Busted:     o.Busted,
		Score:      o.Score,
		GameOver:   o.GameOver,
		NextPlayer: string(o.NextPlayer),
	}
}

// StayOutcome reports a stay action
type StayOutcome struct {
	PlayerID   string `json:"player_id"`
	Score      int    `json:"score"`
	GameOver   bool   `json:"game_over"`
	NextPlayer string `json:"next_player,omitempty"`
}

// StayOutcomeFromModel converts a model.StayOutcome
func StayOutcomeFromModel(o *model.StayOutcome) StayOutcome {
	return StayOutcome{
		PlayerID:   string(o.PlayerID),
		Score:      o.Score,
		GameOver:   o.GameOver,
		NextPlayer: string(o.NextPlayer),
	}
}

// DrawResponse is the response for the draw endpoint
type DrawResponse struct {
	Outcome  DrawOutcome `json:"outcome"`
	Snapshot Snapshot    `json:"snapshot"`
}

// StayResponse is the response for the stay endpoint
type StayResponse struct {
	Outcome  StayOutcome `json:"outcome"`
	Snapshot Snapshot    `json:"snapshot"`
}

// AddBotResponse is the response for adding a bot to a lobby
type AddBotResponse struct {
	Bot      Player   `json:"bot"`
	Snapshot Snapshot `json:"snapshot"`
}

// GameResult is a finished game's record
type GameResult struct {
	GameID      string     `json:"game_id"`
	LobbyCode   string     `json:"lobby_code"`
	Standings   []Standing `json:"standings"`
	Winners     []string   `json:"winners"`
	CompletedAt time.Time  `json:"completed_at"`
}

// GameResultFromModel converts a model.GameResult
func GameResultFromModel(r *model.GameResult) GameResult {
	return GameResult{
		GameID:      string(r.GameID),
		LobbyCode:   string(r.LobbyCode),
		Standings:   standingsFromModel(r.Standings),
		Winners:     playerIDs(r.Winners),
		CompletedAt: r.CompletedAt,
	}
}

// ResultsResponse lists recent results
type ResultsResponse struct {
	Results []GameResult `json:"results"`
}

// Event is a stream event as sent to SSE and WebSocket subscribers
type Event struct {
	Type      string       `json:"type"`
	Timestamp time.Time    `json:"timestamp"`
	LobbyCode string       `json:"lobby_code"`
	PlayerID  string       `json:"player_id,omitempty"`
	Snapshot  *Snapshot    `json:"snapshot,omitempty"`
	Draw      *DrawOutcome `json:"draw,omitempty"`
	Stay      *StayOutcome `json:"stay,omitempty"`
	Player    *Player      `json:"player,omitempty"`
	Result    *GameResult  `json:"result,omitempty"`
}

// EventFromModel converts a model.Event, flattening its typed payload
func EventFromModel(e *model.Event) Event {
	out := Event{
		Type:      string(e.Type),
		Timestamp: e.Timestamp,
		LobbyCode: string(e.LobbyCode),
		PlayerID:  string(e.PlayerID),
	}
	if e.Snapshot != nil {
		snap := SnapshotFromModel(e.Snapshot)
		out.Snapshot = &snap
	}

	switch p := e.Payload.(type) {
	case model.CardDrawnPayload:
		draw := DrawOutcomeFromModel(&p.Outcome)
		out.Draw = &draw
	case model.PlayerStayedPayload:
		stay := StayOutcomeFromModel(&p.Outcome)
		out.Stay = &stay
	case model.PlayerJoinedPayload:
		player := PlayerFromModel(&p.Player)
		out.Player = &player
	case model.GameCompletedPayload:
		result := GameResultFromModel(&p.Result)
		out.Result = &result
	}
	return out
}

// HealthResponse is the response for the health endpoint
type HealthResponse struct {
	Status       string `json:"status"`
	Storage      string `json:"storage"`
	LiveSessions int    `json:"live_sessions"`
}

func standingsFromModel(in []model.Standing) []Standing {
	if in == nil {
		return nil
	}
	out := make([]Standing, len(in))
	for i, st := range in {
		out[i] = Standing{
			PlayerID: string(st.PlayerID),
			Score:    st.Score,
			Status:   string(st.Status),
		}
	}
	return out
}

func playerIDs(ids []model.PlayerID) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
