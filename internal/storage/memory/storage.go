package memory

import (
	"context"
	"sync"

	"github.com/mcoot/flip7/internal/model"
	"github.com/mcoot/flip7/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players           map[model.PlayerID]*model.Player
	registeredPlayers map[model.PlayerID]*model.RegisteredPlayer
	usernameIndex     map[string]model.PlayerID
	results           map[model.GameID]*model.GameResult
	recent            []model.GameID // newest first
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:           make(map[model.PlayerID]*model.Player),
		registeredPlayers: make(map[model.PlayerID]*model.RegisteredPlayer),
		usernameIndex:     make(map[string]model.PlayerID),
		results:           make(map[model.GameID]*model.GameResult),
	}
}

var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *player
	s.players[player.ID] = &p
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	p := *player
	return &p, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, id)
	return nil
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := *rp
	s.registeredPlayers[rp.PlayerID] = &r
	s.usernameIndex[rp.Username] = rp.PlayerID
	return nil
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	r := *rp
	return &r, nil
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	playerID, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	r := *rp
	return &r, nil
}

// Game result operations

func (s *Storage) SaveGameResult(ctx context.Context, result *model.GameResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.results[result.GameID]; !exists {
		s.recent = append([]model.GameID{result.GameID}, s.recent...)
		if len(s.recent) > storage.MaxRecentResults {
			for _, id := range s.recent[storage.MaxRecentResults:] {
				delete(s.results, id)
			}
			s.recent = s.recent[:storage.MaxRecentResults]
		}
	}
	s.results[result.GameID] = cloneResult(result)
	return nil
}

func (s *Storage) GetGameResult(ctx context.Context, id model.GameID) (*model.GameResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[id]
	if !ok {
		return nil, model.ErrResultNotFound
	}
	return cloneResult(result), nil
}

func (s *Storage) ListRecentResults(ctx context.Context, limit int) ([]*model.GameResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.recent) {
		limit = len(s.recent)
	}
	results := make([]*model.GameResult, 0, limit)
	for _, id := range s.recent[:limit] {
		results = append(results, cloneResult(s.results[id]))
	}
	return results, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return nil
}

func cloneResult(r *model.GameResult) *model.GameResult {
	c := *r
	c.Standings = append([]model.Standing(nil), r.Standings...)
	c.Winners = append([]model.PlayerID(nil), r.Winners...)
	return &c
}
