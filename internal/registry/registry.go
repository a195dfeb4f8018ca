package registry

import (
	"errors"
	"sync"
	"time"

	"github.com/mcoot/flip7/internal/dependencies/clock"
	"github.com/mcoot/flip7/internal/model"
)

// ErrCodeInUse is returned when registering a lobby under a code that is live
var ErrCodeInUse = errors.New("lobby code already in use")

// Session is the live state for one lobby code: the lobby and, once started,
// its game. All fields are owned by the session mutex and may only be touched
// inside Registry.Do or Registry.View.
type Session struct {
	Lobby      *model.Lobby
	Game       *model.Game // nil until the lobby starts
	Version    int         // bumped on every accepted mutation
	LastActive time.Time

	mu      sync.Mutex
	removed bool
}

// Phase reports which state machine currently owns the session
func (s *Session) Phase() model.Phase {
	switch {
	case s.Game == nil:
		return model.PhaseLobby
	case s.Game.State == model.GameStateFinished:
		return model.PhaseFinished
	default:
		return model.PhasePlaying
	}
}

// Registry holds every live session in process memory.
//
// Each session has its own mutex, so actions on one lobby never wait on
// another. The registry lock only guards the code -> session map.
type Registry struct {
	mu       sync.RWMutex
	sessions map[model.LobbyCode]*Session
	clock    clock.Clock
	cfg      Config
}

// New creates an empty Registry
func New(clk clock.Clock, cfg Config) *Registry {
	return &Registry{
		sessions: make(map[model.LobbyCode]*Session),
		clock:    clk,
		cfg:      cfg,
	}
}

// Create registers a new session for the lobby
func (r *Registry) Create(lobby *model.Lobby) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[lobby.Code]; ok {
		return ErrCodeInUse
	}

	r.sessions[lobby.Code] = &Session{
		Lobby:      lobby,
		Version:    1,
		LastActive: r.clock.Now(),
	}
	return nil
}

// Exists returns true if a session is registered under the code
func (r *Registry) Exists(code model.LobbyCode) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[code]
	return ok
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Do runs fn as one atomic transition on the session.
// Version already holds the post-transition value while fn runs, so a
// snapshot taken inside fn matches the committed state. If fn fails the
// version is restored and fn must not have mutated anything else.
func (r *Registry) Do(code model.LobbyCode, fn func(s *Session) error) error {
	return r.with(code, func(s *Session) error {
		prev := s.Version
		s.Version++
		if err := fn(s); err != nil {
			s.Version = prev
			return err
		}
		s.LastActive = r.clock.Now()
		return nil
	})
}

// View runs fn with the session locked but records no activity
func (r *Registry) View(code model.LobbyCode, fn func(s *Session) error) error {
	return r.with(code, fn)
}

func (r *Registry) with(code model.LobbyCode, fn func(s *Session) error) error {
	r.mu.RLock()
	s, ok := r.sessions[code]
	r.mu.RUnlock()
	if !ok {
		return model.ErrLobbyNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Swept between the map lookup and acquiring the lock
	if s.removed {
		return model.ErrLobbyNotFound
	}
	return fn(s)
}

// Remove discards a session immediately
func (r *Registry) Remove(code model.LobbyCode) {
	r.mu.Lock()
	s, ok := r.sessions[code]
	delete(r.sessions, code)
	r.mu.Unlock()

	if ok {
		s.mu.Lock()
		s.removed = true
		s.mu.Unlock()
	}
}

// Sweep discards every session that has been idle past its timeout and
// returns the expired codes
func (r *Registry) Sweep() []model.LobbyCode {
	r.mu.RLock()
	candidates := make(map[model.LobbyCode]*Session, len(r.sessions))
	for code, s := range r.sessions {
		candidates[code] = s
	}
	r.mu.RUnlock()

	now := r.clock.Now()
	var expired []model.LobbyCode
	for code, s := range candidates {
		s.mu.Lock()
		timeout := r.cfg.GameIdleTimeout
		if s.Phase() == model.PhaseLobby {
			timeout = r.cfg.LobbyIdleTimeout
		}
		if !s.removed && now.Sub(s.LastActive) >= timeout {
			s.removed = true
			expired = append(expired, code)
		}
		s.mu.Unlock()
	}

	if len(expired) == 0 {
		return nil
	}

	r.mu.Lock()
	for _, code := range expired {
		// Only delete if the map still points at the session we expired
		if s, ok := r.sessions[code]; ok && s == candidates[code] {
			delete(r.sessions, code)
		}
	}
	r.mu.Unlock()

	return expired
}
