package lobby

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/flip7/internal/dependencies/clock"
	"github.com/mcoot/flip7/internal/dependencies/random"
	"github.com/mcoot/flip7/internal/model"
	"github.com/mcoot/flip7/internal/registry"
	"github.com/mcoot/flip7/internal/services/game"
)

const (
	// LobbyCodeLength is the length of generated lobby codes
	LobbyCodeLength = 6
	// LobbyCodeAlphabet is the characters used in lobby codes (avoid confusing chars)
	LobbyCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	// maxCodeAttempts bounds retries when a generated code is already live
	maxCodeAttempts = 10
)

// Controller manages enrollment for lobbies and hands started lobbies to the
// game controller
type Controller struct {
	registry       *registry.Registry
	gameController *game.Controller
	clock          clock.Clock
	random         random.Random
	logger         *slog.Logger
}

// NewController creates a new LobbyController
func NewController(
	reg *registry.Registry,
	gameController *game.Controller,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		registry:       reg,
		gameController: gameController,
		clock:          clk,
		random:         rnd,
		logger:         logger,
	}
}

// CreateLobby opens a lobby whose roster is just the creator
func (c *Controller) CreateLobby(ctx context.Context, creator model.PlayerID) (*model.Snapshot, error) {
	now := c.clock.Now()

	for range maxCodeAttempts {
		code := model.LobbyCode(c.random.String(LobbyCodeLength, LobbyCodeAlphabet))
		lob := &model.Lobby{
			Code:      code,
			Creator:   creator,
			Roster:    []model.PlayerID{creator},
			State:     model.LobbyStateWaiting,
			CreatedAt: now,
			UpdatedAt: now,
		}

		err := c.registry.Create(lob)
		if errors.Is(err, registry.ErrCodeInUse) {
			continue
		}
		if err != nil {
			return nil, err
		}

		c.logger.Info("lobby created",
			slog.String("lobby_code", string(code)),
			slog.String("creator", string(creator)),
		)
		return c.Get(ctx, code)
	}

	return nil, fmt.Errorf("could not allocate a lobby code after %d attempts", maxCodeAttempts)
}

// Get returns the current snapshot of a lobby (or its game, once started)
func (c *Controller) Get(ctx context.Context, code model.LobbyCode) (*model.Snapshot, error) {
	return c.gameController.Snapshot(ctx, code)
}

// Join appends the player to the roster.
// Joining twice is reported as ErrAlreadyJoined rather than ignored.
func (c *Controller) Join(ctx context.Context, code model.LobbyCode, playerID model.PlayerID) (*model.Snapshot, error) {
	snap, err := c.addToRoster(code, playerID, func(*model.Lobby) error { return nil })
	if err != nil {
		c.rejected("join", code, playerID, err)
		return nil, err
	}

	c.logger.Info("player joined lobby",
		slog.String("lobby_code", string(code)),
		slog.String("player_id", string(playerID)),
	)
	return snap, nil
}

// Invite adds another player to the roster on the creator's behalf.
// Used to seat bot players.
func (c *Controller) Invite(ctx context.Context, code model.LobbyCode, requester, playerID model.PlayerID) (*model.Snapshot, error) {
	return c.addToRoster(code, playerID, func(lob *model.Lobby) error {
		if lob.Creator != requester {
			return model.ErrNotCreator
		}
		return nil
	})
}

func (c *Controller) addToRoster(code model.LobbyCode, playerID model.PlayerID, check func(*model.Lobby) error) (*model.Snapshot, error) {
	var snap *model.Snapshot
	err := c.registry.Do(code, func(sess *registry.Session) error {
		lob := sess.Lobby
		if err := check(lob); err != nil {
			return err
		}
		if lob.IsStarted() {
			return model.ErrLobbyStarted
		}
		if lob.HasPlayer(playerID) {
			return model.ErrAlreadyJoined
		}

		lob.Roster = append(lob.Roster, playerID)
		lob.UpdatedAt = c.clock.Now()
		snap = c.gameController.BuildSnapshot(sess)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Start freezes the roster and begins a game over it.
// Only the creator may start, and only once.
func (c *Controller) Start(ctx context.Context, code model.LobbyCode, requester model.PlayerID) (*model.Snapshot, error) {
	var snap *model.Snapshot
	err := c.registry.Do(code, func(sess *registry.Session) error {
		lob := sess.Lobby
		if lob.Creator != requester {
			return model.ErrNotCreator
		}
		if lob.IsStarted() {
			return model.ErrLobbyStarted
		}

		g := c.gameController.NewGame(lob)
		sess.Game = g
		lob.State = model.LobbyStateStarted
		lob.GameID = g.ID
		lob.UpdatedAt = c.clock.Now()

		snap = c.gameController.BuildSnapshot(sess)
		return nil
	})
	if err != nil {
		c.rejected("start", code, requester, err)
		return nil, err
	}

	c.logger.Info("game started",
		slog.String("lobby_code", string(code)),
		slog.String("game_id", string(snap.GameID)),
		slog.Int("player_count", len(snap.Roster)),
	)
	return snap, nil
}

func (c *Controller) rejected(action string, code model.LobbyCode, playerID model.PlayerID, err error) {
	c.logger.Debug("lobby action rejected",
		slog.String("action", action),
		slog.String("lobby_code", string(code)),
		slog.String("player_id", string(playerID)),
		slog.Any("error", err),
	)
}
