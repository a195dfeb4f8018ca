package game

import (
	"context"
	"log/slog"

	"github.com/mcoot/flip7/internal/dependencies/clock"
	"github.com/mcoot/flip7/internal/dependencies/random"
	"github.com/mcoot/flip7/internal/model"
	"github.com/mcoot/flip7/internal/registry"
	"github.com/mcoot/flip7/internal/services/deck"
	"github.com/mcoot/flip7/internal/services/scoring"
	"github.com/mcoot/flip7/internal/storage"
)

// GameIDAlphabet is the character set for generating game IDs
const GameIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Controller runs the turn loop for live games.
// Every action is applied under the owning session's lock.
type Controller struct {
	registry *registry.Registry
	storage  storage.Storage
	deck     *deck.Deck
	scoring  *scoring.Service
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger
}

// NewController creates a new GameController
func NewController(
	reg *registry.Registry,
	store storage.Storage,
	dk *deck.Deck,
	scoringService *scoring.Service,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		registry: reg,
		storage:  store,
		deck:     dk,
		scoring:  scoringService,
		clock:    clk,
		random:   rnd,
		logger:   logger,
	}
}

// NewGame builds the opening state for a lobby's frozen roster.
// The first roster member is on turn and every hand is empty.
func (c *Controller) NewGame(lob *model.Lobby) *model.Game {
	now := c.clock.Now()
	roster := append([]model.PlayerID(nil), lob.Roster...)

	hands := make(map[model.PlayerID][]int, len(roster))
	for _, id := range roster {
		hands[id] = []int{}
	}

	return &model.Game{
		ID:          model.GameID(c.random.String(12, GameIDAlphabet)),
		LobbyCode:   lob.Code,
		State:       model.GameStatePlaying,
		Roster:      roster,
		Hands:       hands,
		FinalScores: make(map[model.PlayerID]int),
		Busted:      make(map[model.PlayerID]bool),
		TurnIdx:     0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Draw flips a card for the player on turn
func (c *Controller) Draw(ctx context.Context, code model.LobbyCode, playerID model.PlayerID) (*model.DrawOutcome, *model.Snapshot, error) {
	var (
		outcome model.DrawOutcome
		snap    *model.Snapshot
		result  *model.GameResult
	)

	err := c.registry.Do(code, func(sess *registry.Session) error {
		g, err := gameOf(sess)
		if err != nil {
			return err
		}
		if err := checkTurn(g, playerID); err != nil {
			return err
		}

		outcome = applyDraw(g, playerID, c.deck.Draw())
		g.UpdatedAt = c.clock.Now()
		if outcome.GameOver {
			result = c.scoring.Result(g)
		}

		snap = c.BuildSnapshot(sess)
		return nil
	})
	if err != nil {
		c.rejected("draw", code, playerID, err)
		return nil, nil, err
	}

	c.logger.Info("card drawn",
		slog.String("lobby_code", string(code)),
		slog.String("player_id", string(playerID)),
		slog.Int("card", outcome.Card),
		slog.Bool("busted", outcome.Busted),
	)
	c.finish(ctx, result)

	return &outcome, snap, nil
}

// Stay banks the hand of the player on turn
func (c *Controller) Stay(ctx context.Context, code model.LobbyCode, playerID model.PlayerID) (*model.StayOutcome, *model.Snapshot, error) {
	var (
		outcome model.StayOutcome
		snap    *model.Snapshot
		result  *model.GameResult
	)

	err := c.registry.Do(code, func(sess *registry.Session) error {
		g, err := gameOf(sess)
		if err != nil {
			return err
		}
		if err := checkTurn(g, playerID); err != nil {
			return err
		}

		outcome = applyStay(g, playerID)
		g.UpdatedAt = c.clock.Now()
		if outcome.GameOver {
			result = c.scoring.Result(g)
		}

		snap = c.BuildSnapshot(sess)
		return nil
	})
	if err != nil {
		c.rejected("stay", code, playerID, err)
		return nil, nil, err
	}

	c.logger.Info("player stayed",
		slog.String("lobby_code", string(code)),
		slog.String("player_id", string(playerID)),
		slog.Int("score", outcome.Score),
	)
	c.finish(ctx, result)

	return &outcome, snap, nil
}

// Snapshot returns the current state of the session without touching it
func (c *Controller) Snapshot(ctx context.Context, code model.LobbyCode) (*model.Snapshot, error) {
	var snap *model.Snapshot
	err := c.registry.View(code, func(sess *registry.Session) error {
		snap = c.BuildSnapshot(sess)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// CurrentPlayer returns the player on turn.
// Returns ErrGameComplete once every player has a final score.
func (c *Controller) CurrentPlayer(ctx context.Context, code model.LobbyCode) (model.PlayerID, error) {
	var current model.PlayerID
	err := c.registry.View(code, func(sess *registry.Session) error {
		g, err := gameOf(sess)
		if err != nil {
			return err
		}
		if g.State == model.GameStateFinished {
			return model.ErrGameComplete
		}
		current = g.CurrentPlayer()
		return nil
	})
	return current, err
}

// finish records a completed game; the action itself has already succeeded,
// so a storage failure is logged rather than returned
func (c *Controller) finish(ctx context.Context, result *model.GameResult) {
	if result == nil {
		return
	}

	if err := c.storage.SaveGameResult(ctx, result); err != nil {
		c.logger.Error("failed to save game result",
			slog.String("game_id", string(result.GameID)),
			slog.String("error", err.Error()),
		)
	}

	winners := make([]string, len(result.Winners))
	for i, w := range result.Winners {
		winners[i] = string(w)
	}
	c.logger.Info("game completed",
		slog.String("game_id", string(result.GameID)),
		slog.String("lobby_code", string(result.LobbyCode)),
		slog.Any("winners", winners),
	)
}

// gameOf returns the session's game or ErrNoGameInProgress before start
func gameOf(sess *registry.Session) (*model.Game, error) {
	if sess.Game == nil {
		return nil, model.ErrNoGameInProgress
	}
	return sess.Game, nil
}

// rejected records a refused action. These are expected user errors.
func (c *Controller) rejected(action string, code model.LobbyCode, playerID model.PlayerID, err error) {
	c.logger.Debug("action rejected",
		slog.String("action", action),
		slog.String("lobby_code", string(code)),
		slog.String("player_id", string(playerID)),
		slog.Any("error", err),
	)
}
