package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/flip7/internal/dependencies/clock"
	"github.com/mcoot/flip7/internal/dependencies/random"
	"github.com/mcoot/flip7/internal/model"
	"github.com/mcoot/flip7/internal/services/game"
	"github.com/mcoot/flip7/internal/services/lobby"
	"github.com/mcoot/flip7/internal/storage"
)

const (
	// PlayerIDAlphabet is the character set for generating bot player IDs
	PlayerIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	// PlayerIDLength is the length of generated bot player IDs
	PlayerIDLength = 16
	// MaxBotIterations is a safety limit for the PlayTurns loop
	MaxBotIterations = 1000
)

// BotActionType represents the type of action a bot took
type BotActionType string

const (
	ActionDraw BotActionType = "draw"
	ActionStay BotActionType = "stay"
)

// BotAction is a single action taken by a bot during PlayTurns.
// Exactly one of Draw and Stay is set.
type BotAction struct {
	Type     BotActionType
	PlayerID model.PlayerID
	Draw     *model.DrawOutcome
	Stay     *model.StayOutcome
	Snapshot *model.Snapshot
}

// Service manages bot players
type Service struct {
	storage         storage.Storage
	lobbyController *lobby.Controller
	gameController  *game.Controller
	strategies      map[string]Strategy
	clock           clock.Clock
	random          random.Random
	logger          *slog.Logger
}

// NewService creates a new bot Service
func NewService(
	store storage.Storage,
	lobbyController *lobby.Controller,
	gameController *game.Controller,
	strategies map[string]Strategy,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:         store,
		lobbyController: lobbyController,
		gameController:  gameController,
		strategies:      strategies,
		clock:           clk,
		random:          rnd,
		logger:          logger.With(slog.String("component", "bot-service")),
	}
}

// CreateBotPlayer creates a new bot player and saves it to storage
func (s *Service) CreateBotPlayer(ctx context.Context, displayName string, strategy string) (*model.Player, error) {
	player := &model.Player{
		ID:          model.PlayerID("bot-" + s.random.String(PlayerIDLength, PlayerIDAlphabet)),
		DisplayName: displayName,
		IsGuest:     true,
		IsBot:       true,
		BotStrategy: strategy,
		CreatedAt:   s.clock.Now(),
	}

	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	return player, nil
}

// AddBot creates a bot player and seats it in a waiting lobby.
// Only the lobby creator can add bots. An empty displayName picks "Bot N".
func (s *Service) AddBot(ctx context.Context, code model.LobbyCode, requester model.PlayerID, strategy, displayName string) (*model.Player, *model.Snapshot, error) {
	if _, ok := s.strategies[strategy]; !ok {
		return nil, nil, fmt.Errorf("%w: %s", model.ErrUnknownBotStrategy, strategy)
	}

	current, err := s.lobbyController.Get(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	if current.Creator != requester {
		return nil, nil, model.ErrNotCreator
	}
	if current.Phase != model.PhaseLobby {
		return nil, nil, model.ErrLobbyStarted
	}

	if displayName == "" {
		botCount, err := s.countBots(ctx, current.Roster)
		if err != nil {
			return nil, nil, err
		}
		displayName = fmt.Sprintf("Bot %d", botCount+1)
	}

	bot, err := s.CreateBotPlayer(ctx, displayName, strategy)
	if err != nil {
		return nil, nil, err
	}

	snap, err := s.lobbyController.Invite(ctx, code, requester, bot.ID)
	if err != nil {
		// The lobby changed between the check and the invite
		_ = s.storage.DeletePlayer(ctx, bot.ID)
		return nil, nil, err
	}

	s.logger.Info("bot added to lobby",
		slog.String("lobby_code", string(code)),
		slog.String("bot_id", string(bot.ID)),
		slog.String("bot_name", displayName),
		slog.String("strategy", strategy),
	)

	return bot, snap, nil
}

// PlayTurns acts for consecutive bot players until a human is on turn or the
// game is over. It returns every action taken so handlers can broadcast them.
func (s *Service) PlayTurns(ctx context.Context, code model.LobbyCode) ([]BotAction, error) {
	var actions []BotAction

	for range MaxBotIterations {
		snap, err := s.gameController.Snapshot(ctx, code)
		if err != nil {
			return actions, err
		}
		if snap.Phase != model.PhasePlaying {
			break
		}

		current := snap.CurrentPlayer
		player, err := s.storage.GetPlayer(ctx, current)
		if err != nil {
			if errors.Is(err, model.ErrPlayerNotFound) {
				break // Unregistered human
			}
			return actions, err
		}
		if !player.IsBot {
			break // Human's turn
		}

		action, err := s.takeTurn(ctx, code, player, handOf(snap, current))
		if errors.Is(err, model.ErrNotYourTurn) {
			continue // Another caller moved this bot first; re-read
		}
		if errors.Is(err, model.ErrGameComplete) {
			break
		}
		if err != nil {
			return actions, err
		}
		actions = append(actions, *action)
	}

	return actions, nil
}

func (s *Service) takeTurn(ctx context.Context, code model.LobbyCode, player *model.Player, hand []int) (*BotAction, error) {
	if s.strategyForPlayer(player).ShouldStay(hand) {
		outcome, snap, err := s.gameController.Stay(ctx, code, player.ID)
		if err != nil {
			return nil, err
		}
		return &BotAction{Type: ActionStay, PlayerID: player.ID, Stay: outcome, Snapshot: snap}, nil
	}

	outcome, snap, err := s.gameController.Draw(ctx, code, player.ID)
	if err != nil {
		return nil, err
	}
	return &BotAction{Type: ActionDraw, PlayerID: player.ID, Draw: outcome, Snapshot: snap}, nil
}

func (s *Service) countBots(ctx context.Context, roster []model.PlayerID) (int, error) {
	count := 0
	for _, id := range roster {
		p, err := s.storage.GetPlayer(ctx, id)
		if errors.Is(err, model.ErrPlayerNotFound) {
			continue
		}
		if err != nil {
			return 0, err
		}
		if p.IsBot {
			count++
		}
	}
	return count, nil
}

// strategyForPlayer returns the strategy for a bot player, falling back to
// cautious play if the player's strategy is not registered
func (s *Service) strategyForPlayer(player *model.Player) Strategy {
	if st, ok := s.strategies[player.BotStrategy]; ok {
		return st
	}
	if st, ok := s.strategies[model.BotStrategyCautious]; ok {
		return st
	}
	return NewCautiousStrategy()
}

func handOf(snap *model.Snapshot, id model.PlayerID) []int {
	for _, p := range snap.Players {
		if p.PlayerID == id {
			return p.Hand
		}
	}
	return nil
}
