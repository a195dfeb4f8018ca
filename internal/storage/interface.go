package storage

import (
	"context"

	"github.com/mcoot/flip7/internal/model"
)

// MaxRecentResults caps the recent-results list in every backend
const MaxRecentResults = 100

// Storage defines the interface for durable data.
// Live lobbies and games are held by the session registry and never pass
// through here; only identities and finished results are stored.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Registered player operations
	SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error
	GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error)
	GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error)

	// Game result operations
	SaveGameResult(ctx context.Context, result *model.GameResult) error
	GetGameResult(ctx context.Context, id model.GameID) (*model.GameResult, error)
	// ListRecentResults returns up to limit results, newest first
	ListRecentResults(ctx context.Context, limit int) ([]*model.GameResult, error)

	// Ping reports whether the backend is reachable
	Ping(ctx context.Context) error
}
