package factory

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/coder/quartz"
	"github.com/gorilla/mux"

	"github.com/mcoot/flip7/internal/api"
	"github.com/mcoot/flip7/internal/dependencies/clock"
	"github.com/mcoot/flip7/internal/dependencies/random"
	"github.com/mcoot/flip7/internal/events"
	"github.com/mcoot/flip7/internal/model"
	"github.com/mcoot/flip7/internal/registry"
	"github.com/mcoot/flip7/internal/services/auth"
	"github.com/mcoot/flip7/internal/services/bot"
	"github.com/mcoot/flip7/internal/services/deck"
	"github.com/mcoot/flip7/internal/services/game"
	"github.com/mcoot/flip7/internal/services/lobby"
	"github.com/mcoot/flip7/internal/services/scoring"
	"github.com/mcoot/flip7/internal/storage"
	"github.com/mcoot/flip7/internal/storage/memory"
	redisstorage "github.com/mcoot/flip7/internal/storage/redis"
	"github.com/mcoot/flip7/internal/web"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	Logger *slog.Logger

	// Storage
	Storage storage.Storage

	// External dependencies. Clock stamps state; Ticker drives background loops.
	Clock  clock.Clock
	Ticker quartz.Clock
	Random random.Random

	// Live sessions
	Registry *registry.Registry
	Reaper   *registry.Reaper

	// Services
	Deck            *deck.Deck
	ScoringService  *scoring.Service
	GameController  *game.Controller
	LobbyController *lobby.Controller
	BotService      *bot.Service
	AuthService     *auth.Service

	// Event streams
	HubManager  *events.HubManager
	Broadcaster *events.Broadcaster
	Streamer    *events.Streamer
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// RegistryConfig holds the idle timeouts (optional)
	// If zero value, defaults to registry.DefaultConfig()
	RegistryConfig registry.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()

	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}
	registryCfg := cfg.RegistryConfig
	if registryCfg.ReapInterval == 0 {
		registryCfg = registry.DefaultConfig()
	}

	return newWithDependencies(store, clk, clk, random.New(), authCfg, registryCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	ticker quartz.Clock,
	rnd random.Random,
	authCfg auth.Config,
	registryCfg registry.Config,
	logger *slog.Logger,
) *App {
	reg := registry.New(clk, registryCfg)
	reaper := registry.NewReaper(reg, ticker, registryCfg.ReapInterval, logger)

	dk := deck.New(rnd)
	scoringService := scoring.New()
	gameController := game.NewController(reg, store, dk, scoringService, clk, rnd, logger)
	lobbyController := lobby.NewController(reg, gameController, clk, rnd, logger)
	botService := bot.NewService(store, lobbyController, gameController, bot.NewStrategies(rnd), clk, rnd, logger)
	authService := auth.New(store, clk, rnd, authCfg, logger)

	hubManager := events.NewHubManager(ticker, logger)
	broadcaster := events.NewBroadcaster(hubManager, ticker, logger)
	streamer := events.NewStreamer(hubManager, ticker, logger)

	// Subscribers of a reaped session hear why, then lose their stream
	reaper.OnExpire(func(code model.LobbyCode) {
		broadcaster.SessionExpired(code)
		hubManager.RemoveHub(code)
	})
	// Hubs nobody listens to anymore
	reaper.OnSweep(func() {
		hubManager.CleanupEmptyHubs(registryCfg.ReapInterval)
	})

	return &App{
		Logger:          logger,
		Storage:         store,
		Clock:           clk,
		Ticker:          ticker,
		Random:          rnd,
		Registry:        reg,
		Reaper:          reaper,
		Deck:            dk,
		ScoringService:  scoringService,
		GameController:  gameController,
		LobbyController: lobbyController,
		BotService:      botService,
		AuthService:     authService,
		HubManager:      hubManager,
		Broadcaster:     broadcaster,
		Streamer:        streamer,
	}
}

// Handler serves the JSON API under /api/ and the browser UI everywhere else
func (a *App) Handler() http.Handler {
	apiHandler := api.NewRouter(api.RouterConfig{
		Logger:          a.Logger,
		Clock:           a.Ticker,
		Storage:         a.Storage,
		Registry:        a.Registry,
		AuthService:     a.AuthService,
		LobbyController: a.LobbyController,
		GameController:  a.GameController,
		BotService:      a.BotService,
		Broadcaster:     a.Broadcaster,
		Streamer:        a.Streamer,
	})
	webHandler := web.NewRouter(web.RouterConfig{
		Logger:          a.Logger,
		Clock:           a.Ticker,
		Storage:         a.Storage,
		AuthService:     a.AuthService,
		LobbyController: a.LobbyController,
		GameController:  a.GameController,
		BotService:      a.BotService,
		Broadcaster:     a.Broadcaster,
		Streamer:        a.Streamer,
	})

	r := mux.NewRouter()
	r.PathPrefix("/api/").Handler(apiHandler)
	r.PathPrefix("/").Handler(webHandler)
	return r
}

// Close ends every live stream and releases the storage backend
func (a *App) Close() error {
	a.HubManager.CloseAll()
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
