package api

import (
	"log/slog"
	"net/http"

	"github.com/coder/quartz"
	"github.com/gorilla/mux"

	"github.com/mcoot/flip7/internal/api/handler"
	"github.com/mcoot/flip7/internal/api/middleware"
	"github.com/mcoot/flip7/internal/events"
	logging "github.com/mcoot/flip7/internal/middleware"
	"github.com/mcoot/flip7/internal/registry"
	"github.com/mcoot/flip7/internal/services/auth"
	"github.com/mcoot/flip7/internal/services/bot"
	"github.com/mcoot/flip7/internal/services/game"
	"github.com/mcoot/flip7/internal/services/lobby"
	"github.com/mcoot/flip7/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	Clock           quartz.Clock
	Storage         storage.Storage
	Registry        *registry.Registry
	AuthService     *auth.Service
	LobbyController *lobby.Controller
	GameController  *game.Controller
	BotService      *bot.Service
	Broadcaster     *events.Broadcaster
	Streamer        *events.Streamer
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	playerHandler := handler.NewPlayerHandler(cfg.AuthService)
	lobbyHandler := handler.NewLobbyHandler(cfg.LobbyController, cfg.BotService, cfg.Broadcaster, cfg.Streamer)
	gameHandler := handler.NewGameHandler(cfg.GameController, cfg.BotService, cfg.Broadcaster)
	resultsHandler := handler.NewResultsHandler(cfg.Storage)
	healthHandler := handler.NewHealthHandler(cfg.Storage, cfg.Registry, cfg.Logger)

	authMiddleware := middleware.Auth(cfg.AuthService)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(logging.Logging(cfg.Logger, cfg.Clock))

	// Identity routes (no auth required)
	api.HandleFunc("/players/guest", playerHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)

	playerProtected := api.PathPrefix("/players").Subrouter()
	playerProtected.Use(authMiddleware)
	playerProtected.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)

	// Lobby and game routes (all require auth)
	lobbies := api.PathPrefix("/lobbies").Subrouter()
	lobbies.Use(authMiddleware)
	lobbies.HandleFunc("", lobbyHandler.Create).Methods(http.MethodPost)
	lobbies.HandleFunc("/{code}", lobbyHandler.Get).Methods(http.MethodGet)
	lobbies.HandleFunc("/{code}/join", lobbyHandler.Join).Methods(http.MethodPost)
	lobbies.HandleFunc("/{code}/bots", lobbyHandler.AddBot).Methods(http.MethodPost)
	lobbies.HandleFunc("/{code}/start", lobbyHandler.Start).Methods(http.MethodPost)
	lobbies.HandleFunc("/{code}/events", lobbyHandler.Events).Methods(http.MethodGet)
	lobbies.HandleFunc("/{code}/ws", lobbyHandler.WebSocket).Methods(http.MethodGet)

	lobbies.HandleFunc("/{code}/game", gameHandler.Get).Methods(http.MethodGet)
	lobbies.HandleFunc("/{code}/game/draw", gameHandler.Draw).Methods(http.MethodPost)
	lobbies.HandleFunc("/{code}/game/stay", gameHandler.Stay).Methods(http.MethodPost)

	// Results are public
	api.HandleFunc("/results", resultsHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/results/{game_id}", resultsHandler.Get).Methods(http.MethodGet)

	api.HandleFunc("/health", healthHandler.Get).Methods(http.MethodGet)

	return r
}
