// Package web serves the browser UI: server-rendered templ pages over the
// same controllers and event streams as the JSON API.
package web

import (
	"log/slog"
	"net/http"

	"github.com/coder/quartz"
	"github.com/gorilla/mux"

	"github.com/mcoot/flip7/internal/events"
	logging "github.com/mcoot/flip7/internal/middleware"
	"github.com/mcoot/flip7/internal/services/auth"
	"github.com/mcoot/flip7/internal/services/bot"
	"github.com/mcoot/flip7/internal/services/game"
	"github.com/mcoot/flip7/internal/services/lobby"
	"github.com/mcoot/flip7/internal/storage"
	"github.com/mcoot/flip7/internal/web/handler"
	"github.com/mcoot/flip7/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger          *slog.Logger
	Clock           quartz.Clock
	Storage         storage.Storage
	AuthService     *auth.Service
	LobbyController *lobby.Controller
	GameController  *game.Controller
	BotService      *bot.Service
	Broadcaster     *events.Broadcaster
	Streamer        *events.Streamer
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(logging.Logging(cfg.Logger, cfg.Clock))

	homeHandler := handler.NewHomeHandler()
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	lobbyHandler := handler.NewLobbyHandler(cfg.LobbyController, cfg.BotService, cfg.Storage, cfg.Broadcaster, cfg.Streamer)
	gameHandler := handler.NewGameHandler(cfg.GameController, cfg.BotService, cfg.Storage, cfg.Broadcaster)

	flashMiddleware := middleware.Flash()
	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)

	public := r.NewRoute().Subrouter()
	public.Use(flashMiddleware)
	public.Use(optionalAuthMiddleware)
	public.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)

	authRoutes := r.PathPrefix("/auth").Subrouter()
	authRoutes.HandleFunc("/guest", authHandler.CreateGuest).Methods(http.MethodPost)
	authRoutes.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	authRoutes.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)
	authRoutes.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)

	protected := r.PathPrefix("/lobby").Subrouter()
	protected.Use(flashMiddleware)
	protected.Use(authMiddleware)
	protected.HandleFunc("", lobbyHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/join", lobbyHandler.JoinByForm).Methods(http.MethodPost)
	protected.HandleFunc("/{code}", lobbyHandler.View).Methods(http.MethodGet)
	protected.HandleFunc("/{code}/join", lobbyHandler.Join).Methods(http.MethodPost)
	protected.HandleFunc("/{code}/bots", lobbyHandler.AddBot).Methods(http.MethodPost)
	protected.HandleFunc("/{code}/start", lobbyHandler.Start).Methods(http.MethodPost)
	protected.HandleFunc("/{code}/events", lobbyHandler.Events).Methods(http.MethodGet)

	protected.HandleFunc("/{code}/game", gameHandler.View).Methods(http.MethodGet)
	protected.HandleFunc("/{code}/game/draw", gameHandler.Draw).Methods(http.MethodPost)
	protected.HandleFunc("/{code}/game/stay", gameHandler.Stay).Methods(http.MethodPost)

	return r
}
