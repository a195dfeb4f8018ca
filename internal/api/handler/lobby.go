package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/flip7/internal/api/middleware"
	"github.com/mcoot/flip7/internal/api/request"
	"github.com/mcoot/flip7/internal/api/response"
	"github.com/mcoot/flip7/internal/events"
	"github.com/mcoot/flip7/internal/model"
	"github.com/mcoot/flip7/internal/services/bot"
	"github.com/mcoot/flip7/internal/services/lobby"
)

// LobbyHandler handles lobby endpoints and the lobby event streams
type LobbyHandler struct {
	lobbyController *lobby.Controller
	botService      *bot.Service
	broadcaster     *events.Broadcaster
	streamer        *events.Streamer
}

// NewLobbyHandler creates a new lobby handler
func NewLobbyHandler(
	lobbyController *lobby.Controller,
	botService *bot.Service,
	broadcaster *events.Broadcaster,
	streamer *events.Streamer,
) *LobbyHandler {
	return &LobbyHandler{
		lobbyController: lobbyController,
		botService:      botService,
		broadcaster:     broadcaster,
		streamer:        streamer,
	}
}

// Create handles POST /api/v1/lobbies
func (h *LobbyHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	snap, err := h.lobbyController.CreateLobby(r.Context(), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.LobbyCreated(snap)
	response.JSON(w, http.StatusCreated, response.SnapshotFromModel(snap))
}

// Get handles GET /api/v1/lobbies/{code}
func (h *LobbyHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := model.LobbyCode(mux.Vars(r)["code"])

	snap, err := h.lobbyController.Get(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SnapshotFromModel(snap))
}

// Join handles POST /api/v1/lobbies/{code}/join
func (h *LobbyHandler) Join(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.LobbyCode(mux.Vars(r)["code"])

	snap, err := h.lobbyController.Join(r.Context(), code, player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.PlayerJoined(player, snap)
	response.JSON(w, http.StatusOK, response.SnapshotFromModel(snap))
}

// AddBot handles POST /api/v1/lobbies/{code}/bots
func (h *LobbyHandler) AddBot(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.LobbyCode(mux.Vars(r)["code"])

	req, err := decodeBody[request.AddBotRequest](r, true)
	if err != nil {
		WriteError(w, err)
		return
	}
	if req.Strategy == "" {
		req.Strategy = model.BotStrategyCautious
	}

	botPlayer, snap, err := h.botService.AddBot(r.Context(), code, player.ID, req.Strategy, req.DisplayName)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.BotAdded(botPlayer, snap)
	response.JSON(w, http.StatusCreated, response.AddBotResponse{
		Bot:      response.PlayerFromModel(botPlayer),
		Snapshot: response.SnapshotFromModel(snap),
	})
}

// Start handles POST /api/v1/lobbies/{code}/start
func (h *LobbyHandler) Start(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.LobbyCode(mux.Vars(r)["code"])

	snap, err := h.lobbyController.Start(r.Context(), code, player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.GameStarted(player.ID, snap)
	snap = h.botService.FollowUp(r.Context(), code, snap, h.broadcaster)

	response.JSON(w, http.StatusOK, response.SnapshotFromModel(snap))
}

// Events handles GET /api/v1/lobbies/{code}/events as a Server-Sent Events stream
func (h *LobbyHandler) Events(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.LobbyCode(mux.Vars(r)["code"])

	if _, err := h.lobbyController.Get(r.Context(), code); err != nil {
		WriteError(w, err)
		return
	}

	h.streamer.ServeSSE(w, r, code, player.ID)
}

// WebSocket handles GET /api/v1/lobbies/{code}/ws
func (h *LobbyHandler) WebSocket(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.LobbyCode(mux.Vars(r)["code"])

	if _, err := h.lobbyController.Get(r.Context(), code); err != nil {
		WriteError(w, err)
		return
	}

	h.streamer.ServeWebSocket(w, r, code, player.ID)
}
