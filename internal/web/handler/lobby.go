package handler

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/flip7/internal/events"
	"github.com/mcoot/flip7/internal/model"
	"github.com/mcoot/flip7/internal/services/bot"
	"github.com/mcoot/flip7/internal/services/lobby"
	"github.com/mcoot/flip7/internal/storage"
	"github.com/mcoot/flip7/internal/web/middleware"
	"github.com/mcoot/flip7/internal/web/templates/pages"
)

// LobbyHandler handles lobby pages and actions
type LobbyHandler struct {
	lobbyController *lobby.Controller
	botService      *bot.Service
	storage         storage.Storage
	broadcaster     *events.Broadcaster
	streamer        *events.Streamer
}

// NewLobbyHandler creates a new LobbyHandler
func NewLobbyHandler(
	lobbyController *lobby.Controller,
	botService *bot.Service,
	store storage.Storage,
	broadcaster *events.Broadcaster,
	streamer *events.Streamer,
) *LobbyHandler {
	return &LobbyHandler{
		lobbyController: lobbyController,
		botService:      botService,
		storage:         store,
		broadcaster:     broadcaster,
		streamer:        streamer,
	}
}

// Create handles POST /lobby
func (h *LobbyHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.GetPlayer(r.Context())

	snap, err := h.lobbyController.CreateLobby(r.Context(), player.ID)
	if err != nil {
		failWith(w, r, "Could not create lobby", err, "/")
		return
	}

	h.broadcaster.LobbyCreated(snap)
	middleware.SetFlash(w, "success", "Lobby created!")
	http.Redirect(w, r, lobbyPath(snap.LobbyCode), http.StatusSeeOther)
}

// JoinByForm handles POST /lobby/join with a typed-in code
func (h *LobbyHandler) JoinByForm(w http.ResponseWriter, r *http.Request) {
	code := model.LobbyCode(strings.ToUpper(strings.TrimSpace(r.FormValue("code"))))
	if code == "" {
		middleware.SetFlash(w, "error", "Lobby code is required")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.join(w, r, code, "/")
}

// Join handles POST /lobby/{code}/join
func (h *LobbyHandler) Join(w http.ResponseWriter, r *http.Request) {
	code := model.LobbyCode(mux.Vars(r)["code"])
	h.join(w, r, code, lobbyPath(code))
}

func (h *LobbyHandler) join(w http.ResponseWriter, r *http.Request, code model.LobbyCode, onError string) {
	player := middleware.GetPlayer(r.Context())

	snap, err := h.lobbyController.Join(r.Context(), code, player.ID)
	if err != nil {
		failWith(w, r, "Could not join lobby", err, onError)
		return
	}

	h.broadcaster.PlayerJoined(player, snap)
	middleware.SetFlash(w, "success", "Joined lobby!")
	http.Redirect(w, r, lobbyPath(code), http.StatusSeeOther)
}

// View handles GET /lobby/{code}; started lobbies forward to the game page
func (h *LobbyHandler) View(w http.ResponseWriter, r *http.Request) {
	player := middleware.GetPlayer(r.Context())
	code := model.LobbyCode(mux.Vars(r)["code"])

	snap, err := h.lobbyController.Get(r.Context(), code)
	if err != nil {
		failWith(w, r, "Could not open lobby", err, "/")
		return
	}
	if snap.Phase != model.PhaseLobby {
		http.Redirect(w, r, gamePath(code), http.StatusSeeOther)
		return
	}

	render(w, r, pages.Lobby(pages.LobbyData{
		PageData:   pageData(r, "Lobby "+string(code)),
		Snapshot:   snap,
		Names:      playerNames(r.Context(), h.storage, snap.Roster),
		IsCreator:  snap.Creator == player.ID,
		IsMember:   slices.Contains(snap.Roster, player.ID),
		Strategies: model.ValidBotStrategies(),
	}))
}

// AddBot handles POST /lobby/{code}/bots
func (h *LobbyHandler) AddBot(w http.ResponseWriter, r *http.Request) {
	player := middleware.GetPlayer(r.Context())
	code := model.LobbyCode(mux.Vars(r)["code"])

	strategy := r.FormValue("strategy")
	if strategy == "" {
		strategy = model.BotStrategyCautious
	}

	botPlayer, snap, err := h.botService.AddBot(r.Context(), code, player.ID, strategy, "")
	if err != nil {
		failWith(w, r, "Could not add bot", err, lobbyPath(code))
		return
	}

	h.broadcaster.BotAdded(botPlayer, snap)
	http.Redirect(w, r, lobbyPath(code), http.StatusSeeOther)
}

// Start handles POST /lobby/{code}/start
func (h *LobbyHandler) Start(w http.ResponseWriter, r *http.Request) {
	player := middleware.GetPlayer(r.Context())
	code := model.LobbyCode(mux.Vars(r)["code"])

	snap, err := h.lobbyController.Start(r.Context(), code, player.ID)
	if err != nil {
		failWith(w, r, "Could not start game", err, lobbyPath(code))
		return
	}

	h.broadcaster.GameStarted(player.ID, snap)
	h.botService.FollowUp(r.Context(), code, snap, h.broadcaster)

	http.Redirect(w, r, gamePath(code), http.StatusSeeOther)
}

// Events handles GET /lobby/{code}/events for the page's live reload
func (h *LobbyHandler) Events(w http.ResponseWriter, r *http.Request) {
	player := middleware.GetPlayer(r.Context())
	code := model.LobbyCode(mux.Vars(r)["code"])

	if _, err := h.lobbyController.Get(r.Context(), code); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	h.streamer.ServeSSE(w, r, code, player.ID)
}
