package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/flip7/internal/events"
	"github.com/mcoot/flip7/internal/model"
	"github.com/mcoot/flip7/internal/services/bot"
	"github.com/mcoot/flip7/internal/services/game"
	"github.com/mcoot/flip7/internal/storage"
	"github.com/mcoot/flip7/internal/web/middleware"
	"github.com/mcoot/flip7/internal/web/templates/pages"
)

// GameHandler handles the game page and the Flip and Stay buttons
type GameHandler struct {
	gameController *game.Controller
	botService     *bot.Service
	storage        storage.Storage
	broadcaster    *events.Broadcaster
}

// NewGameHandler creates a new GameHandler
func NewGameHandler(gameController *game.Controller, botService *bot.Service, store storage.Storage, broadcaster *events.Broadcaster) *GameHandler {
	return &GameHandler{
		gameController: gameController,
		botService:     botService,
		storage:        store,
		broadcaster:    broadcaster,
	}
}

// View handles GET /lobby/{code}/game
func (h *GameHandler) View(w http.ResponseWriter, r *http.Request) {
	player := middleware.GetPlayer(r.Context())
	code := model.LobbyCode(mux.Vars(r)["code"])

	snap, err := h.gameController.Snapshot(r.Context(), code)
	if err != nil {
		failWith(w, r, "Could not open game", err, "/")
		return
	}
	if snap.Phase == model.PhaseLobby {
		middleware.SetFlash(w, "info", "No game in progress")
		http.Redirect(w, r, lobbyPath(code), http.StatusSeeOther)
		return
	}

	render(w, r, pages.Game(pages.GameData{
		PageData: pageData(r, "Game "+string(code)),
		Snapshot: snap,
		Names:    playerNames(r.Context(), h.storage, snap.Roster),
		MyTurn:   snap.CurrentPlayer == player.ID,
	}))
}

// Draw handles POST /lobby/{code}/game/draw
func (h *GameHandler) Draw(w http.ResponseWriter, r *http.Request) {
	player := middleware.GetPlayer(r.Context())
	code := model.LobbyCode(mux.Vars(r)["code"])

	outcome, snap, err := h.gameController.Draw(r.Context(), code, player.ID)
	if err != nil {
		failWith(w, r, "Could not flip", err, gamePath(code))
		return
	}

	h.broadcaster.CardDrawn(outcome, snap)
	h.botService.FollowUp(r.Context(), code, snap, h.broadcaster)
	http.Redirect(w, r, gamePath(code), http.StatusSeeOther)
}

// Stay handles POST /lobby/{code}/game/stay
func (h *GameHandler) Stay(w http.ResponseWriter, r *http.Request) {
	player := middleware.GetPlayer(r.Context())
	code := model.LobbyCode(mux.Vars(r)["code"])

	outcome, snap, err := h.gameController.Stay(r.Context(), code, player.ID)
	if err != nil {
		failWith(w, r, "Could not stay", err, gamePath(code))
		return
	}

	h.broadcaster.PlayerStayed(outcome, snap)
	h.botService.FollowUp(r.Context(), code, snap, h.broadcaster)
	http.Redirect(w, r, gamePath(code), http.StatusSeeOther)
}

func gamePath(code model.LobbyCode) string {
	return lobbyPath(code) + "/game"
}
