package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/flip7/internal/api/middleware"
	"github.com/mcoot/flip7/internal/api/response"
	"github.com/mcoot/flip7/internal/events"
	"github.com/mcoot/flip7/internal/model"
	"github.com/mcoot/flip7/internal/services/bot"
	"github.com/mcoot/flip7/internal/services/game"
)

// GameHandler handles in-game actions
type GameHandler struct {
	gameController *game.Controller
	broadcaster    *events.Broadcaster
	botService     *bot.Service
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameController *game.Controller, botService *bot.Service, broadcaster *events.Broadcaster) *GameHandler {
	return &GameHandler{
		gameController: gameController,
		broadcaster:    broadcaster,
		botService:     botService,
	}
}

// Get handles GET /api/v1/lobbies/{code}/game
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := model.LobbyCode(mux.Vars(r)["code"])

	snap, err := h.gameController.Snapshot(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}
	if snap.Phase == model.PhaseLobby {
		WriteError(w, model.ErrNoGameInProgress)
		return
	}

	response.JSON(w, http.StatusOK, response.SnapshotFromModel(snap))
}

// Draw handles POST /api/v1/lobbies/{code}/game/draw
func (h *GameHandler) Draw(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.LobbyCode(mux.Vars(r)["code"])

	outcome, snap, err := h.gameController.Draw(r.Context(), code, player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.CardDrawn(outcome, snap)
	snap = h.botService.FollowUp(r.Context(), code, snap, h.broadcaster)

	response.JSON(w, http.StatusOK, response.DrawResponse{
		Outcome:  response.DrawOutcomeFromModel(outcome),
		Snapshot: response.SnapshotFromModel(snap),
	})
}

// Stay handles POST /api/v1/lobbies/{code}/game/stay
func (h *GameHandler) Stay(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := model.LobbyCode(mux.Vars(r)["code"])

	outcome, snap, err := h.gameController.Stay(r.Context(), code, player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.broadcaster.PlayerStayed(outcome, snap)
	snap = h.botService.FollowUp(r.Context(), code, snap, h.broadcaster)

	response.JSON(w, http.StatusOK, response.StayResponse{
		Outcome:  response.StayOutcomeFromModel(outcome),
		Snapshot: response.SnapshotFromModel(snap),
	})
}
