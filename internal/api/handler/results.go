package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/flip7/internal/api/response"
	"github.com/mcoot/flip7/internal/model"
	"github.com/mcoot/flip7/internal/storage"
)

// DefaultResultsLimit is used when no limit is given
const DefaultResultsLimit = 20

// ResultsHandler serves finished game results
type ResultsHandler struct {
	storage storage.Storage
}

// NewResultsHandler creates a new results handler
func NewResultsHandler(store storage.Storage) *ResultsHandler {
	return &ResultsHandler{storage: store}
}

// List handles GET /api/v1/results?limit=N
func (h *ResultsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := DefaultResultsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			WriteError(w, NewInvalidRequestError("limit must be a positive integer"))
			return
		}
		limit = min(n, storage.MaxRecentResults)
	}

	results, err := h.storage.ListRecentResults(r.Context(), limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := response.ResultsResponse{Results: make([]response.GameResult, 0, len(results))}
	for _, result := range results {
		resp.Results = append(resp.Results, response.GameResultFromModel(result))
	}
	response.JSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/results/{game_id}
func (h *ResultsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["game_id"])

	result, err := h.storage.GetGameResult(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameResultFromModel(result))
}
