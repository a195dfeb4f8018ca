package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/flip7/internal/api/response"
	"github.com/mcoot/flip7/internal/registry"
	"github.com/mcoot/flip7/internal/storage"
)

// HealthHandler reports server liveness
type HealthHandler struct {
	storage  storage.Storage
	registry *registry.Registry
	logger   *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store storage.Storage, reg *registry.Registry, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{storage: store, registry: reg, logger: logger}
}

// Get handles GET /api/v1/health
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	resp := response.HealthResponse{
		Status:       "ok",
		Storage:      "ok",
		LiveSessions: h.registry.Len(),
	}
	status := http.StatusOK

	if err := h.storage.Ping(r.Context()); err != nil {
		h.logger.Warn("storage health check failed", slog.Any("error", err))
		resp.Status = "degraded"
		resp.Storage = "unavailable"
		status = http.StatusServiceUnavailable
	}

	response.JSON(w, status, resp)
}
