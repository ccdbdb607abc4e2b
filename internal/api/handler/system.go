package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/mcoot/ftdgame/internal/api/response"
	"github.com/mcoot/ftdgame/internal/storage"
)

// SystemHandler handles liveness endpoints
type SystemHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(storage storage.Storage, logger *slog.Logger) *SystemHandler {
	return &SystemHandler{storage: storage, logger: logger}
}

// Test handles POST /api/test
func (h *SystemHandler) Test(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, "got here")
}

// Health handles GET /api/health
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.storage.Ping(ctx); err != nil {
		h.logger.Warn("storage ping failed", "error", err)
		response.JSON(w, http.StatusServiceUnavailable, response.Health{Status: "unavailable", Storage: "down"})
		return
	}
	response.JSON(w, http.StatusOK, response.Health{Status: "ok", Storage: "up"})
}
