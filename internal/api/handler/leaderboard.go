package handler

import (
	"net/http"

	"github.com/mcoot/ftdgame/internal/api/response"
	"github.com/mcoot/ftdgame/internal/services/leaderboard"
)

// LeaderboardHandler serves the public ranking
type LeaderboardHandler struct {
	leaderboard *leaderboard.Service
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(lb *leaderboard.Service) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: lb}
}

// Get handles GET /api/leaderboard
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	rows, err := h.leaderboard.Top(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, rows)
}
