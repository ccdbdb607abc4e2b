package handler

import (
	"net/http"

	"github.com/mcoot/ftdgame/internal/api/middleware"
	"github.com/mcoot/ftdgame/internal/api/request"
	"github.com/mcoot/ftdgame/internal/api/response"
	"github.com/mcoot/ftdgame/internal/metrics"
	"github.com/mcoot/ftdgame/internal/services/score"
)

// ScoreHandler handles game result submission
type ScoreHandler struct {
	scores  *score.Service
	metrics *metrics.Metrics
}

// NewScoreHandler creates a new score handler
func NewScoreHandler(scores *score.Service, m *metrics.Metrics) *ScoreHandler {
	return &ScoreHandler{scores: scores, metrics: m}
}

// Submit handles POST /api/auth/game
func (h *ScoreHandler) Submit(w http.ResponseWriter, r *http.Request) {
	caller := middleware.MustGetCaller(r.Context())

	var req request.ScoreRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	result, err := h.scores.Submit(r.Context(), caller, score.Submission{
		Username:   req.Username,
		Score:      string(req.Score),
		Difficulty: string(req.Difficulty),
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	h.metrics.RecordScore(string(result.Difficulty))
	response.JSON(w, http.StatusOK, response.ScoreRecordedFromModel(result))
}
