package score

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/mcoot/ftdgame/internal/dependencies/clock"
	"github.com/mcoot/ftdgame/internal/dependencies/ids"
	"github.com/mcoot/ftdgame/internal/model"
	"github.com/mcoot/ftdgame/internal/services/validation"
	"github.com/mcoot/ftdgame/internal/storage"
)

// Submission is a raw score report as received from a client
type Submission struct {
	// Username defaults to the caller when empty
	Username   string
	Score      string
	Difficulty string
}

// Service records game results
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	ids     ids.Generator
	logger  *slog.Logger
}

// New creates a new score Service
func New(storage storage.Storage, clock clock.Clock, ids ids.Generator, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		ids:     ids,
		logger:  logger,
	}
}

// Submit records a result for caller. The submission may only name the caller.
func (s *Service) Submit(ctx context.Context, caller string, sub Submission) (*model.GameResult, error) {
	username := sub.Username
	if username == "" {
		username = caller
	}
	if username != caller {
		return nil, model.ErrForbidden
	}

	exists, err := s.storage.IdentityExists(ctx, username)
	if err != nil {
		s.logger.Error("storage failure", "operation", "check identity", "username", username, "error", err)
		return nil, model.StorageFailure(err)
	}
	if !exists {
		return nil, model.ErrNotFound
	}

	if !validation.IsNaturalNumber(sub.Score) {
		return nil, model.ErrInvalidScore
	}
	points, err := strconv.ParseInt(sub.Score, 10, 64)
	if err != nil {
		return nil, model.ErrInvalidScore
	}

	difficulty, ok := model.DifficultyFromCode(sub.Difficulty)
	if !ok {
		return nil, model.ErrInvalidDifficulty
	}

	now := s.clock.Now().UTC()
	result := &model.GameResult{
		ID:         s.ids.NewResultID(now),
		Username:   username,
		Score:      points,
		Difficulty: difficulty,
		PlayedAt:   now,
	}

	if err := s.storage.AppendResult(ctx, result); err != nil {
		s.logger.Error("storage failure", "operation", "append result", "username", username, "error", err)
		return nil, model.StorageFailure(err)
	}

	s.logger.Info("score recorded",
		"username", username,
		"score", points,
		"difficulty", difficulty,
		"result_id", result.ID,
	)
	return result, nil
}
