package leaderboard

import (
	"context"
	"log/slog"

	"github.com/mcoot/ftdgame/internal/model"
	"github.com/mcoot/ftdgame/internal/storage"
)

// DefaultSize is the number of rows returned when no size is configured
const DefaultSize = 10

// DateLayout formats the play date of each row
const DateLayout = "01-02-2006"

// Row is one ranked leaderboard entry
type Row struct {
	Username   string           `json:"username"`
	Score      int64            `json:"score"`
	Difficulty model.Difficulty `json:"difficulty"`
	DatePlayed string           `json:"datePlayed"`
}

// Service answers leaderboard queries
type Service struct {
	storage storage.Storage
	size    int
	logger  *slog.Logger
}

// New creates a leaderboard Service returning at most size rows
func New(storage storage.Storage, size int, logger *slog.Logger) *Service {
	if size <= 0 {
		size = DefaultSize
	}
	return &Service{storage: storage, size: size, logger: logger}
}

// Top returns the highest scores, best first. Equal scores keep submission order.
func (s *Service) Top(ctx context.Context) ([]Row, error) {
	results, err := s.storage.TopResults(ctx, s.size)
	if err != nil {
		s.logger.Error("storage failure", "operation", "top results", "error", err)
		return nil, model.StorageFailure(err)
	}

	rows := make([]Row, len(results))
	for i, r := range results {
		rows[i] = Row{
			Username:   r.Username,
			Score:      r.Score,
			Difficulty: r.Difficulty,
			DatePlayed: r.PlayedAt.UTC().Format(DateLayout),
		}
	}
	return rows, nil
}
