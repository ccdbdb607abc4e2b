package factory

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"

	"github.com/mcoot/ftdgame/internal/api"
	"github.com/mcoot/ftdgame/internal/config"
	"github.com/mcoot/ftdgame/internal/dependencies/clock"
	"github.com/mcoot/ftdgame/internal/dependencies/ids"
	"github.com/mcoot/ftdgame/internal/metrics"
	"github.com/mcoot/ftdgame/internal/services/gate"
	"github.com/mcoot/ftdgame/internal/services/leaderboard"
	"github.com/mcoot/ftdgame/internal/services/profile"
	"github.com/mcoot/ftdgame/internal/services/score"
	"github.com/mcoot/ftdgame/internal/storage"
	"github.com/mcoot/ftdgame/internal/storage/memory"
	"github.com/mcoot/ftdgame/internal/storage/postgres"
	redisstorage "github.com/mcoot/ftdgame/internal/storage/redis"
	"github.com/mcoot/ftdgame/internal/storage/secret"
	"github.com/mcoot/ftdgame/internal/storage/sqlite"
)

// App contains all wired application components
type App struct {
	Logger *slog.Logger

	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock
	IDs   ids.Generator

	// Services
	Gate               *gate.Gate
	ProfileService     *profile.Service
	ScoreService       *score.Service
	LeaderboardService *leaderboard.Service

	Metrics *metrics.Metrics
}

// New creates a new application with all dependencies wired.
// A nil logger discards output.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := OpenStorage(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, err
	}

	return newWithDependencies(store, clock.New(), ids.New(), cfg.Leaderboard.Size, logger), nil
}

// OpenStorage connects to the configured backend. Network backends are retried
// with exponential backoff up to cfg.ConnectAttempts times.
func OpenStorage(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (storage.Storage, error) {
	hasher := secret.NewHasher(cfg.BcryptCost)

	switch cfg.Type {
	case "", config.StorageMemory:
		return memory.New(hasher), nil

	case config.StorageSQLite:
		return sqlite.Open(ctx, cfg.SQLitePath, hasher)

	case config.StorageRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		return connect(ctx, cfg, logger, func(ctx context.Context) (storage.Storage, error) {
			return redisstorage.New(ctx, redisCfg, hasher)
		})

	case config.StoragePostgres:
		return connect(ctx, cfg, logger, func(ctx context.Context) (storage.Storage, error) {
			return postgres.New(ctx, cfg.PostgresURL, cfg.BcryptCost)
		})

	default:
		return nil, oops.Code("STORAGE_UNKNOWN_TYPE").
			With("type", cfg.Type).
			Errorf("invalid storage type %q: must be memory, redis, postgres or sqlite", cfg.Type)
	}
}

func connect(
	ctx context.Context,
	cfg config.StorageConfig,
	logger *slog.Logger,
	open func(context.Context) (storage.Storage, error),
) (storage.Storage, error) {
	attempts := max(cfg.ConnectAttempts, 1)
	backoff := retry.WithMaxRetries(uint64(attempts-1),
		retry.WithCappedDuration(5*time.Second, retry.NewExponential(250*time.Millisecond)))

	var store storage.Storage
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		s, err := open(ctx)
		if err != nil {
			logger.Warn("storage connection failed",
				"type", cfg.Type,
				"attempt", attempt,
				"max_attempts", attempts,
				"error", err,
			)
			return retry.RetryableError(err)
		}
		store = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("storage connected", "type", cfg.Type, "attempts", attempt)
	return store, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, idg ids.Generator, leaderboardSize int, logger *slog.Logger) *App {
	return &App{
		Logger:             logger,
		Storage:            store,
		Clock:              clk,
		IDs:                idg,
		Gate:               gate.New(store, logger),
		ProfileService:     profile.New(store, clk, logger),
		ScoreService:       score.New(store, clk, idg, logger),
		LeaderboardService: leaderboard.New(store, leaderboardSize, logger),
		Metrics:            metrics.New(),
	}
}

// RouterConfig returns the router configuration for this App.
// An empty metricsPath leaves /metrics unrouted.
func (a *App) RouterConfig(metricsPath string) api.RouterConfig {
	return api.RouterConfig{
		Logger:             a.Logger,
		Storage:            a.Storage,
		Gate:               a.Gate,
		ProfileService:     a.ProfileService,
		ScoreService:       a.ScoreService,
		LeaderboardService: a.LeaderboardService,
		Metrics:            a.Metrics,
		MetricsPath:        metricsPath,
	}
}

// Close releases the storage backend
func (a *App) Close() error {
	return a.Storage.Close()
}
