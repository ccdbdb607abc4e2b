package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/ftdgame/internal/api/apierr"
	"github.com/mcoot/ftdgame/internal/api/handler"
	"github.com/mcoot/ftdgame/internal/api/middleware"
	"github.com/mcoot/ftdgame/internal/metrics"
	"github.com/mcoot/ftdgame/internal/services/gate"
	"github.com/mcoot/ftdgame/internal/services/leaderboard"
	"github.com/mcoot/ftdgame/internal/services/profile"
	"github.com/mcoot/ftdgame/internal/services/score"
	"github.com/mcoot/ftdgame/internal/storage"

	sharedmw "github.com/mcoot/ftdgame/internal/middleware"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger             *slog.Logger
	Storage            storage.Storage
	Gate               *gate.Gate
	ProfileService     *profile.Service
	ScoreService       *score.Service
	LeaderboardService *leaderboard.Service
	Metrics            *metrics.Metrics
	// MetricsPath exposes the prometheus registry when non-empty
	MetricsPath string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	systemHandler := handler.NewSystemHandler(cfg.Storage, cfg.Logger)
	profileHandler := handler.NewProfileHandler(cfg.ProfileService)
	scoreHandler := handler.NewScoreHandler(cfg.ScoreService, cfg.Metrics)
	leaderboardHandler := handler.NewLeaderboardHandler(cfg.LeaderboardService)

	// Common middleware, outermost first
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(sharedmw.Logging(cfg.Logger))
	r.Use(middleware.Metrics(cfg.Metrics))

	// Public routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/test", systemHandler.Test).Methods(http.MethodPost)
	api.HandleFunc("/health", systemHandler.Health).Methods(http.MethodGet)
	api.HandleFunc("/leaderboard", leaderboardHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/register", profileHandler.Register).Methods(http.MethodPost)

	// Every /api/auth route re-verifies credentials
	auth := api.PathPrefix("/auth").Subrouter()
	auth.Use(middleware.Gate(cfg.Gate, cfg.Metrics))
	auth.HandleFunc("/login", profileHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/users/{username}", profileHandler.Get).Methods(http.MethodGet)
	auth.HandleFunc("/users/{username}", profileHandler.Update).Methods(http.MethodPut)
	auth.HandleFunc("/users/{username}", profileHandler.Delete).Methods(http.MethodDelete)
	auth.HandleFunc("/game", scoreHandler.Submit).Methods(http.MethodPost)

	if cfg.MetricsPath != "" {
		r.Handle(cfg.MetricsPath, cfg.Metrics.Handler()).Methods(http.MethodGet)
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewRouteNotFoundError())
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewMethodNotAllowedError())
	})

	return r
}
