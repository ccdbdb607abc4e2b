package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/mcoot/ftdgame/internal/api"
	"github.com/mcoot/ftdgame/internal/config"
	"github.com/mcoot/ftdgame/internal/factory"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API. Configuration is read from FTD_* environment
variables, then the optional --config YAML file, then flags.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(config.LoadOptions{Flags: cmd.Flags()})
			if err != nil {
				return err
			}

			level, _ := cfg.SlogLevel()
			logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, cfg, logger)
		},
	}

	config.RegisterFlags(cmd.Flags())
	return cmd
}

// runServe serves until ctx is cancelled or the listener fails
func runServe(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	app, err := factory.New(ctx, cfg, logger)
	if err != nil {
		return oops.Code("STARTUP_FAILED").With("storage", cfg.Storage.Type).Wrap(err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("closing storage", slog.String("error", err.Error()))
		}
	}()

	serverConfig := api.DefaultServerConfig()
	serverConfig.Addr = cfg.Addr
	server := api.NewServer(api.NewRouter(app.RouterConfig(cfg.MetricsPath())), serverConfig, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.Storage.Type),
	)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			return err
		}
		<-errCh
	}

	logger.Info("server stopped")
	return nil
}
