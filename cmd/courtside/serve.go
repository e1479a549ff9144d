package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fortuna/courtside/internal/api/rest"
	"github.com/fortuna/courtside/internal/api/websocket"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve questions over REST and WebSocket",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		restServer := rest.NewServer(cfg.RESTPort, rest.NewHandler(a.queries, a.players, a.checks), logger)
		wsServer := websocket.NewServer(cfg.WSPort, a.queries, logger)

		errs := make(chan error, 2)
		go func() { errs <- restServer.Start() }()
		go func() { errs <- wsServer.Start() }()

		logger.Info("courtside started",
			"version", serviceVersion,
			"season", cfg.Season,
			"provider", cfg.Provider,
			"rest_port", cfg.RESTPort,
			"ws_port", cfg.WSPort)

		var serveErr error
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
		case err := <-errs:
			if !errors.Is(err, http.ErrServerClosed) {
				serveErr = err
			}
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := restServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("REST server shutdown error", "error", err)
		}
		if err := wsServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("WebSocket server shutdown error", "error", err)
		}

		logger.Info("courtside stopped")
		return serveErr
	},
}
