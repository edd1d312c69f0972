package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/wildlife/internal/config"
	"github.com/JonMunkholm/wildlife/internal/core"
	"github.com/JonMunkholm/wildlife/internal/logging"
	"github.com/JonMunkholm/wildlife/internal/web"
)

func main() {
	// Values already set in the environment win over .env
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	session := core.NewSession()
	server := web.NewServer(cfg, session)

	// The dataset loads in the background; the dashboard shows a loading
	// page until it is ready and a failure page if it never is.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), cfg.Data.LoadTimeout)
	defer cancelLoad()
	go func() {
		defer cancelLoad()
		opts := core.LoadOptions{MaxFileSize: cfg.Data.MaxFileSize}
		if err := session.Load(loadCtx, cfg.Data.Path, opts); err != nil {
			slog.Error("dataset unavailable", "source", cfg.Data.Path, "user_error", core.FormatUserError(err))
		}
	}()

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelLoad()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
	<-done
	slog.Info("server stopped")
}
