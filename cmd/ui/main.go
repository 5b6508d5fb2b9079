package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"customer-service/internal/config"
	"customer-service/internal/infrastructure/logging"
	"customer-service/internal/ui"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Logger).With("app", "customer-ui")
	slog.SetDefault(logger)

	client := ui.NewAPIClient(cfg.UI.APIBaseURL, cfg.UI.APIToken, nil, logger)
	router := ui.NewRouter(ui.NewPageHandler(client, cfg.UI.PageSize, logger), logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.UI.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("UI listening", "port", cfg.UI.Port, "api", cfg.UI.APIBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("UI server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down UI server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("UI server graceful shutdown failed", "error", err)
	}
	logger.Info("UI server stopped.")
}
