package main

import (
	"bytes"
	"log/slog"
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"customer-service/internal/api/middleware"
	"customer-service/internal/config"
	"customer-service/internal/event"
	"customer-service/internal/infrastructure/logging"

	"github.com/stretchr/testify/assert"
)

func TestInitializeApp(t *testing.T) {
	cfg, log := initializeApp()

	assert.NotNil(t, cfg, "Config should not be nil")
	assert.NotNil(t, log, "Logger should not be nil")
}

func TestInitializePublisherDisabled(t *testing.T) {
	logger := logging.NewLogger(config.LoggerConfig{})

	pub, closeFn := initializePublisher(&config.Config{}, logger)
	defer closeFn()

	assert.IsType(t, &event.NoopPublisher{}, pub)
}

func TestInitializePublisherFallsBackWhenBrokerUnreachable(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	cfg := &config.Config{RabbitMQ: config.RabbitMQConfig{
		Enabled:  true,
		Host:     "127.0.0.1",
		Port:     1,
		Username: "guest",
		Password: "guest",
	}}

	pub, closeFn := initializePublisher(cfg, logger)
	defer closeFn()

	assert.IsType(t, &event.NoopPublisher{}, pub)
	assert.Contains(t, buf.String(), "falling back to no-op publisher")
}

func TestInitializeRateLimiter(t *testing.T) {
	logger := logging.NewLogger(config.LoggerConfig{})

	limiter, closeFn := initializeRateLimiter(&config.Config{}, logger)
	closeFn()
	assert.Nil(t, limiter)

	cfg := &config.Config{Server: config.ServerConfig{RateLimit: config.RateLimitConfig{Enabled: true, Backend: "memory", RPS: 5, Burst: 5}}}
	limiter, closeFn = initializeRateLimiter(cfg, logger)
	defer closeFn()
	assert.IsType(t, &middleware.RateLimiterMiddleware{}, limiter)
}

func TestStartServer(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:         0,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			IdleTimeout:  5 * time.Second,
		},
	}
	logger := logging.NewLogger(config.LoggerConfig{})
	router := http.NewServeMux()

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	defer srv.Close()

	assert.NotNil(t, srv, "Server should not be nil")
	assert.NotNil(t, serverErrors, "Server errors channel should not be nil")
	assert.NotNil(t, shutdownChan, "Shutdown channel should not be nil")
}

func TestHandleShutdown(t *testing.T) {
	logger := logging.NewLogger(config.LoggerConfig{})
	srv := &http.Server{}
	shutdownChan := make(chan os.Signal, 1)
	serverErrors := make(chan error, 1)

	go func() {
		shutdownChan <- syscall.SIGINT
	}()

	handleShutdown(srv, shutdownChan, serverErrors, logger)
	assert.True(t, true, "Graceful shutdown should complete without errors")
}
