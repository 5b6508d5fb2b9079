package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"customer-service/internal/api/handler/dto"
	mw "customer-service/internal/api/middleware"
	"customer-service/internal/config"
	"customer-service/internal/domain/customer"
	"customer-service/internal/pkg/pipeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

type stubSender struct {
	seen []string
}

func (s *stubSender) Send(_ context.Context, req pipeline.Request) (any, error) {
	s.seen = append(s.seen, req.RequestName())
	switch req.(type) {
	case customer.ListCustomersQuery:
		return []*customer.Customer{{ID: 1, Name: "Customer 1"}}, nil
	case customer.GetCustomerQuery:
		return &customer.Customer{ID: 1, Name: "Customer 1"}, nil
	}
	return nil, errors.New("unexpected request")
}

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

func newTestRouter(t *testing.T, auth config.AuthConfig) (http.Handler, *stubSender) {
	t.Helper()
	cfg := &config.Config{
		Server:  config.ServerConfig{Auth: auth},
		Metrics: config.MetricsConfig{Path: "/metrics"},
	}
	sender := &stubSender{}
	return SetupRouter(sender, stubPinger{}, nil, cfg, logger), sender
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestSetupRouter(t *testing.T) {
	router, sender := newTestRouter(t, config.AuthConfig{})

	t.Run("health", func(t *testing.T) {
		rec := serve(router, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok","database":"up"}`, rec.Body.String())
	})

	t.Run("customer routes dispatch through the sender", func(t *testing.T) {
		rec := serve(router, httptest.NewRequest(http.MethodGet, "/api/customers", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		rec = serve(router, httptest.NewRequest(http.MethodGet, "/api/customers/1", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"ListCustomersQuery", "GetCustomerQuery"}, sender.seen)
	})

	t.Run("unsupported method", func(t *testing.T) {
		rec := serve(router, httptest.NewRequest(http.MethodPatch, "/api/customers/1", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("metrics endpoint", func(t *testing.T) {
		rec := serve(router, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "customer_service_http_requests_total")
	})

	t.Run("swagger redirect", func(t *testing.T) {
		rec := serve(router, httptest.NewRequest(http.MethodGet, "/swagger", nil))
		assert.Equal(t, http.StatusMovedPermanently, rec.Code)
		assert.Equal(t, "/swagger/index.html", rec.Header().Get("Location"))
	})

	t.Run("swagger document", func(t *testing.T) {
		rec := serve(router, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "/api/customers/{customerID}")
	})
}

func TestSetupRouterRateLimit(t *testing.T) {
	cfg := &config.Config{Metrics: config.MetricsConfig{Path: "/metrics"}}
	limiter := mw.NewRateLimiterMiddleware(config.RateLimitConfig{Enabled: true, RPS: 1, Burst: 1}, logger)
	t.Cleanup(limiter.Stop)
	router := SetupRouter(&stubSender{}, stubPinger{}, limiter, cfg, logger)

	assert.Equal(t, http.StatusOK, serve(router, httptest.NewRequest(http.MethodGet, "/health", nil)).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(router, httptest.NewRequest(http.MethodGet, "/health", nil)).Code)
}

func TestSetupRouterWithAuth(t *testing.T) {
	router, _ := newTestRouter(t, config.AuthConfig{Enabled: true, JWTSecret: "router-test-secret"})

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/api/customers", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	tokenReq := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(`{"username":"admin"}`))
	rec = serve(router, tokenReq)
	require.Equal(t, http.StatusOK, rec.Code)

	var token dto.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &token))

	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	req.Header.Set("Authorization", "Bearer "+token.Token)
	rec = serve(router, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code, "health stays public")
}
