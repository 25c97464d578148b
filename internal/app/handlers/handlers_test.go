package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/linemk/vitrina-bot/internal/app/handlers"
	"github.com/linemk/vitrina-bot/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSessions фиктивное хранилище сессий
type fakeSessions struct {
	n   int
	err error
}

func (f *fakeSessions) Len(ctx context.Context) (int, error) {
	return f.n, f.err
}

func newRouter(sessions handlers.SessionCounter) http.Handler {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)
	collector.RecordEvent("start")
	return handlers.NewRouter(logger, sessions, metrics.Handler(reg))
}

func TestHealthHandler_Success(t *testing.T) {
	router := newRouter(&fakeSessions{n: 3})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, "Expected status 200 OK")
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp handlers.HealthResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 3, resp.Sessions)
}

func TestHealthHandler_SessionStoreDown(t *testing.T) {
	router := newRouter(&fakeSessions{err: errors.New("redis down")})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	router := newRouter(&fakeSessions{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `vitrina_events_total{kind="start"} 1`)
}

func TestRouter_UnknownPath(t *testing.T) {
	router := newRouter(&fakeSessions{})

	req := httptest.NewRequest(http.MethodPost, "/healthz", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
