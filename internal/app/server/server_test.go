package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrcore/internal/auth"
	"hrcore/internal/platform/clock"
	"hrcore/internal/platform/config"
	"hrcore/internal/platform/lock"
	"hrcore/internal/platform/metrics"
	"hrcore/internal/storage/memory"
)

func testConfig() config.Config {
	return config.Config{
		Addr:               ":0",
		Environment:        "test",
		JWTSecret:          "server-test-secret",
		MaxBodyBytes:       1 << 20,
		MetricsEnabled:     true,
		RateLimitPerMinute: 1000,
		LockTTL:            time.Second,
		LogLevel:           "info",
		ShutdownTimeout:    time.Second,
	}
}

func get(t *testing.T, h http.Handler, path, tok string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewInMemory(t *testing.T) {
	app, err := New(context.Background(), testConfig())
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, http.StatusOK, get(t, app.Router, "/healthz", "").Code)
	assert.Equal(t, http.StatusOK, get(t, app.Router, "/readyz", "").Code)

	rec := get(t, app.Router, "/api/v1/document-types?country=USA", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	tok, err := auth.GenerateToken(testConfig().JWTSecret, auth.Claims{UserID: "hr-1", TenantID: "t1", Role: auth.RoleHR}, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, get(t, app.Router, "/api/v1/document-types?country=USA", tok).Code)

	rec = get(t, app.Router, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "hrcore_http_requests_total")
}

func TestNewRejectsBadEncryptionKey(t *testing.T) {
	cfg := testConfig()
	cfg.DataEncryptionKey = "too-short"
	_, err := New(context.Background(), cfg)
	assert.ErrorContains(t, err, "encryption key")
}

func TestReadinessReportsRedis(t *testing.T) {
	client, mock := redismock.NewClientMock()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	h := NewHandler(memory.New(), lock.NewRedisLocker(client, time.Second), clock.System{}, m)
	router := NewRouter(testConfig(), h, reg, m, map[string]Check{
		"redis": func(ctx context.Context) error { return client.Ping(ctx).Err() },
	})

	mock.ExpectPing().SetVal("PONG")
	assert.Equal(t, http.StatusOK, get(t, router, "/readyz", "").Code)

	mock.ExpectPing().SetErr(errors.New("connection refused"))
	rec := get(t, router, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "redis"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMetricsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.MetricsEnabled = false
	app, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, get(t, app.Router, "/metrics", "").Code)
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := testConfig()
	cfg.Addr = "127.0.0.1:0"
	app, err := New(context.Background(), cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}
