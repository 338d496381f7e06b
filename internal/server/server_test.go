package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mixelka/tempmailbot/internal/database"
	"github.com/mixelka/tempmailbot/internal/monitoring"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, providerURL string) *Server {
	t.Helper()

	db, err := database.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	metrics := monitoring.NewMetrics()
	metrics.MailboxCreated()

	return New(Deps{
		DB:          db.DB.DB,
		ProviderURL: providerURL,
		Metrics:     metrics,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestBanner(t *testing.T) {
	s := newTestServer(t, "")

	rec := get(t, s, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bot is running!", rec.Body.String())
}

func TestLive(t *testing.T) {
	s := newTestServer(t, "")

	rec := get(t, s, "/live?full=1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "database")
}

func TestReady(t *testing.T) {
	t.Run("provider up", func(t *testing.T) {
		provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/domains", r.URL.Path)
			w.Write([]byte(`{"hydra:member":[]}`))
		}))
		defer provider.Close()

		rec := get(t, newTestServer(t, provider.URL+"/"), "/ready")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("provider down", func(t *testing.T) {
		provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer provider.Close()

		rec := get(t, newTestServer(t, provider.URL), "/ready")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t, "")

	rec := get(t, s, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tempmail_mailboxes_created_total 1")
}

func TestRunStopsOnCancel(t *testing.T) {
	s := newTestServer(t, "")
	s.httpServer.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()
	assert.NoError(t, <-done)
}
