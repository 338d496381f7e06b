// Package server is the keep-alive web server hosting platforms probe.
// It also exposes health checks and metrics.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/heptiolabs/healthcheck"

	"github.com/mixelka/tempmailbot/internal/monitoring"
)

const (
	checkTimeout    = 5 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Deps dependencies for creating a server
type Deps struct {
	Port        int
	DB          *sql.DB
	ProviderURL string // probed by the readiness check, optional
	Metrics     *monitoring.Metrics
	Logger      *slog.Logger
}

// Server serves the banner, health checks and metrics
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a new server
func New(deps Deps) *Server {
	s := &Server{
		logger: deps.Logger.With("component", "web_server"),
	}

	health := healthcheck.NewHandler()
	if deps.DB != nil {
		health.AddLivenessCheck("database", healthcheck.DatabasePingCheck(deps.DB, checkTimeout))
	}
	if deps.ProviderURL != "" {
		health.AddReadinessCheck("mail_provider",
			healthcheck.HTTPGetCheck(strings.TrimRight(deps.ProviderURL, "/")+"/domains", checkTimeout))
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLogger())

	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Bot is running!")
	})
	engine.GET("/live", gin.WrapF(health.LiveEndpoint))
	engine.GET("/ready", gin.WrapF(health.ReadyEndpoint))
	if deps.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	s.engine = engine
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", deps.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting web server", "address", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("web server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web server shutdown: %w", err)
	}

	s.logger.Info("web server stopped")
	return nil
}

// requestLogger logs every request at debug level
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
