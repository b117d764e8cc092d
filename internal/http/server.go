package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	"github.com/caredock/sharetoken/internal/config"
	"github.com/caredock/sharetoken/internal/metrics"
	tokenHTTP "github.com/caredock/sharetoken/internal/token/http"
)

// Server represents the API HTTP server.
type Server struct {
	server *http.Server
	router *gin.Engine
	db     *sql.DB
	logger *slog.Logger
}

// NewServer creates the API server and registers all routes.
func NewServer(
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	tokenHandler *tokenHTTP.TokenHandler,
	metricsProvider *metrics.Provider,
) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	server := &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router: router,
		db:     db,
		logger: logger,
	}

	server.registerRoutes(cfg, tokenHandler)

	return server
}

// registerRoutes wires the token lifecycle endpoints and the health probes.
// The validate and redeem endpoints face unauthenticated consumers and carry
// the per-IP rate limiter; the rest are called by the clinic app's backend.
func (s *Server) registerRoutes(cfg *config.Config, tokenHandler *tokenHTTP.TokenHandler) {
	s.router.GET("/health", s.healthHandler)
	s.router.GET("/ready", s.readinessHandler)

	v1 := s.router.Group("/v1")

	v1.POST("/tokens", tokenHandler.IssueHandler)
	v1.POST("/tokens/revoke", tokenHandler.RevokeHandler)
	v1.GET("/tokens/:id/access-log", tokenHandler.AccessLogHandler)

	consumer := v1.Group("")
	if cfg.RateLimitEnabled {
		consumer.Use(tokenHTTP.ValidateRateLimitMiddleware(
			cfg.RateLimitRequestsPerSec,
			cfg.RateLimitBurst,
			s.logger,
		))
	}
	consumer.POST("/tokens/validate", tokenHandler.ValidateHandler)
	consumer.POST("/tokens/redeem", tokenHandler.RedeemHandler)
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the token store is reachable. The store is
// the only dependency that matters: without it every validation fails.
func (s *Server) readinessHandler(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
