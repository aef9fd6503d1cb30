// Package http exposes a resolved embedding function over HTTP.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fyrsmithlabs/embedkit/internal/embedder"
	"github.com/fyrsmithlabs/embedkit/internal/logging"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// DefaultMaxDocuments caps the documents accepted by one embed request.
const DefaultMaxDocuments = 1024

// Server serves one embedding function resolved at startup.
type Server struct {
	echo      *echo.Echo
	embedder  embedder.EmbeddingFunction
	providers []embedder.ProviderID
	logger    *logging.Logger
	metrics   *HTTPMetrics
	config    *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Addr string
	// Provider is the label reported by /health.
	Provider     string
	MaxDocuments int
}

// NewServer creates a new HTTP server. metrics may be nil.
func NewServer(fn embedder.EmbeddingFunction, providers []embedder.ProviderID, logger *logging.Logger, metrics *HTTPMetrics, cfg *Config) (*Server, error) {
	if fn == nil {
		return nil, errors.New("embedding function cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{Addr: "localhost:8089"}
	}
	if cfg.MaxDocuments <= 0 {
		cfg.MaxDocuments = DefaultMaxDocuments
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, id string) {
			if logging.ValidateRequestID(id) != nil {
				return
			}
			req := c.Request()
			c.SetRequest(req.WithContext(logging.WithRequestID(req.Context(), id)))
		},
	}))
	if metrics != nil {
		e.Use(metrics.MetricsMiddleware())
	}
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			logger.Info(c.Request().Context(), "http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
			)
			return nil
		}
	})

	s := &Server{
		echo:      e,
		embedder:  fn,
		providers: providers,
		logger:    logger,
		metrics:   metrics,
		config:    cfg,
	}
	s.registerRoutes()

	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)

	v1 := s.echo.Group("/v1")
	v1.GET("/providers", s.handleProviders)
	v1.POST("/embed", s.handleEmbed)
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Provider: s.config.Provider})
}

func (s *Server) handleProviders(c echo.Context) error {
	out := make([]string, len(s.providers))
	for i, p := range s.providers {
		out[i] = string(p)
	}
	return c.JSON(http.StatusOK, ProvidersResponse{Providers: out})
}

func (s *Server) handleEmbed(c echo.Context) error {
	ctx := c.Request().Context()

	var req EmbedRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn(ctx, "invalid embed request", zap.Error(err))
		s.metrics.RecordEmbed(ctx, s.config.Provider, embedRejected, 0)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	n := len(req.Documents)
	if n == 0 {
		s.metrics.RecordEmbed(ctx, s.config.Provider, embedRejected, 0)
		return echo.NewHTTPError(http.StatusBadRequest, "documents field is required")
	}
	if n > s.config.MaxDocuments {
		s.metrics.RecordEmbed(ctx, s.config.Provider, embedRejected, n)
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("too many documents: %d (max %d)", n, s.config.MaxDocuments))
	}

	vectors, err := s.embedder.Embed(ctx, req.Documents)
	if err != nil {
		s.logger.Error(ctx, "embedding failed",
			zap.String("provider", s.config.Provider),
			zap.Int("documents", n),
			zap.Error(err))
		s.metrics.RecordEmbed(ctx, s.config.Provider, embedProviderError, n)
		return echo.NewHTTPError(http.StatusBadGateway, "embedding provider request failed")
	}
	if len(vectors) != n {
		s.logger.Error(ctx, "embedding count mismatch",
			zap.Int("documents", n),
			zap.Int("vectors", len(vectors)))
		s.metrics.RecordEmbed(ctx, s.config.Provider, embedProviderError, n)
		return echo.NewHTTPError(http.StatusBadGateway, "embedding provider returned wrong vector count")
	}

	s.metrics.RecordEmbed(ctx, s.config.Provider, embedOK, n)
	return c.JSON(http.StatusOK, EmbedResponse{Vectors: vectors, Count: len(vectors)})
}

// Start starts the HTTP server. It returns http.ErrServerClosed after
// Shutdown.
func (s *Server) Start() error {
	s.logger.Info(context.Background(), "starting http server", zap.String("addr", s.config.Addr))
	return s.echo.Start(s.config.Addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "shutting down http server")
	return s.echo.Shutdown(ctx)
}
