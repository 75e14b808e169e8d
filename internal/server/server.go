// Package server exposes the log store over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ozgurozkan01/pyLog/internal/config"
)

type Server struct {
	router chi.Router
	http   *http.Server
	cache  *ristretto.Cache
	logger *zap.Logger
}

// NewCache returns the cache shared by the dashboard handler and the
// token check.
func NewCache() (*ristretto.Cache, error) {
	return ristretto.NewCache(&ristretto.Config{
		NumCounters:        1e4,
		MaxCost:            1 << 10,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
}

func New(cfg config.ServerConfig, svc LogService, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cache, err := NewCache()
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/health", HealthHandler)
	r.Route("/api", func(r chi.Router) {
		if cfg.APITokenHash != "" {
			r.Use(Auth(cfg.APITokenHash, cache, logger))
		}
		r.Get("/logs", ListLogsHandler(svc, logger))
		r.Get("/dashboard-data", DashboardHandler(svc, cache, cfg.DashboardCacheTTL, time.Now, logger))
	})

	logger.Info("HTTP server initialized",
		zap.String("addr", cfg.Addr),
		zap.Bool("auth", cfg.APITokenHash != ""),
	)

	return &Server{
		router: r,
		http: &http.Server{
			Addr:              cfg.Addr,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
		cache:  cache,
		logger: logger,
	}, nil
}

func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Listening", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("Shutting down HTTP server")
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.cache.Close()
	return nil
}
