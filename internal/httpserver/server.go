package httpserver

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger reports backend readiness. A nil Pinger means the in-memory backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wraps the HTTP server setup.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	visitors   *visitors

	stopSweep chan struct{}
	sweepDone sync.WaitGroup
}

// New builds a Server with all storefront routes.
func New(addr string, logger *zap.Logger, ready Pinger, deps Deps) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.NewAuthenticator == nil {
		return nil, errors.New("httpserver: NewAuthenticator is required")
	}
	if deps.Catalog == nil {
		return nil, errors.New("httpserver: Catalog is required")
	}
	v := newVisitors(deps, logger)
	router := buildRouter(logger, ready, deps, v)

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{
		httpServer: httpSrv,
		logger:     logger,
		visitors:   v,
		stopSweep:  make(chan struct{}),
	}, nil
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe starts the HTTP server and the idle visitor sweeper.
func (s *Server) ListenAndServe() error {
	s.sweepDone.Add(1)
	go s.sweep(time.Minute)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server and disposes every visitor store.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	select {
	case <-s.stopSweep:
	default:
		close(s.stopSweep)
	}
	s.sweepDone.Wait()
	s.visitors.Close()
	return err
}

func (s *Server) sweep(every time.Duration) {
	defer s.sweepDone.Done()
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := s.visitors.Sweep(); n > 0 {
				s.logger.Debug("idle visitors evicted", zap.Int("count", n))
			}
		case <-s.stopSweep:
			return
		}
	}
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func readyHandler(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ready", "backend": "memory"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "db not reachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "backend": "postgres"})
	}
}
