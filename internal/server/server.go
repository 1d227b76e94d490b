package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rickgao/treasury-data/internal/analytics"
	"github.com/rickgao/treasury-data/internal/metrics"
	"github.com/rickgao/treasury-data/internal/model"
	"github.com/rickgao/treasury-data/internal/reconcile"
)

// Pinger reports database health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Reads answers the read queries.
type Reads interface {
	RetrieveAsOf(ctx context.Context, date time.Time) ([]model.JoinedRow, error)
	YieldTable(ctx context.Context, date time.Time) ([]analytics.YieldRow, error)
}

// Updater runs the state machine for one date.
type Updater interface {
	Update(ctx context.Context, date time.Time) (reconcile.Result, error)
}

// Config holds HTTP server configuration.
type Config struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MetricsPath  string // empty disables /metrics
}

// Server is the HTTP API.
type Server struct {
	cfg     Config
	db      Pinger
	reads   Reads
	updater Updater
	metrics *metrics.Metrics
	logger  *slog.Logger
	engine  *gin.Engine
}

// New creates a Server and registers its routes. db, updater and m may be nil.
func New(cfg Config, db Pinger, reads Reads, updater Updater, m *metrics.Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:     cfg,
		db:      db,
		reads:   reads,
		updater: updater,
		metrics: m,
		logger:  logger,
		engine:  gin.New(),
	}
	s.routes()
	return s
}

// Handler returns the gin engine.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() {
	s.engine.Use(gin.Recovery(), s.observe())

	s.engine.GET("/health", s.health)

	v1 := s.engine.Group("/v1")
	{
		v1.GET("/prices/:date", s.prices)
		v1.GET("/yields/:date", s.yields)
		if s.updater != nil {
			v1.POST("/update/:date", s.update)
		}
	}

	if s.metrics != nil && s.cfg.MetricsPath != "" {
		s.engine.GET(s.cfg.MetricsPath, gin.WrapH(s.metrics.Handler()))
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(s.cfg.Port),
		Handler:      s.engine,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}

// observe records request counts and latencies by route.
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.ObserveHTTP(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}
