// Package health serves the liveness endpoints polled by uptime monitors.
package health

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	statusHealthy  = "healthy"
	statusNotReady = "not_ready"

	shutdownTimeout = 5 * time.Second
)

// StatusProvider reports the chat session state.
type StatusProvider interface {
	Ready() bool
	GuildCount() int
	MemberCount() int
	Latency() time.Duration
}

// Server is the gin-backed liveness server.
type Server struct {
	status  StatusProvider
	metrics http.Handler
	started time.Time
	now     func() time.Time
	logger  *slog.Logger
	engine  *gin.Engine
}

// NewServer builds the router. metrics may be nil, in which case /metrics is
// not registered.
func NewServer(status StatusProvider, metrics http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		status:  status,
		metrics: metrics,
		started: time.Now(),
		now:     time.Now,
		logger:  logger,
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))
	router.GET("/", s.handleRoot)
	router.GET("/health", s.handleHealth)
	router.GET("/ping", handlePing)
	router.GET("/stats", s.handleStats)
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}
	s.engine = router
	return s
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler { return s.engine }

// Run listens on addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("liveness server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("liveness server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down liveness server: %w", err)
	}
	<-errCh
	s.logger.Info("liveness server stopped")
	return nil
}

func (s *Server) uptime() time.Duration {
	return s.now().Sub(s.started)
}

func (s *Server) handleHealth(c *gin.Context) {
	ready := s.status.Ready()
	status := statusHealthy
	if !ready {
		status = statusNotReady
	}
	c.JSON(determineHealthStatusCode(ready), gin.H{
		"status":    status,
		"bot_ready": ready,
		"uptime":    FormatUptime(s.uptime()),
		"servers":   s.status.GuildCount(),
		"latency":   s.status.Latency().Milliseconds(),
	})
}

func handlePing(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}

func (s *Server) handleRoot(c *gin.Context) {
	ready := s.status.Ready()
	body := gin.H{
		"status":      "Bot is running",
		"timestamp":   s.now().UTC().Format(time.RFC3339),
		"bot_ready":   ready,
		"bot_latency": nil,
		"guilds":      0,
	}
	if ready {
		body["bot_latency"] = s.status.Latency().Milliseconds()
		body["guilds"] = s.status.GuildCount()
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) handleStats(c *gin.Context) {
	if !s.status.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Bot not ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"guilds":  s.status.GuildCount(),
		"users":   s.status.MemberCount(),
		"latency": s.status.Latency().Milliseconds(),
		"uptime":  FormatUptime(s.uptime()),
	})
}

func determineHealthStatusCode(ready bool) int {
	if ready {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http_request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status_code", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}

// FormatUptime renders d as "H:MM:SS", prefixed with a day count once it
// exceeds 24 hours.
func FormatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	clock := fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	switch days {
	case 0:
		return clock
	case 1:
		return "1 day, " + clock
	default:
		return fmt.Sprintf("%d days, %s", days, clock)
	}
}
