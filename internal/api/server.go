package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/heptiolabs/healthcheck"

	"github.com/radio-control/saltybridge/internal/auth"
)

// maxGoroutines bounds the liveness goroutine check.
const maxGoroutines = 10000

// Ports groups the collaborators the API serves. Bridge may be nil when the
// compatibility bridge is disabled.
type Ports struct {
	Bridge    BridgePort
	Client    ClientPort
	Host      HostPort
	Radio     RadioReadPort
	Telemetry TelemetryPort
	Metrics   MetricsPort
}

// Timeouts configures the underlying http.Server.
type Timeouts struct {
	Read  time.Duration
	Write time.Duration
	Idle  time.Duration
}

// Server represents the HTTP API server.
type Server struct {
	httpServer     *http.Server
	ports          Ports
	authMiddleware *auth.Middleware
	health         healthcheck.Handler
	logger         *slog.Logger
	startTime      time.Time
	timeouts       Timeouts
}

// NewServer creates a new API server. A nil middleware serves every route
// without authentication.
func NewServer(ports Ports, authMiddleware *auth.Middleware, timeouts Timeouts, logger *slog.Logger) *Server {
	if authMiddleware == nil {
		authMiddleware = auth.NewMiddleware(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		ports:          ports,
		authMiddleware: authMiddleware,
		health:         healthcheck.NewHandler(),
		logger:         logger,
		startTime:      time.Now(),
		timeouts:       timeouts,
	}
	s.health.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(maxGoroutines))
	s.health.AddReadinessCheck("radio-enabled", s.checkRadioEnabled)
	s.health.AddReadinessCheck("plugin-state", s.checkPluginState)
	return s
}

// Handler returns the routed handler without starting a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return mux
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.timeouts.Read,
		WriteTimeout: s.timeouts.Write,
		IdleTimeout:  s.timeouts.Idle,
	}

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	return nil
}

func (s *Server) checkRadioEnabled() error {
	if s.ports.Bridge == nil {
		return fmt.Errorf("bridge disabled")
	}
	if !s.ports.Bridge.RadioEnabled() {
		return fmt.Errorf("radio not enabled")
	}
	return nil
}

func (s *Server) checkPluginState() error {
	if s.ports.Bridge == nil {
		return fmt.Errorf("bridge disabled")
	}
	state, ok := s.ports.Bridge.PluginState()
	if !ok {
		return fmt.Errorf("no plugin state reported")
	}
	if !state.Healthy() {
		return fmt.Errorf("plugin state %s", state)
	}
	return nil
}
