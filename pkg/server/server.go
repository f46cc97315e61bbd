package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"parley-hq/parley/pkg/chat"
	"parley-hq/parley/pkg/config"
	"parley-hq/parley/pkg/gateway/handlers"
	"parley-hq/parley/pkg/gateway/middleware"
	"parley-hq/parley/pkg/limits/ratelimit"
	"parley-hq/parley/pkg/providers"
	"parley-hq/parley/pkg/telemetry/metrics"
)

// Server is the gateway's HTTP server.
type Server struct {
	config       *config.Config
	service      *chat.Service
	provider     providers.Provider
	limiter      *ratelimit.SlidingWindow
	collector    *metrics.Collector
	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a new gateway server. The limiter and collector may be
// nil when rate limiting or metrics are disabled.
func NewServer(cfg *config.Config, service *chat.Service, provider providers.Provider, limiter *ratelimit.SlidingWindow, collector *metrics.Collector) *Server {
	return &Server{
		config:       cfg,
		service:      service,
		provider:     provider,
		limiter:      limiter,
		collector:    collector,
		shutdownChan: make(chan struct{}),
	}
}

// Start starts the HTTP server and blocks until shutdown, which is
// triggered by context cancellation, SIGINT/SIGTERM, or Stop.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:           s.config.Server.ListenAddress,
		Handler:        s.setupRoutes(),
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		IdleTimeout:    s.config.Server.IdleTimeout,
		MaxHeaderBytes: s.config.Server.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting gateway server",
			"address", s.config.Server.ListenAddress,
			"provider", s.provider.GetName(),
			"rate_limiting", s.limiter != nil,
			"metrics", s.collector != nil,
		)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		slog.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Stop requests shutdown of a server blocked in Start.
func (s *Server) Stop() {
	s.shutdownOnce.Do(func() {
		close(s.shutdownChan)
	})
}

// Shutdown gracefully shuts down the server, waiting up to the configured
// shutdown timeout for in-flight requests (including open streams) to
// finish.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	slog.Info("initiating graceful shutdown", "timeout", s.config.Server.ShutdownTimeout.String())

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("error during server shutdown", "error", err)
			return fmt.Errorf("server shutdown error: %w", err)
		}
	}

	slog.Info("gateway server stopped")
	return nil
}

// setupRoutes configures HTTP routes and the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	chatHandler := http.Handler(handlers.NewChatHandler(s.service, s.collector))
	if s.limiter != nil {
		// Only completion requests consume the window; health probes and
		// conversation resets stay exempt.
		chatHandler = middleware.RateLimit(middleware.RateLimitConfig{
			Limiter:   s.limiter,
			PerClient: s.config.Limits.PerClient,
			Collector: s.collector,
		})(chatHandler)
	}

	mux.Handle("/api/chat", chatHandler)
	mux.Handle("/api/chat/clear", handlers.NewClearHandler(s.service))
	mux.Handle("/api/health", handlers.NewHealthHandler())
	mux.Handle("/api/ready", handlers.NewReadyHandler(s.provider))

	if s.collector != nil {
		mux.Handle("/metrics", s.collector.Handler())
	}

	var handler http.Handler = mux

	handler = middleware.CORS(middleware.CORSConfig{
		Enabled:        s.config.Server.CORS.Enabled,
		AllowedOrigins: s.config.Server.CORS.AllowedOrigins,
		AllowedMethods: s.config.Server.CORS.AllowedMethods,
		AllowedHeaders: s.config.Server.CORS.AllowedHeaders,
		MaxAge:         s.config.Server.CORS.MaxAge,
	})(handler)

	handler = middleware.Logging(s.collector)(handler)
	handler = middleware.RequestID(handler)

	// Recovery outermost so panics anywhere in the chain are caught
	handler = middleware.Recovery(handler)

	return handler
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler, for tests that drive the
// full route and middleware chain without a listener.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}
