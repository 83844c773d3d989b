package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"mercator-hq/pricebook/pkg/config"
	"mercator-hq/pricebook/pkg/processing"
	"mercator-hq/pricebook/pkg/telemetry"
	"mercator-hq/pricebook/pkg/telemetry/health"
	"mercator-hq/pricebook/pkg/telemetry/tracing"
)

// Build information reported by /version. Set by the CLI.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Server serves the pricing API.
type Server struct {
	config    *config.ServerConfig
	maxBytes  int64
	processor *processing.Processor
	telemetry *telemetry.Telemetry
	logger    *slog.Logger

	metricsPath string

	httpServer   *http.Server
	listener     net.Listener
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a server for processor. tel may be nil, in which case
// metrics and tracing are off and health checks only cover the catalog.
func NewServer(cfg *config.Config, p *processing.Processor, tel *telemetry.Telemetry) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Server{
		config:      &cfg.Server,
		maxBytes:    cfg.Ingest.MaxBytes,
		processor:   p,
		telemetry:   tel,
		logger:      slog.Default().With("component", "server"),
		metricsPath: cfg.Telemetry.Metrics.Path,
	}
}

// Start listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}

	var (
		tlsConfig *tls.Config
		certs     *certReloader
	)
	if s.config.TLS.Enabled {
		var err error
		tlsConfig, certs, err = newTLSConfig(&s.config.TLS, s.logger)
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("failed to configure TLS: %w", err)
		}
	}

	ln, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress, err)
	}
	if tlsConfig != nil {
		ln = tls.NewListener(ln, tlsConfig)
		go certs.run(ctx)
	}

	s.listener = ln
	s.httpServer = &http.Server{
		Handler:        s.Handler(),
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
	}
	s.isRunning = true
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting pricing API server",
			"address", ln.Addr().String(),
			"tls", tlsConfig != nil,
		)
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		return err
	}
}

// Shutdown gracefully stops the server within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		srv := s.httpServer
		s.mu.Unlock()

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("pricing API server stopped")
	})

	return shutdownErr
}

// Addr returns the bound address while the server is running.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/catalog", s.handleCatalog)
	mux.HandleFunc("POST /v1/estimate", s.handleEstimate)
	mux.HandleFunc("POST /v1/compare", s.handleCompare)
	mux.HandleFunc("POST /v1/tiers", s.handleTiers)
	mux.HandleFunc("POST /v1/ingest", s.handleIngest)

	checker := health.New(0)
	tracer := tracing.Noop()
	if s.telemetry != nil {
		checker = s.telemetry.Health()
		tracer = s.telemetry.Tracer()
		if s.telemetry.Metrics().Enabled() {
			mux.Handle("GET "+s.metricsPath, s.telemetry.Metrics().Handler())
		}
	}
	health.RegisterCatalogChecks(checker, s.processor.Catalog)

	mux.HandleFunc("/health", checker.LivenessHandler())
	mux.HandleFunc("/ready", checker.ReadinessHandler())
	mux.HandleFunc("/version", health.VersionHandler(Version, Commit, BuildTime))

	// Innermost first; RecoveryMiddleware ends up outermost.
	var handler http.Handler = mux
	handler = CORSMiddleware(&s.config.CORS)(handler)
	handler = RateLimitMiddleware(&s.config.RateLimit)(handler)
	handler = tracing.HTTPMiddleware(tracer)(handler)
	handler = LoggingMiddleware(s.logger)(handler)
	handler = RequestIDMiddleware(handler)
	handler = RecoveryMiddleware(handler)

	return handler
}
