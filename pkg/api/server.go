package api

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/getmockd/xmlbridge/pkg/logging"
	"github.com/getmockd/xmlbridge/pkg/metrics"
	"github.com/getmockd/xmlbridge/pkg/ratelimit"
	"github.com/getmockd/xmlbridge/pkg/request"
)

// DefaultMaxBodyBytes caps request bodies.
const DefaultMaxBodyBytes = 10 << 20

// Config configures a Server.
type Config struct {
	// AllowedOrigins lists the origins allowed to call the API from a
	// browser. Empty or "*" allows any origin.
	AllowedOrigins []string

	// DatasetFile is served by GET /api/dataset. Empty disables the route.
	DatasetFile string

	// DatasetToken, when set, is required to read the dataset.
	DatasetToken string

	// DatasetVersion overrides the version reported for the dataset.
	DatasetVersion string

	// HostVariable and TokenVariable name the Postman variables generated
	// artifacts refer to.
	HostVariable  string
	TokenVariable string

	// Headers replaces the default request headers when non-nil.
	Headers []request.Header

	// MaxBodyBytes overrides DefaultMaxBodyBytes.
	MaxBodyBytes int64

	// RateLimit caps requests per second per client IP. Zero disables
	// limiting. RateBurst and TrustedProxies tune the limiter.
	RateLimit      float64
	RateBurst      int
	TrustedProxies []string

	// Metrics receives the API metrics and is served on GET /metrics.
	// A private registry is created when nil.
	Metrics *metrics.Registry

	Logger *slog.Logger
}

// Server is the HTTP front of the toolbox.
type Server struct {
	cfg     Config
	log     *slog.Logger
	metrics *metrics.Bridge
	limiter *ratelimit.Limiter
	handler http.Handler
}

// NewServer builds a server and its routes.
func NewServer(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewRegistry()
	}
	s := &Server{cfg: cfg, log: cfg.Logger, metrics: metrics.NewBridge(cfg.Metrics)}
	if cfg.RateLimit > 0 {
		s.limiter = ratelimit.New(ratelimit.Config{
			Rate:           cfg.RateLimit,
			Burst:          cfg.RateBurst,
			TrustedProxies: cfg.TrustedProxies,
		})
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)
	s.handler = s.withMiddleware(mux)
	return s
}

// Handler returns the root handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
