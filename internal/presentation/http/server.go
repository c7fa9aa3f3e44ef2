package http

import (
	stdhttp "net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"predictive/app/internal/domain/page"
)

// Options configures the HTTP server wiring.
type Options struct {
	PageService page.Service
	Logger      *logrus.Logger
	SentryHub   *sentry.Hub
	RateLimiter RateLimiterSettings
	// IncludeSource is reported by the health check.
	IncludeSource string
}

// RateLimiterSettings configures the HTTP rate limiter behaviour.
type RateLimiterSettings struct {
	RequestsPerSecond float64
	Burst             int
	ClientTTL         time.Duration
}

// Server wires the HTTP transport layer via Huma and templ components.
type Server struct {
	api           huma.API
	mux           *stdhttp.ServeMux
	pages         page.Service
	logger        *logrus.Logger
	sentry        *sentry.Hub
	rateLimiter   *RateLimiter
	includeSource string
}

// NewServer constructs the HTTP server.
func NewServer(opts Options) (*Server, error) {
	if opts.PageService == nil {
		return nil, eris.New("page service is required")
	}

	settings := opts.RateLimiter
	if settings.Burst <= 0 {
		return nil, eris.New("rate limiter burst must be greater than zero")
	}
	if settings.RequestsPerSecond <= 0 {
		return nil, eris.New("rate limiter requests per second must be greater than zero")
	}
	if settings.ClientTTL <= 0 {
		return nil, eris.New("rate limiter client TTL must be greater than zero")
	}

	mux := stdhttp.NewServeMux()
	config := huma.DefaultConfig("Predictive Learning", "1.0.0")

	api := humago.New(mux, config)

	srv := &Server{
		api:           api,
		mux:           mux,
		pages:         opts.PageService,
		logger:        opts.Logger,
		sentry:        opts.SentryHub,
		includeSource: opts.IncludeSource,
		rateLimiter:   NewRateLimiter(settings.Burst, settings.RequestsPerSecond, settings.ClientTTL),
	}

	srv.registerMiddlewares()
	if err := srv.registerRoutes(); err != nil {
		srv.Close()
		return nil, err
	}

	return srv, nil
}

// Handler exposes the underlying HTTP handler for wiring into the application.
func (s *Server) Handler() stdhttp.Handler {
	return s.mux
}

// Close releases background resources held by the server.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Close()
	}
}

func (s *Server) registerMiddlewares() {
	s.api.UseMiddleware(
		s.sentryMiddleware(),
		s.recoveryMiddleware(),
		s.requestIDMiddleware(),
		s.securityHeadersMiddleware(),
		s.rateLimitMiddleware(),
		s.loggingMiddleware(),
		s.exactPathMiddleware(),
	)
}

func (s *Server) registerRoutes() error {
	if err := s.registerStaticRoutes(); err != nil {
		return eris.Wrap(err, "registering static routes")
	}

	s.registerPageRoute()
	s.registerLegacyRoute()
	s.registerHealthRoute()
	return nil
}

func (s *Server) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	s.mux.ServeHTTP(w, r)
}
