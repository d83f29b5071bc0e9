// Package api provides the HTTP API server and handlers for the reading log.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/listenupapp/readinglog-server/internal/http/response"
	"github.com/listenupapp/readinglog-server/internal/metrics"
	"github.com/listenupapp/readinglog-server/internal/ratelimit"
	"github.com/listenupapp/readinglog-server/internal/store"
	"github.com/listenupapp/readinglog-server/internal/tenant"
)

const (
	apiTitle = "Reading Log API"

	// DefaultAuthRateLimit is the auth requests allowed per client per minute.
	DefaultAuthRateLimit = 20
)

// Options tunes the server. Zero values get defaults.
type Options struct {
	Version       string
	CORSOrigins   []string
	AuthRateLimit int
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services        *Services
	registry        *tenant.Registry
	store           *store.Store
	metrics         *metrics.Metrics
	router          *chi.Mux
	api             huma.API
	authRateLimiter *ratelimit.KeyedRateLimiter
	logger          *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
// m may be nil, in which case /metrics is not mounted.
func NewServer(services *Services, registry *tenant.Registry, st *store.Store, m *metrics.Metrics, opts Options, logger *slog.Logger) *Server {
	if opts.Version == "" {
		opts.Version = "1.0.0"
	}
	if opts.AuthRateLimit <= 0 {
		opts.AuthRateLimit = DefaultAuthRateLimit
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}

	s := &Server{
		services:        services,
		registry:        registry,
		store:           st,
		metrics:         m,
		router:          chi.NewRouter(),
		authRateLimiter: ratelimit.PerInterval(opts.AuthRateLimit, minute, opts.AuthRateLimit),
		logger:          logger,
	}

	s.setupMiddleware(opts)
	s.api = humachi.New(s.router, newHumaConfig(opts.Version))
	RegisterErrorHandler()
	s.setupRoutes()

	return s
}

// newHumaConfig builds the huma config: bearer security scheme, envelope
// transformer, and no $schema links in bodies.
func newHumaConfig(version string) huma.Config {
	cfg := huma.DefaultConfig(apiTitle, version)
	cfg.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	cfg.CreateHooks = nil
	cfg.Transformers = []huma.Transformer{EnvelopeTransformer}
	return cfg
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for tests.
func (s *Server) API() huma.API {
	return s.api
}

// Close releases background resources.
func (s *Server) Close() {
	s.authRateLimiter.Stop()
}

func (s *Server) setupMiddleware(opts Options) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(recoverer(s.logger))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if s.metrics != nil {
		s.router.Use(s.metrics.Middleware)
	}

	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "route not found", s.logger)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.MethodNotAllowed(w, "method not allowed", s.logger)
	})
}

func (s *Server) setupRoutes() {
	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler())
	}

	s.registerHealthRoutes()
	s.registerTenantRoutes()
	s.registerAuthRoutes()
	s.registerBookRoutes()
	s.registerStatsRoutes()
}
