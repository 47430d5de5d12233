// Copyright (c) 2026 Qumran. All rights reserved.

/*
Package api wires the HTTP router, the middleware chain and the domain
handlers into a runnable [http.Server].

Route layout:

  - /health, /ready: probes
  - /api/v1/auth: dashboard sign-in
  - /api/v1/<collection>: public reads, served through the view cache
  - /api/v1/dashboard/<collection>: management for editors, also cached
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/qumran/qumran/internal/platform/constants"
	"github.com/qumran/qumran/internal/platform/middleware"
	"github.com/qumran/qumran/internal/platform/sec"
	"github.com/qumran/qumran/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// Config is what the server needs from the application configuration.
type Config interface {
	middleware.AppConfig
	Port() string
}

// # Handler Registry

// CatalogRoutes is implemented by every catalog handler.
type CatalogRoutes interface {
	RegisterPublic(router chi.Router)
	RegisterDashboard(router chi.Router)
}

// Handlers groups the handler sets mounted by [NewServer].
type Handlers struct {
	// Liveness is the /health handler.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler.
	Readiness http.HandlerFunc

	// Auth serves login, refresh, logout and me.
	Auth *auth.Handler

	// Views wraps the public catalog routes, normally the view cache.
	// Nil serves them uncached.
	Views func(http.Handler) http.Handler

	Books      CatalogRoutes
	Authors    CatalogRoutes
	Publishers CatalogRoutes
	Categories CatalogRoutes
	Locations  CatalogRoutes
}

// catalog pairs each collection path with its handler.
func (h Handlers) catalog() map[string]CatalogRoutes {
	return map[string]CatalogRoutes{
		constants.PathBooks:      h.Books,
		constants.PathAuthors:    h.Authors,
		constants.PathPublishers: h.Publishers,
		constants.PathCategories: h.Categories,
		constants.PathLocations:  h.Locations,
	}
}

// # Server Initialization

// NewRouter builds the chi router with the full middleware chain and every
// route group.
func NewRouter(context context.Context, cfg Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	// # Middleware Chain
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context, middleware.DefaultLimits))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Diagnostics(cfg))
	r.Use(middleware.CORS(cfg))
	r.Use(middleware.Authenticate(verifier))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	r.Route(constants.PathAPI, func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())

		api.Group(func(public chi.Router) {
			if h.Views != nil {
				public.Use(h.Views)
			}
			for path, routes := range h.catalog() {
				public.Route(path, routes.RegisterPublic)
			}
		})

		api.Route(constants.PathAdmin, func(dashboard chi.Router) {
			// Dashboard reads are cached behind the role check.
			dashboard.Use(middleware.RequireRole(sec.RoleEditor))
			if h.Views != nil {
				dashboard.Use(h.Views)
			}
			for path, routes := range h.catalog() {
				dashboard.Route(path, routes.RegisterDashboard)
			}
		})
	})

	return r
}

// NewServer wraps [NewRouter] in an [http.Server] listening on cfg.Port().
func NewServer(context context.Context, cfg Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := NewRouter(context, cfg, log, verifier, h)

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port(),
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server and blocks until it stops.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
