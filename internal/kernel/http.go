// Package kernel builds the HTTP handler: global middleware, operational
// endpoints and the API routes.
package kernel

import (
	"context"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/shashiranjanraj/shopfront/app/routes"
	"github.com/shashiranjanraj/shopfront/pkg/logger"
	"github.com/shashiranjanraj/shopfront/pkg/metrics"
	"github.com/shashiranjanraj/shopfront/pkg/middleware"
	"github.com/shashiranjanraj/shopfront/pkg/reqid"
	"github.com/shashiranjanraj/shopfront/pkg/response"
	"github.com/shashiranjanraj/shopfront/pkg/router"
)

// Probe reports whether a backing dependency is healthy.
type Probe func(ctx context.Context) error

// Options are the process-level pieces the kernel does not build itself.
type Options struct {
	Services *routes.Services
	Limiter  middleware.Limiter // nil disables rate limiting
	Health   Probe              // nil reports healthy
	CORS     middleware.CORSOptions
	Files    http.Handler // served under /storage when set
}

// HTTPKernel owns the router so callers can both serve it and list routes.
type HTTPKernel struct {
	router *router.Router
}

// New builds the handler. Global middleware, outermost first:
//
//  1. Prometheus metrics
//  2. Recovery
//  3. Request ID
//  4. Logger
//  5. CORS
//  6. Rate limiter
//  7. Trailing slash stripping
func New(opts Options) (*HTTPKernel, error) {
	r := router.New()

	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(opts.CORS))
	if opts.Limiter != nil {
		r.Use(middleware.RateLimit(opts.Limiter))
	}
	r.Use(chimw.StripSlashes)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { response.NotFound(w) })
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) { response.MethodNotAllowed(w) })

	r.Get("/metrics", "metrics", metrics.Handler())
	r.Get("/healthz", "healthz", healthz(opts.Health))
	if opts.Files != nil {
		r.Mount("/storage", http.StripPrefix("/storage", opts.Files))
	}

	if err := routes.RegisterAPI(r, opts.Services); err != nil {
		return nil, err
	}

	return &HTTPKernel{router: r}, nil
}

func (k *HTTPKernel) Handler() http.Handler {
	return k.router.Handler()
}

func (k *HTTPKernel) Routes() []router.RouteInfo {
	return k.router.Routes()
}

func healthz(probe Probe) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if probe != nil {
			c, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := probe(c); err != nil {
				logger.WithCtx(r.Context()).Warn("health check failed", "error", err)
				response.Error(w, http.StatusServiceUnavailable, "Service Unavailable")
				return
			}
		}
		response.Success(w, map[string]string{"status": "ok"})
	}
}
