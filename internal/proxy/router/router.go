// internal/proxy/router/router.go

// Package router builds the request routing for the gate: configured public
// path patterns are proxied to the upstream without authentication, every
// other path goes through the authentication filter first.
package router

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"authgate/internal/authz/pathmatch"
	"authgate/internal/contextutil"
	"authgate/internal/httputils"
	"authgate/internal/observability/logging"
	"authgate/internal/observability/metrics"

	"github.com/gorilla/mux"
)

// Router routes requests to the upstream, applying the authentication
// filter to every path not declared public.
type Router struct {
	*mux.Router
	target      *httputil.ReverseProxy
	logger      *logging.Logger
	metrics     *metrics.Collector
	upstreamURL *url.URL
	publicPaths []string
}

// Config holds router configuration
type Config struct {
	// UpstreamURL is the URL of the upstream service
	UpstreamURL *url.URL

	// UpstreamTimeout is the timeout for upstream service requests
	UpstreamTimeout time.Duration

	// PublicPaths is a list of ant-style patterns served without
	// authentication
	PublicPaths []string
}

// New creates a new router. authMiddleware wraps the proxy handler for all
// non-public paths.
func New(config Config, authMiddleware func(http.Handler) http.Handler,
	logger *logging.Logger, metricsCollector *metrics.Collector) *Router {
	target := httputil.NewSingleHostReverseProxy(config.UpstreamURL)
	target.Transport = &http.Transport{
		ResponseHeaderTimeout: config.UpstreamTimeout,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	r := &Router{
		Router:      mux.NewRouter(),
		target:      target,
		logger:      logger.WithModule("proxy.router"),
		metrics:     metricsCollector,
		upstreamURL: config.UpstreamURL,
		publicPaths: config.PublicPaths,
	}

	r.setupRoutes(authMiddleware)

	return r
}

// setupRoutes wires the public and protected handlers
func (r *Router) setupRoutes(authMiddleware func(http.Handler) http.Handler) {
	proxyHandler := r.createProxyHandler()

	// Public patterns bypass the filter entirely.
	r.MatcherFunc(func(req *http.Request, _ *mux.RouteMatch) bool {
		return pathmatch.MatchesAny(r.publicPaths, req.URL.Path)
	}).Handler(proxyHandler)

	// Everything else is authenticated and path-authorized before it
	// reaches the upstream.
	r.PathPrefix("/").Handler(authMiddleware(proxyHandler))
}

// createProxyHandler creates the handler that forwards to the upstream
func (r *Router) createProxyHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		logger := contextutil.GetLogger(ctx)
		if logger == nil {
			logger = r.logger
		}

		logger.Debug("Proxying to upstream",
			"path", req.URL.Path,
			"method", req.Method,
			"upstream", logging.RedactURL(r.upstreamURL),
		)

		wrapper := httputils.NewResponseWriter(w)
		r.target.ServeHTTP(wrapper, req)

		r.metrics.RecordUpstreamRequest(req.Method, wrapper.StatusCode)
	})
}
