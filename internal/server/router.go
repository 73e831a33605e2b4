// Package server wires the reference backend: storage, handlers and middleware.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/treekeeper/internal/server/handlers"
	"github.com/iudanet/treekeeper/internal/server/middleware"
	"github.com/iudanet/treekeeper/internal/server/storage"
	"github.com/iudanet/treekeeper/pkg/api"
)

// HealthPath is the health check endpoint
const HealthPath = "/api/v1/health"

// Options настраивает маршрутизатор
type Options struct {
	APIKey     string        // ключ проекта; пустой отключает проверку
	RateLimit  int           // запросов на клиента за RateWindow; 0 отключает лимит
	RateWindow time.Duration // окно лимита
}

// Router is the HTTP handler of the backend
type Router struct {
	handler http.Handler
	limiter *middleware.RateLimiter
}

// NewRouter builds the route table:
//
//	GET  /api/v1/health
//	*    /rest/v1/<table>  (apikey, rate limit)
func NewRouter(store storage.Storage, opts Options, logger *slog.Logger) *Router {
	r := &Router{}

	rest := []func(http.Handler) http.Handler{middleware.APIKeyMiddleware(logger, opts.APIKey)}
	if opts.RateLimit > 0 {
		window := opts.RateWindow
		if window <= 0 {
			window = time.Minute
		}
		r.limiter = middleware.NewRateLimiter(opts.RateLimit, window)
		rest = append(rest, middleware.RateLimitMiddleware(r.limiter, logger))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+HealthPath, handlers.NewHealthHandler(logger, store).Health)
	mux.Handle(api.RestPrefix, middleware.Chain(handlers.NewRestHandler(logger, store), rest...))

	r.handler = middleware.Chain(mux,
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger, HealthPath, api.RestPrefix),
	)

	return r
}

// ServeHTTP implements http.Handler
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

// Close stops background work of the middleware
func (r *Router) Close() {
	if r.limiter != nil {
		r.limiter.Stop()
	}
}
