package tenant

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ReadyChecker gates resolution on storage availability. Implemented by
// Store; returning false skips resolution for the request so fresh
// deployments without a schema never crash at the edge.
type ReadyChecker interface {
	Ready(ctx context.Context) bool
}

// Middleware resolves the tenant for each request host and publishes it into
// the request context. Requests in the central context (composite strategy,
// central-domain host) continue with no tenant published.
func Middleware(resolver Resolver, ready ReadyChecker, opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{
		cache:        NewInMemoryCache(),
		cacheTTL:     5 * time.Minute,
		errorHandler: defaultErrorHandler,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skip := range cfg.skipPaths {
				if strings.HasPrefix(r.URL.Path, skip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			ctx := r.Context()
			host := normalizeHost(r.Host)

			// The one deliberate suppression: with no reachable database or
			// no tenants table yet, requests run tenantless instead of
			// failing at boot time.
			if ready != nil && !ready.Ready(ctx) {
				cfg.logger.DebugContext(ctx, "tenant store not ready, skipping resolution", "host", host)
				next.ServeHTTP(w, r)
				return
			}

			if cached, ok := cfg.cache.Get(ctx, host); ok {
				if cached.IsActive {
					next.ServeHTTP(w, r.WithContext(WithTenant(ctx, cached)))
					return
				}
				// A deactivation must take effect before the cache expires.
				// Drop the stale entry and re-resolve so the caller sees the
				// same failure as an uncached request for this host.
				cfg.cache.Delete(ctx, host)
			}

			t, err := resolver.Resolve(ctx, host)
			if err != nil {
				cfg.logger.DebugContext(ctx, "tenant resolution failed", "host", host, "error", err)
				cfg.errorHandler(w, r, err)
				return
			}

			// Resolved absence: central context, continue unscoped.
			if t == nil {
				next.ServeHTTP(w, r)
				return
			}

			cfg.cache.Set(ctx, host, t, cfg.cacheTTL)
			next.ServeHTTP(w, r.WithContext(WithTenant(ctx, t)))
		})
	}
}

// RequireTenant ensures a tenant is present in the context, for routes that
// must never run in the central context.
func RequireTenant(errorHandler ErrorHandler) func(http.Handler) http.Handler {
	if errorHandler == nil {
		errorHandler = defaultErrorHandler
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := FromContext(r.Context()); !ok {
				errorHandler(w, r, ErrNoTenantInContext)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
