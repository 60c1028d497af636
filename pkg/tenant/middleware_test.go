package tenant_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

type alwaysReady struct{}

func (alwaysReady) Ready(context.Context) bool { return true }

type neverReady struct{}

func (neverReady) Ready(context.Context) bool { return false }

// echoTenant reports the resolved tenant slug, or "-" when none.
func echoTenant() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if t, ok := tenant.FromContext(r.Context()); ok {
			_, _ = w.Write([]byte(t.Slug))
			return
		}
		_, _ = w.Write([]byte("-"))
	})
}

func doRequest(t *testing.T, h http.Handler, host, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "http://"+host+path, nil)
	req.Host = host
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	acme := &tenant.Tenant{ID: uuid.New(), Slug: "acme", IsActive: true}

	resolver := tenant.ResolverFunc(func(_ context.Context, host string) (*tenant.Tenant, error) {
		switch host {
		case "acme.app.test":
			return acme, nil
		case "app.test":
			return nil, nil
		case "localhost":
			return nil, &tenant.InvalidSubdomainError{Host: host}
		default:
			return nil, &tenant.InvalidDomainError{Value: host}
		}
	})

	t.Run("publishes resolved tenant", func(t *testing.T) {
		t.Parallel()
		h := tenant.Middleware(resolver, alwaysReady{})(echoTenant())

		rec := doRequest(t, h, "acme.app.test", "/")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "acme", rec.Body.String())
	})

	t.Run("central host continues without tenant", func(t *testing.T) {
		t.Parallel()
		h := tenant.Middleware(resolver, alwaysReady{})(echoTenant())

		rec := doRequest(t, h, "app.test", "/")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "-", rec.Body.String())
	})

	t.Run("invalid subdomain maps to 404", func(t *testing.T) {
		t.Parallel()
		h := tenant.Middleware(resolver, alwaysReady{})(echoTenant())

		rec := doRequest(t, h, "localhost", "/")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown tenant maps to 404", func(t *testing.T) {
		t.Parallel()
		h := tenant.Middleware(resolver, alwaysReady{})(echoTenant())

		rec := doRequest(t, h, "ghost.app.test", "/")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("custom error handler wins", func(t *testing.T) {
		t.Parallel()
		h := tenant.Middleware(resolver, alwaysReady{},
			tenant.WithErrorHandler(func(w http.ResponseWriter, _ *http.Request, _ error) {
				w.WriteHeader(http.StatusTeapot)
			}),
		)(echoTenant())

		rec := doRequest(t, h, "ghost.app.test", "/")
		assert.Equal(t, http.StatusTeapot, rec.Code)
	})

	t.Run("skip paths bypass resolution", func(t *testing.T) {
		t.Parallel()
		h := tenant.Middleware(resolver, alwaysReady{},
			tenant.WithSkipPaths([]string{"/health"}),
		)(echoTenant())

		rec := doRequest(t, h, "ghost.app.test", "/health/live")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "-", rec.Body.String())
	})

	t.Run("unready store skips resolution", func(t *testing.T) {
		t.Parallel()
		h := tenant.Middleware(resolver, neverReady{})(echoTenant())

		rec := doRequest(t, h, "acme.app.test", "/")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "-", rec.Body.String())
	})

	t.Run("cache serves repeated requests", func(t *testing.T) {
		t.Parallel()

		var calls int
		counting := tenant.ResolverFunc(func(ctx context.Context, host string) (*tenant.Tenant, error) {
			calls++
			return resolver.Resolve(ctx, host)
		})
		h := tenant.Middleware(counting, alwaysReady{})(echoTenant())

		for range 3 {
			rec := doRequest(t, h, "acme.app.test", "/")
			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, "acme", rec.Body.String())
		}
		assert.Equal(t, 1, calls)
	})

	t.Run("cached tenant that got deactivated re-resolves", func(t *testing.T) {
		t.Parallel()

		cache := tenant.NewInMemoryCache()
		t.Cleanup(func() { _ = cache.Close() })

		stale := &tenant.Tenant{ID: uuid.New(), Slug: "stale", IsActive: false}
		cache.Set(context.Background(), "stale.app.test", stale, time.Minute)

		var calls int
		counting := tenant.ResolverFunc(func(ctx context.Context, host string) (*tenant.Tenant, error) {
			calls++
			return resolver.Resolve(ctx, host)
		})
		h := tenant.Middleware(counting, alwaysReady{}, tenant.WithCache(cache))(echoTenant())

		// The stale entry is dropped and the request fails the same way an
		// uncached one for this host would.
		rec := doRequest(t, h, "stale.app.test", "/")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, 1, calls)

		_, ok := cache.Get(context.Background(), "stale.app.test")
		assert.False(t, ok)
	})
}

func TestRequireTenant(t *testing.T) {
	t.Parallel()

	t.Run("passes with tenant", func(t *testing.T) {
		t.Parallel()
		h := tenant.RequireTenant(nil)(echoTenant())

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := tenant.WithTenant(req.Context(), &tenant.Tenant{Slug: "acme"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req.WithContext(ctx))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "acme", rec.Body.String())
	})

	t.Run("rejects without tenant", func(t *testing.T) {
		t.Parallel()
		h := tenant.RequireTenant(nil)(echoTenant())

		rec := doRequest(t, h, "app.test", "/")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
