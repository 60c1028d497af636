package tenant_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/domains"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// fakeLookup serves resolution tests without a database.
type fakeLookup struct {
	bySlug   map[string]*tenant.Tenant
	byDomain map[string]*tenant.Tenant
}

func (f *fakeLookup) ActiveBySlug(_ context.Context, slug string) (*tenant.Tenant, error) {
	if t, ok := f.bySlug[slug]; ok && t.IsActive {
		return t, nil
	}
	return nil, tenant.ErrTenantNotFound
}

func (f *fakeLookup) ActiveByDomain(_ context.Context, domain string) (*tenant.Tenant, error) {
	if t, ok := f.byDomain[domain]; ok && t.IsActive {
		return t, nil
	}
	return nil, tenant.ErrTenantNotFound
}

func testLookup() (*fakeLookup, *tenant.Tenant) {
	acme := &tenant.Tenant{Slug: "acme", IsActive: true}
	return &fakeLookup{
		bySlug:   map[string]*tenant.Tenant{"acme": acme},
		byDomain: map[string]*tenant.Tenant{"acme.com": acme},
	}, acme
}

func testClassifier() *domains.Registry {
	return domains.NewRegistry(domains.Config{
		CentralDomain: "app.test",
		AliasDomains:  []string{"alias.test"},
	})
}

func TestSubdomainResolver(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	lookup, acme := testLookup()
	r := tenant.NewSubdomainResolver(lookup, testClassifier())

	t.Run("resolves first label against slugs", func(t *testing.T) {
		t.Parallel()
		got, err := r.Resolve(ctx, "acme.app.test")
		require.NoError(t, err)
		assert.Equal(t, acme, got)
	})

	t.Run("accepts alias central domains and ports", func(t *testing.T) {
		t.Parallel()
		got, err := r.Resolve(ctx, "ACME.alias.test:8080")
		require.NoError(t, err)
		assert.Equal(t, acme, got)
	})

	t.Run("rejects the central domain itself", func(t *testing.T) {
		t.Parallel()
		_, err := r.Resolve(ctx, "app.test")
		assert.ErrorIs(t, err, tenant.ErrInvalidSubdomain)
	})

	t.Run("rejects localhost", func(t *testing.T) {
		t.Parallel()
		_, err := r.Resolve(ctx, "localhost")
		assert.ErrorIs(t, err, tenant.ErrInvalidSubdomain)
	})

	t.Run("rejects ip addresses", func(t *testing.T) {
		t.Parallel()
		_, err := r.Resolve(ctx, "127.0.0.1")
		assert.ErrorIs(t, err, tenant.ErrInvalidSubdomain)
	})

	t.Run("rejects hosts outside central domains", func(t *testing.T) {
		t.Parallel()
		_, err := r.Resolve(ctx, "acme.elsewhere.test")
		assert.ErrorIs(t, err, tenant.ErrInvalidSubdomain)
	})

	t.Run("unknown slug fails as missing tenant", func(t *testing.T) {
		t.Parallel()
		_, err := r.Resolve(ctx, "ghost.app.test")
		require.ErrorIs(t, err, tenant.ErrTenantNotFound)

		var ide *tenant.InvalidDomainError
		require.ErrorAs(t, err, &ide)
		assert.Equal(t, "ghost", ide.Value)
	})

	t.Run("deactivated tenant is unresolvable", func(t *testing.T) {
		t.Parallel()
		inactive := &tenant.Tenant{Slug: "beta", IsActive: false}
		rr := tenant.NewSubdomainResolver(&fakeLookup{
			bySlug: map[string]*tenant.Tenant{"beta": inactive},
		}, testClassifier())

		_, err := rr.Resolve(ctx, "beta.app.test")
		assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
	})
}

func TestDomainResolver(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	lookup, acme := testLookup()
	r := tenant.NewDomainResolver(lookup)

	t.Run("resolves custom domain", func(t *testing.T) {
		t.Parallel()
		got, err := r.Resolve(ctx, "Acme.com:443")
		require.NoError(t, err)
		assert.Equal(t, acme, got)
	})

	t.Run("unknown domain fails", func(t *testing.T) {
		t.Parallel()
		_, err := r.Resolve(ctx, "nobody.com")
		require.ErrorIs(t, err, tenant.ErrInvalidDomain)

		var ide *tenant.InvalidDomainError
		require.ErrorAs(t, err, &ide)
		assert.Equal(t, "nobody.com", ide.Value)
	})
}

func TestSubdomainOrDomainResolver(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	lookup, acme := testLookup()
	r := tenant.NewSubdomainOrDomainResolver(lookup, testClassifier())

	t.Run("central host is a resolved absence", func(t *testing.T) {
		t.Parallel()
		got, err := r.Resolve(ctx, "app.test")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("subdomain under central resolves by slug", func(t *testing.T) {
		t.Parallel()
		got, err := r.Resolve(ctx, "acme.app.test")
		require.NoError(t, err)
		assert.Equal(t, acme, got)
	})

	t.Run("everything else resolves by custom domain", func(t *testing.T) {
		t.Parallel()
		got, err := r.Resolve(ctx, "acme.com")
		require.NoError(t, err)
		assert.Equal(t, acme, got)
	})

	t.Run("unknown custom domain fails", func(t *testing.T) {
		t.Parallel()
		_, err := r.Resolve(ctx, "nobody.com")
		assert.ErrorIs(t, err, tenant.ErrInvalidDomain)
	})
}

func TestNewResolver(t *testing.T) {
	t.Parallel()

	lookup, _ := testLookup()
	classifier := testClassifier()

	tests := []struct {
		strategy tenant.Strategy
		want     any
		wantErr  bool
	}{
		{strategy: tenant.StrategyDomain, want: &tenant.DomainResolver{}},
		{strategy: tenant.StrategySubdomain, want: &tenant.SubdomainResolver{}},
		{strategy: tenant.StrategySubdomainOrDomain, want: &tenant.SubdomainOrDomainResolver{}},
		{strategy: "", want: &tenant.SubdomainOrDomainResolver{}},
		{strategy: "dns", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			t.Parallel()
			r, err := tenant.New(tt.strategy, lookup, classifier)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, r)
		})
	}
}
