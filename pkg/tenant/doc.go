// Package tenant identifies which tenant owns an incoming request and
// manages the tenant record itself.
//
// # Architecture
//
// The package is built around four pieces:
//
//  1. Tenant + Store - the tenant record and its validated persistence
//     pipeline (slug derivation, field rules, uniqueness pre-checks,
//     soft delete, activation lifecycle)
//  2. Resolvers - map a request host to exactly one active tenant, by
//     custom domain, by subdomain, or by either
//  3. Middleware - orchestrates readiness gating, caching, resolution and
//     context propagation
//  4. Context - the request-scoped publication every downstream component
//     reads the resolved tenant from
//
// # Resolution strategies
//
// Three strategies are selectable by configuration key:
//
//   - "domain": the host must equal an active tenant's custom domain
//   - "subdomain": the first host label must equal an active tenant's slug,
//     and the host must be a proper subdomain of a configured central domain
//   - "subdomain_or_domain": hosts under a central domain resolve by
//     subdomain, any other host by custom domain, and a bare central domain
//     resolves to no tenant (the central/administrative context)
//
// Failures are typed: InvalidSubdomainError for host-shape violations,
// InvalidDomainError when no active tenant matches. Both unwrap to
// sentinels for errors.Is checks and are expected to surface as 404s.
//
// # Usage
//
//	store := tenant.NewStore(db)
//	registry := domains.NewRegistry(domainsCfg)
//	resolver, _ := tenant.New(tenant.StrategySubdomainOrDomain, store, registry)
//
//	mw := tenant.Middleware(resolver, store,
//		tenant.WithCacheTTL(10*time.Minute),
//		tenant.WithSkipPaths([]string{"/health"}),
//	)
//	router.Use(mw)
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//		t, ok := tenant.FromContext(r.Context())
//		if !ok {
//			// central context
//		}
//		_ = t
//	}
//
// The resolved tenant is computed at most once per request and treated as
// immutable afterwards; concurrent requests resolve independently.
package tenant
