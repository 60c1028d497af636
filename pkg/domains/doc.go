// Package domains classifies request hosts into central domains (the
// application's own) and tenant domains (subdomains and custom domains of
// the resolved tenant).
//
// The Registry backs two consumers: the tenant resolvers, which need to know
// whether a host is, or is under, a central domain; and session
// configuration, which picks a cookie domain that covers the tenant's hosts
// without leaking across central subdomains.
//
//	var cfg domains.Config
//	config.MustLoad(&cfg)
//	registry := domains.NewRegistry(cfg)
//
//	registry.IsCentral("app.example.com")       // true
//	registry.EndsWithCentral("acme.example.com") // depends on config
//
//	if domain, ok := registry.SessionCookieDomain(ctx, r.Host); ok {
//		sessionCookie.Domain = domain
//	}
//
// Domain sets are recomputed on each call from configuration and the
// resolved tenant in the context; the registry holds no per-request state.
package domains
