package domains

import (
	"context"
	"strings"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// Config declares the application's own domains.
type Config struct {
	// CentralDomain is the application's primary host, e.g. "app.example.com".
	CentralDomain string `env:"TENANCY_CENTRAL_DOMAIN,required"`
	// AliasDomains are additional hosts the application answers on.
	AliasDomains []string `env:"TENANCY_ALIAS_DOMAINS" envSeparator:","`
}

// Registry classifies request hosts against the configured central domains
// and derives the domain set belonging to the resolved tenant. Both sets are
// pure functions of configuration plus request context; nothing is cached
// beyond the call.
type Registry struct {
	central []string
}

// NewRegistry builds a registry from configuration. Hosts are compared
// case-insensitively.
func NewRegistry(cfg Config) *Registry {
	central := make([]string, 0, 1+len(cfg.AliasDomains))
	if d := normalizeDomain(cfg.CentralDomain); d != "" {
		central = append(central, d)
	}
	for _, alias := range cfg.AliasDomains {
		if d := normalizeDomain(alias); d != "" {
			central = append(central, d)
		}
	}
	return &Registry{central: central}
}

// Central returns the central domain set: the primary host plus aliases.
func (r *Registry) Central() []string {
	out := make([]string, len(r.central))
	copy(out, r.central)
	return out
}

// IsCentral reports whether host is exactly one of the central domains.
func (r *Registry) IsCentral(host string) bool {
	host = normalizeDomain(host)
	for _, d := range r.central {
		if host == d {
			return true
		}
	}
	return false
}

// EndsWithCentral reports whether host is a proper subdomain of one of the
// central domains. A bare central domain does not match.
func (r *Registry) EndsWithCentral(host string) bool {
	host = normalizeDomain(host)
	for _, d := range r.central {
		if strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// TenantDomains returns every host belonging to the tenant resolved in ctx:
// its subdomain under each central domain plus its custom domain. Empty when
// no tenant is resolved.
func (r *Registry) TenantDomains(ctx context.Context) []string {
	t, ok := tenant.FromContext(ctx)
	if !ok {
		return nil
	}

	out := make([]string, 0, len(r.central)+1)
	for _, d := range r.central {
		out = append(out, t.Slug+"."+d)
	}
	if t.HasCustomDomain() {
		out = append(out, normalizeDomain(t.CustomDomain()))
	}
	return out
}

// SessionCookieDomain selects the session-cookie domain for the current
// host: ".host" (the leading dot covers subdomains) when the host belongs to
// the resolved tenant's domain set. Central domains never qualify, which
// prevents one tenant's session cookie from leaking across every central
// subdomain.
//
// Resolution never sets this itself; callers apply the returned value in
// their own session configuration step.
func (r *Registry) SessionCookieDomain(ctx context.Context, host string) (string, bool) {
	host = normalizeDomain(host)
	if host == "" || r.IsCentral(host) {
		return "", false
	}

	for _, d := range r.TenantDomains(ctx) {
		if host == d {
			return "." + host, true
		}
	}
	return "", false
}

func normalizeDomain(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	// Strip the port without truncating bracketed IPv6 literals.
	if idx := strings.LastIndex(host, ":"); idx != -1 && !strings.Contains(host[idx:], "]") {
		host = host[:idx]
	}
	return strings.TrimSuffix(host, ".")
}
