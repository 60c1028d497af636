package tenant

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Lookup is the slice of the store the resolvers need. Both lookups must
// match active, non-deleted tenants only and return ErrTenantNotFound when
// nothing matches.
type Lookup interface {
	ActiveBySlug(ctx context.Context, slug string) (*Tenant, error)
	ActiveByDomain(ctx context.Context, domain string) (*Tenant, error)
}

// Classifier answers host-classification questions against the configured
// central domains. Implemented by domains.Registry.
type Classifier interface {
	// IsCentral reports whether host is exactly one of the central domains.
	IsCentral(host string) bool
	// EndsWithCentral reports whether host is a proper subdomain of one of
	// the central domains.
	EndsWithCentral(host string) bool
}

// Resolver maps a request host to exactly one active tenant.
//
// A typed error means resolution failed; a nil tenant with a nil error is a
// resolved absence: the request targets the central/administrative context
// and runs unscoped. Only SubdomainOrDomainResolver produces absences.
type Resolver interface {
	Resolve(ctx context.Context, host string) (*Tenant, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, host string) (*Tenant, error)

func (f ResolverFunc) Resolve(ctx context.Context, host string) (*Tenant, error) {
	return f(ctx, host)
}

// Strategy names a resolver selectable through configuration.
type Strategy string

const (
	StrategyDomain            Strategy = "domain"
	StrategySubdomain         Strategy = "subdomain"
	StrategySubdomainOrDomain Strategy = "subdomain_or_domain"
)

// New returns the resolver for the configured strategy key.
func New(strategy Strategy, lookup Lookup, classifier Classifier) (Resolver, error) {
	switch strategy {
	case StrategyDomain:
		return NewDomainResolver(lookup), nil
	case StrategySubdomain:
		return NewSubdomainResolver(lookup, classifier), nil
	case StrategySubdomainOrDomain, "":
		return NewSubdomainOrDomainResolver(lookup, classifier), nil
	default:
		return nil, fmt.Errorf("unknown tenant resolution strategy %q", strategy)
	}
}

// DomainResolver matches the request host against tenants' custom domains.
type DomainResolver struct {
	lookup Lookup
}

// NewDomainResolver creates a custom-domain resolver.
func NewDomainResolver(lookup Lookup) *DomainResolver {
	return &DomainResolver{lookup: lookup}
}

// Resolve returns the unique active tenant whose custom domain equals the
// host exactly, or InvalidDomainError.
func (r *DomainResolver) Resolve(ctx context.Context, host string) (*Tenant, error) {
	host = normalizeHost(host)

	t, err := r.lookup.ActiveByDomain(ctx, host)
	if err != nil {
		if errors.Is(err, ErrTenantNotFound) {
			return nil, &InvalidDomainError{Value: host}
		}
		return nil, err
	}
	return t, nil
}

// SubdomainResolver matches the first label of the request host against
// tenant slugs, after validating that the host really is a subdomain of a
// central domain.
type SubdomainResolver struct {
	lookup     Lookup
	classifier Classifier
}

// NewSubdomainResolver creates a subdomain resolver.
func NewSubdomainResolver(lookup Lookup, classifier Classifier) *SubdomainResolver {
	return &SubdomainResolver{lookup: lookup, classifier: classifier}
}

// Resolve validates the host shape, then returns the unique active tenant
// whose slug equals the first host label.
//
// The validation gate rejects, in order: a host that is a central domain
// itself, a single-label host (localhost), an IP-shaped host, and a host
// that is not a subdomain of any central domain. Shape violations fail with
// InvalidSubdomainError; a missing tenant fails with InvalidDomainError
// carrying the candidate slug.
func (r *SubdomainResolver) Resolve(ctx context.Context, host string) (*Tenant, error) {
	host = normalizeHost(host)
	labels := strings.Split(host, ".")

	switch {
	case r.classifier.IsCentral(host):
		return nil, &InvalidSubdomainError{Host: host}
	case len(labels) == 1:
		return nil, &InvalidSubdomainError{Host: host}
	case isIPShaped(labels):
		return nil, &InvalidSubdomainError{Host: host}
	case !r.classifier.EndsWithCentral(host):
		return nil, &InvalidSubdomainError{Host: host}
	}

	candidate := labels[0]
	t, err := r.lookup.ActiveBySlug(ctx, candidate)
	if err != nil {
		if errors.Is(err, ErrTenantNotFound) {
			return nil, &InvalidDomainError{Value: candidate}
		}
		return nil, err
	}
	return t, nil
}

// SubdomainOrDomainResolver serves deployments that accept both
// "tenant.ourapp.com" and "tenant-custom-domain.com" patterns: hosts under a
// central domain resolve by subdomain, everything else by custom domain.
// A bare central domain resolves to no tenant at all.
type SubdomainOrDomainResolver struct {
	subdomain  *SubdomainResolver
	domain     *DomainResolver
	classifier Classifier
}

// NewSubdomainOrDomainResolver creates the composite resolver.
func NewSubdomainOrDomainResolver(lookup Lookup, classifier Classifier) *SubdomainOrDomainResolver {
	return &SubdomainOrDomainResolver{
		subdomain:  NewSubdomainResolver(lookup, classifier),
		domain:     NewDomainResolver(lookup),
		classifier: classifier,
	}
}

// Resolve delegates by host shape. Central-domain hosts return nil, nil: the
// request legitimately runs in the central context, which is an absence, not
// a failure.
func (r *SubdomainOrDomainResolver) Resolve(ctx context.Context, host string) (*Tenant, error) {
	host = normalizeHost(host)

	if r.classifier.IsCentral(host) {
		return nil, nil
	}
	if r.classifier.EndsWithCentral(host) {
		return r.subdomain.Resolve(ctx, host)
	}
	return r.domain.Resolve(ctx, host)
}

// normalizeHost lowercases and strips an optional port.
func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if idx := strings.LastIndex(host, ":"); idx != -1 && !strings.Contains(host[idx:], "]") {
		host = host[:idx]
	}
	return strings.TrimSuffix(host, ".")
}

// isIPShaped reports whether every host label is purely numeric, which
// covers dotted IPv4 forms that can never be tenant subdomains.
func isIPShaped(labels []string) bool {
	for _, label := range labels {
		if label == "" {
			return false
		}
		for _, r := range label {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}
