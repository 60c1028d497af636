package tenant

import (
	"errors"
	"fmt"
)

var (
	// ErrTenantNotFound is returned when no active tenant matches a lookup.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrInvalidDomain is the sentinel behind InvalidDomainError.
	ErrInvalidDomain = errors.New("no active tenant for domain")

	// ErrInvalidSubdomain is the sentinel behind InvalidSubdomainError.
	ErrInvalidSubdomain = errors.New("host is not a valid tenant subdomain")

	// ErrNoTenantInContext is returned when a tenant is required but absent.
	ErrNoTenantInContext = errors.New("no tenant in context")

	// ErrInactiveTenant is returned when a referenced tenant has been
	// deactivated.
	ErrInactiveTenant = errors.New("tenant is inactive")

	// ErrDuplicateTenant is returned when a unique constraint on slug,
	// domain or email rejects a write that slipped past the pre-checks.
	ErrDuplicateTenant = errors.New("tenant violates a unique constraint")

	// ErrStoreNotReady is returned while the backing database is
	// unreachable or the tenants table does not exist yet.
	ErrStoreNotReady = errors.New("tenant store is not ready")
)

// InvalidDomainError reports that no active tenant matched the given custom
// domain or candidate slug. Callers typically map it to a 404.
type InvalidDomainError struct {
	// Value is the offending host or slug.
	Value string
}

func (e *InvalidDomainError) Error() string {
	return fmt.Sprintf("no active tenant for %q", e.Value)
}

func (e *InvalidDomainError) Is(target error) bool {
	return target == ErrInvalidDomain || target == ErrTenantNotFound
}

// InvalidSubdomainError reports that the request host failed subdomain shape
// validation: it is a central domain itself, a single-label host, an
// IP-shaped host, or not a subdomain of any central domain.
type InvalidSubdomainError struct {
	Host string
}

func (e *InvalidSubdomainError) Error() string {
	return fmt.Sprintf("host %q is not a valid tenant subdomain", e.Host)
}

func (e *InvalidSubdomainError) Is(target error) bool {
	return target == ErrInvalidSubdomain
}
