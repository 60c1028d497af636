package tenantable

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Package-level errors.
var (
	// ErrUnknownTenantRef is returned when a tenant reference cannot be
	// resolved to an existing active tenant.
	ErrUnknownTenantRef = errors.New("unknown tenant reference")
	// ErrNotFoundForTenant is returned when an entity exists but is not
	// visible under the current tenant. Use NotFoundForTenantError to get
	// the entity type and id.
	ErrNotFoundForTenant = errors.New("entity not found for current tenant")
	// ErrNilEntity is returned when a nil entity is passed to a manager
	// operation.
	ErrNilEntity = errors.New("nil entity")
)

// UnknownTenantRefError reports the reference that failed to resolve.
type UnknownTenantRefError struct {
	Ref string
}

// Error implements the error interface.
func (e *UnknownTenantRefError) Error() string {
	return fmt.Sprintf("unknown tenant reference %q", e.Ref)
}

// Is reports a match for ErrUnknownTenantRef so callers can test with
// errors.Is without inspecting the reference.
func (e *UnknownTenantRefError) Is(target error) bool {
	return target == ErrUnknownTenantRef
}

// NotFoundForTenantError distinguishes "the row does not exist" from "the
// row exists but belongs to another tenant". It is returned by Manager.Find
// in the latter case.
type NotFoundForTenantError struct {
	Type string
	ID   uuid.UUID
}

// Error implements the error interface.
func (e *NotFoundForTenantError) Error() string {
	return fmt.Sprintf("%s %s not found for current tenant", e.Type, e.ID)
}

// Is reports a match for ErrNotFoundForTenant.
func (e *NotFoundForTenantError) Is(target error) bool {
	return target == ErrNotFoundForTenant
}
