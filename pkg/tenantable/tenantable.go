package tenantable

import (
	"time"

	"github.com/google/uuid"
)

// Tenantable is one row of the polymorphic join table linking a tenant to an
// owned entity. The composite primary key enforces that the same entity is
// never associated with the same tenant twice.
type Tenantable struct {
	TenantID       uuid.UUID `json:"tenant_id" gorm:"type:uuid;primaryKey"`
	TenantableID   uuid.UUID `json:"tenantable_id" gorm:"type:uuid;primaryKey;index"`
	TenantableType string    `json:"tenantable_type" gorm:"size:150;primaryKey"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName implements gorm.Tabler.
func (Tenantable) TableName() string {
	return "tenantables"
}

// Entity is the capability a model type implements to become tenant-owned.
// Implementing it activates the tenant scope on every query against the
// type, auto-attachment of the resolved tenant on create, and cascade
// detachment on delete.
type Entity interface {
	// TenantableID returns the entity's primary key.
	TenantableID() uuid.UUID
	// TenantableType returns the polymorphic type discriminator stored in
	// the join table, conventionally the entity's table name.
	TenantableType() string
}

// ChildEntity is the capability for models that are not tenant-owned
// themselves but hang off an owned parent (line items of an order, say).
// Queries against a ChildEntity are restricted to rows whose parent is
// visible under the current tenant.
type ChildEntity interface {
	// TenantableParent names the relationship to the owned parent.
	TenantableParent() Parent
}

// Parent describes a child entity's relationship to its tenant-owned parent.
type Parent struct {
	// Table is the parent's table name.
	Table string
	// ForeignKey is the column on the child referencing the parent.
	ForeignKey string
	// References is the referenced parent column; defaults to "id".
	References string
	// Type is the parent's polymorphic type discriminator.
	Type string
}

func (p Parent) references() string {
	if p.References == "" {
		return "id"
	}
	return p.References
}
