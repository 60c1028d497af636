package tenantable

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Statement settings recognized by the plugin callbacks.
const (
	skipTenantScopeKey = "tenantable:skip_tenant_scope"
	skipChildScopeKey  = "tenantable:skip_child_scope"
	skipAutoAttachKey  = "tenantable:skip_auto_attach"
)

// SkipTenantScope disables the tenant visibility scope for this statement,
// exposing rows of every tenant. Child scoping is disabled as well.
func SkipTenantScope(db *gorm.DB) *gorm.DB {
	return db.Set(skipTenantScopeKey, true).Set(skipChildScopeKey, true)
}

// SkipChildScope disables only the parent-based scope on child entities.
func SkipChildScope(db *gorm.DB) *gorm.DB {
	return db.Set(skipChildScopeKey, true)
}

// SkipAutoAttach disables auto-attachment of the resolved tenant on create.
func SkipAutoAttach(db *gorm.DB) *gorm.DB {
	return db.Set(skipAutoAttachKey, true)
}

// ownedExpr builds the visibility predicate for a directly owned entity:
// an association row links it to the given tenant, and that tenant is
// active and not soft-deleted.
func ownedExpr(table, pk, typ string, tenantID uuid.UUID) clause.Expression {
	return clause.Expr{
		SQL: "EXISTS (SELECT 1 FROM tenantables JOIN tenants ON tenants.id = tenantables.tenant_id " +
			"WHERE tenantables.tenantable_id = ? AND tenantables.tenantable_type = ? AND tenantables.tenant_id = ? " +
			"AND tenants.is_active = ? AND tenants.deleted_at IS NULL)",
		Vars: []any{
			clause.Column{Table: table, Name: pk},
			typ,
			tenantID,
			true,
		},
	}
}

// childExpr builds the visibility predicate for a child entity: a parent
// row exists and is itself visible under the given tenant.
func childExpr(table string, p Parent, tenantID uuid.UUID) clause.Expression {
	return clause.Expr{
		SQL: "EXISTS (SELECT 1 FROM ? WHERE ? = ? " +
			"AND EXISTS (SELECT 1 FROM tenantables JOIN tenants ON tenants.id = tenantables.tenant_id " +
			"WHERE tenantables.tenantable_id = ? AND tenantables.tenantable_type = ? AND tenantables.tenant_id = ? " +
			"AND tenants.is_active = ? AND tenants.deleted_at IS NULL))",
		Vars: []any{
			clause.Table{Name: p.Table},
			clause.Column{Table: p.Table, Name: p.references()},
			clause.Column{Table: table, Name: p.ForeignKey},
			clause.Column{Table: p.Table, Name: p.references()},
			p.Type,
			tenantID,
			true,
		},
	}
}

// WithAnyTenants matches entities associated with at least one of the
// referenced tenants. With no refs it matches entities that have any tenant
// association at all. Intended for use with db.Scopes on an Entity model.
func WithAnyTenants(typ string, refs ...Ref) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(anyExpr(typ, refs))
	}
}

// WithAllTenants matches entities associated with every referenced tenant.
func WithAllTenants(typ string, refs ...Ref) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		tx := db
		for _, r := range refs {
			tx = tx.Where(anyExpr(typ, []Ref{r}))
		}
		return tx
	}
}

// WithoutTenants matches entities not associated with any of the referenced
// tenants.
func WithoutTenants(typ string, refs ...Ref) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Not(anyExpr(typ, refs))
	}
}

// WithoutAnyTenants matches entities that have no tenant association at all.
func WithoutAnyTenants(typ string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Not(anyExpr(typ, nil))
	}
}

// anyExpr builds an EXISTS predicate over the join table for the current
// table, optionally narrowed to the referenced tenants. Refs are matched in
// SQL so no pre-resolution round trip is needed; id refs match the join
// column, slug refs match the tenants table.
func anyExpr(typ string, refs []Ref) clause.Expression {
	ids, slugs := split(refs)

	sql := "EXISTS (SELECT 1 FROM tenantables JOIN tenants ON tenants.id = tenantables.tenant_id " +
		"WHERE tenantables.tenantable_id = ? AND tenantables.tenantable_type = ?"
	vars := []any{
		clause.PrimaryColumn,
		typ,
	}

	switch {
	case len(ids) > 0 && len(slugs) > 0:
		sql += " AND (tenantables.tenant_id IN ? OR tenants.slug IN ?)"
		vars = append(vars, ids, slugs)
	case len(ids) > 0:
		sql += " AND tenantables.tenant_id IN ?"
		vars = append(vars, ids)
	case len(slugs) > 0:
		sql += " AND tenants.slug IN ?"
		vars = append(vars, slugs)
	}
	sql += ")"

	return clause.Expr{SQL: sql, Vars: vars}
}
