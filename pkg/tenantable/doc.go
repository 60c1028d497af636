// Package tenantable provides polymorphic tenant ownership for GORM models.
//
// Any model gains tenant ownership by implementing the Entity interface;
// rows are linked to tenants through a shared polymorphic join table, so a
// single entity may belong to several tenants at once. Registering Plugin
// on a *gorm.DB then makes ownership ambient: queries, updates, and deletes
// against owned models are automatically restricted to the tenant carried
// on the statement context, creates attach the new row to that tenant, and
// deletes clean up its association rows. Statements without a tenant on the
// context run unscoped, and SkipTenantScope opts a single statement out.
//
//	db.Use(tenantable.NewPlugin())
//
//	ctx := tenant.WithTenant(ctx, t)
//	db.WithContext(ctx).Find(&articles) // only t's articles
//
// Models that hang off an owned parent implement ChildEntity instead and
// are scoped through the parent relationship.
//
// Manager performs explicit association work (Attach, Detach, Sync,
// membership checks, listing a record's tenants), and the With*/Without*
// scopes express ownership predicates in ordinary queries regardless of
// the plugin:
//
//	db.Scopes(tenantable.WithAnyTenants("articles", tenantable.BySlug("acme"))).
//		Find(&articles)
package tenantable
