// Package logger builds slog loggers that automatically stamp log records
// with request-scoped context, most importantly the resolved tenant.
//
// The factory wraps a standard text or JSON handler with a decorator that
// runs registered context extractors on every record:
//
//	log := logger.New(
//	    logger.WithProduction("api"),
//	    logger.WithTenantContext(),
//	)
//	logger.SetAsDefault(log)
//
// With WithTenantContext every record logged under a request context that
// carries a resolved tenant gains a "tenant" group with the tenant's id and
// slug, so per-tenant filtering in log aggregation needs no explicit
// plumbing in handlers.
package logger
