// Package pg bootstraps the PostgreSQL layer of a multi-tenant application
// using GORM. It offers a thin abstraction around connection setup,
// migrations, health checks, and common error helpers so that applications
// can bring up a resilient database layer with only a few lines of code.
//
// Three cooperating building blocks:
//
//   - Config – a declarative struct whose fields are populated from
//     environment variables via github.com/caarlos0/env. It controls
//     connection pool limits and retry behavior.
//
//   - Connect – opens a *gorm.DB based on Config, retrying with growing
//     backoff until the database becomes available. Error translation is
//     enabled so constraint violations map to GORM's sentinel errors.
//
//   - Migrate – migrates the tenancy schema (tenants plus the polymorphic
//     join table) along with any application models, guaranteeing the schema
//     is up-to-date before the service starts serving traffic.
//
// Basic set-up:
//
//	var cfg pg.Config
//	if err := env.Parse(&cfg); err != nil {
//	    panic(err)
//	}
//
//	ctx := context.Background()
//	db, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    panic(err)
//	}
//
//	if err := pg.Migrate(ctx, db, &Article{}); err != nil {
//	    panic(err)
//	}
//
//	health := pg.Healthcheck(db)
//
// Convenience helpers such as [IsDuplicateKeyError] or
// [IsForeignKeyViolationError] classify translated GORM errors inside
// business logic.
package pg
