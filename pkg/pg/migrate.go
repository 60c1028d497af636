package pg

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
	"github.com/dmitrymomot/tenantkit/pkg/tenantable"
)

// Migrate brings the tenancy schema up to date: the tenants table and the
// polymorphic join table. Application models are passed as extras so the
// whole schema migrates in one call before the service starts serving
// traffic.
func Migrate(ctx context.Context, db *gorm.DB, extras ...any) error {
	models := append([]any{&tenant.Tenant{}, &tenantable.Tenantable{}}, extras...)
	if err := db.WithContext(ctx).AutoMigrate(models...); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}
	return nil
}
