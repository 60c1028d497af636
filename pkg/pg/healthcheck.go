package pg

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Healthcheck returns a closure that validates database connectivity for health endpoints.
// Uses closure pattern to inject the connection dependency while maintaining
// compatibility with standard health check interfaces that expect func(context.Context) error.
func Healthcheck(db *gorm.DB) func(context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
