package pg

import (
	"context"
	"errors"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens a GORM database handle with retry logic for reliable startup.
// Uses linear backoff to handle transient network issues without overwhelming
// the database. TranslateError is enabled so unique and foreign key
// violations surface as gorm.ErrDuplicatedKey and gorm.ErrForeignKeyViolated.
func Connect(ctx context.Context, cfg Config) (*gorm.DB, error) {
	if cfg.ConnectionString == "" {
		return nil, ErrEmptyConnectionString
	}

	var lastErr error
	// Backoff grows per attempt: attempt 1 waits RetryInterval, attempt 2 waits 2x, attempt 3 waits 3x.
	// This prevents thundering herd problems when multiple services restart simultaneously.
	for i := range max(cfg.RetryAttempts, 1) {
		db, err := gorm.Open(postgres.Open(cfg.ConnectionString), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(i+1) * cfg.RetryInterval)
			continue
		}

		sqlDB, err := db.DB()
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(i+1) * cfg.RetryInterval)
			continue
		}
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxIdleTime(cfg.MaxConnIdleTime)
		sqlDB.SetConnMaxLifetime(cfg.MaxConnLifetime)

		// Verify connection with actual database ping to catch authentication and permission issues.
		if err := sqlDB.PingContext(ctx); err != nil {
			lastErr = err
			_ = sqlDB.Close()
			time.Sleep(time.Duration(i+1) * cfg.RetryInterval)
			continue
		}

		return db, nil
	}

	return nil, errors.Join(ErrFailedToOpenDBConnection, lastErr)
}
