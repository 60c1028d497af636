package pg_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dmitrymomot/tenantkit/pkg/pg"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestConnectEmptyConnectionString(t *testing.T) {
	t.Parallel()

	_, err := pg.Connect(context.Background(), pg.Config{})
	assert.ErrorIs(t, err, pg.ErrEmptyConnectionString)
}

func TestMigrate(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	require.NoError(t, pg.Migrate(context.Background(), db))

	assert.True(t, db.Migrator().HasTable("tenants"))
	assert.True(t, db.Migrator().HasTable("tenantables"))
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	check := pg.Healthcheck(db)
	assert.NoError(t, check(context.Background()))
}

func TestErrorHelpers(t *testing.T) {
	t.Parallel()

	assert.False(t, pg.IsNotFoundError(nil))
	assert.True(t, pg.IsNotFoundError(gorm.ErrRecordNotFound))
	assert.True(t, pg.IsDuplicateKeyError(gorm.ErrDuplicatedKey))
	assert.False(t, pg.IsDuplicateKeyError(gorm.ErrRecordNotFound))
	assert.True(t, pg.IsForeignKeyViolationError(gorm.ErrForeignKeyViolated))
}
