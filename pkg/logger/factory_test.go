package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/logger"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json output with static attrs", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(
			logger.WithOutput(&buf),
			logger.WithAttr(slog.String("service", "api")),
		)
		log.Info("hello")

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "hello", rec["msg"])
		assert.Equal(t, "api", rec["service"])
	})

	t.Run("text format", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithFormat(logger.FormatText))
		log.Info("hello")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("invalid format panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { logger.New(logger.WithFormat("xml")) })
	})

	t.Run("level filtering", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithLevel(slog.LevelWarn))
		log.Info("dropped")
		assert.Empty(t, buf.String())
	})
}

func TestTenantContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithTenantContext())

	acme := &tenant.Tenant{ID: uuid.New(), Slug: "acme"}
	log.InfoContext(tenant.WithTenant(context.Background(), acme), "handled")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	group, ok := rec["tenant"].(map[string]any)
	require.True(t, ok, "expected tenant group in %v", rec)
	assert.Equal(t, acme.ID.String(), group["id"])
	assert.Equal(t, "acme", group["slug"])

	buf.Reset()
	log.Info("no tenant")
	var bare map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &bare))
	_, ok = bare["tenant"]
	assert.False(t, ok)
}

func TestAttrs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Attr{}, logger.Error(nil))
	assert.Equal(t, "error", logger.Error(errors.New("boom")).Key)

	assert.Equal(t, slog.Attr{}, logger.Errors(nil, nil))
	assert.Equal(t, "errors", logger.Errors(errors.New("boom")).Key)

	id := uuid.New()
	assert.Equal(t, id.String(), logger.TenantID(id).Value.String())
	assert.Equal(t, slog.Attr{}, logger.TenantID(uuid.Nil))
	assert.Equal(t, "acme", logger.TenantSlug("acme").Value.String())
	assert.Equal(t, "acme.app.test", logger.Host("acme.app.test").Value.String())
}
