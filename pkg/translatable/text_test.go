package translatable_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/translatable"
)

func TestTextGet(t *testing.T) {
	t.Parallel()

	t.Run("exact match", func(t *testing.T) {
		t.Parallel()

		text := translatable.New("en", "Acme").Set("es", "Acmé")
		assert.Equal(t, "Acmé", text.Get("es"))
	})

	t.Run("base language fallback", func(t *testing.T) {
		t.Parallel()

		text := translatable.New("es", "Acmé")
		assert.Equal(t, "Acmé", text.Get("es-MX"))
	})

	t.Run("default locale fallback", func(t *testing.T) {
		t.Parallel()

		text := translatable.New("en", "Acme").Set("de", "Acme GmbH")
		assert.Equal(t, "Acme", text.Get("fr"))
	})

	t.Run("any value fallback", func(t *testing.T) {
		t.Parallel()

		text := translatable.New("de", "Acme GmbH")
		assert.Equal(t, "Acme GmbH", text.Get("fr"))
	})

	t.Run("empty text", func(t *testing.T) {
		t.Parallel()

		var text translatable.Text
		assert.Empty(t, text.Get("en"))
	})

	t.Run("case insensitive locale", func(t *testing.T) {
		t.Parallel()

		text := translatable.New("EN", "Acme")
		assert.Equal(t, "Acme", text.Get("en"))
	})
}

func TestTextSet(t *testing.T) {
	t.Parallel()

	t.Run("set on nil receiver", func(t *testing.T) {
		t.Parallel()

		var text translatable.Text
		text = text.Set("en", "Acme")
		assert.Equal(t, "Acme", text.Get("en"))
	})

	t.Run("overwrites existing", func(t *testing.T) {
		t.Parallel()

		text := translatable.New("en", "Old")
		text.Set("en", "New")
		assert.Equal(t, "New", text.Get("en"))
	})
}

func TestTextSQLRoundTrip(t *testing.T) {
	t.Parallel()

	t.Run("value and scan", func(t *testing.T) {
		t.Parallel()

		text := translatable.New("en", "Acme").Set("es", "Acmé")
		v, err := text.Value()
		require.NoError(t, err)

		var got translatable.Text
		require.NoError(t, got.Scan(v))
		assert.Equal(t, text, got)
	})

	t.Run("nil persists as NULL", func(t *testing.T) {
		t.Parallel()

		var text translatable.Text
		v, err := text.Value()
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("scan NULL", func(t *testing.T) {
		t.Parallel()

		got := translatable.New("en", "stale")
		require.NoError(t, got.Scan(nil))
		assert.True(t, got.IsEmpty())
	})

	t.Run("scan bytes", func(t *testing.T) {
		t.Parallel()

		var got translatable.Text
		require.NoError(t, got.Scan([]byte(`{"en":"Acme"}`)))
		assert.Equal(t, "Acme", got.Get("en"))
	})

	t.Run("rejects unsupported type", func(t *testing.T) {
		t.Parallel()

		var got translatable.Text
		require.ErrorIs(t, got.Scan(42), translatable.ErrUnsupportedScan)
	})
}

func TestLocaleContext(t *testing.T) {
	t.Parallel()

	t.Run("default when unset", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, translatable.DefaultLocale, translatable.GetLocale(context.Background()))
	})

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		ctx := translatable.SetLocale(context.Background(), "es")
		assert.Equal(t, "es", translatable.GetLocale(ctx))
	})

	t.Run("normalizes on set", func(t *testing.T) {
		t.Parallel()

		ctx := translatable.SetLocale(context.Background(), "EN_us")
		assert.Equal(t, "en-us", translatable.GetLocale(ctx))
	})
}

func TestCodeValidation(t *testing.T) {
	t.Parallel()

	assert.True(t, translatable.IsValidLanguage("en"))
	assert.True(t, translatable.IsValidLanguage("es"))
	assert.False(t, translatable.IsValidLanguage("eng"))
	assert.False(t, translatable.IsValidLanguage("zz"))
	assert.False(t, translatable.IsValidLanguage(""))

	assert.True(t, translatable.IsValidRegion("US"))
	assert.True(t, translatable.IsValidRegion("eg"))
	assert.False(t, translatable.IsValidRegion("USA"))
	assert.False(t, translatable.IsValidRegion(""))
}
