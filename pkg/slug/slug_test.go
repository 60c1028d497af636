package slug_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/slug"
)

func TestMake(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		opts     []slug.Option
		expected string
	}{
		{"simple", "Hello World", nil, "hello-world"},
		{"punctuation collapses", "Acme, Inc.", nil, "acme-inc"},
		{"diacritics fold", "Café Örebro", nil, "cafe-orebro"},
		{"no leading separator", "  Acme", nil, "acme"},
		{"no trailing separator", "Acme!!!", nil, "acme"},
		{"digits pass through", "Area 51", nil, "area-51"},
		{"preserve case", "Hello World", []slug.Option{slug.Lowercase(false)}, "Hello-World"},
		{"custom separator", "Hello World", []slug.Option{slug.Separator("_")}, "hello_world"},
		{"max length", "Hello World", []slug.Option{slug.MaxLength(5)}, "hello"},
		{"custom replace", "Tom & Jerry", []slug.Option{slug.CustomReplace(map[string]string{"&": "and"})}, "tom-and-jerry"},
		{"empty input", "", nil, ""},
		{"only specials", "!!!", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, slug.Make(tt.input, tt.opts...))
		})
	}
}

func TestMakeWithSuffix(t *testing.T) {
	t.Parallel()

	s := slug.Make("Acme", slug.WithSuffix(6))
	require.Len(t, s, len("acme-")+6)
	assert.Contains(t, s, "acme-")

	// Suffixed slugs should differ between calls.
	assert.NotEqual(t, s, slug.Make("Acme", slug.WithSuffix(6)))
}

func TestMakeUnique(t *testing.T) {
	t.Parallel()

	t.Run("returns base when free", func(t *testing.T) {
		t.Parallel()

		s, err := slug.MakeUnique(context.Background(), "Acme Inc", func(ctx context.Context, c string) (bool, error) {
			return false, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "acme-inc", s)
	})

	t.Run("increments on collision", func(t *testing.T) {
		t.Parallel()

		taken := map[string]bool{"acme": true, "acme-2": true}
		s, err := slug.MakeUnique(context.Background(), "Acme", func(ctx context.Context, c string) (bool, error) {
			return taken[c], nil
		})
		require.NoError(t, err)
		assert.Equal(t, "acme-3", s)
	})

	t.Run("propagates check errors", func(t *testing.T) {
		t.Parallel()

		_, err := slug.MakeUnique(context.Background(), "Acme", func(ctx context.Context, c string) (bool, error) {
			return false, assert.AnError
		})
		require.ErrorIs(t, err, assert.AnError)
	})
}
