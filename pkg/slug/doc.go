// Package slug generates URL-safe identifiers from arbitrary strings.
//
// Tenant slugs double as subdomain labels, so the generator folds common
// Latin diacritics to ASCII, collapses everything else into a configurable
// separator, and lowercases by default.
//
// # Usage
//
//	import "github.com/dmitrymomot/tenantkit/pkg/slug"
//
//	slug.Make("Acme Inc.")          // "acme-inc"
//	slug.Make("Café Örebro")        // "cafe-orebro"
//	slug.Make("Hello", slug.WithSuffix(6)) // "hello-x7g3k2"
//
// MakeUnique retries with an incrementing numeric suffix until the supplied
// collision check passes, which is how tenant slugs stay unique without a
// random component:
//
//	s, err := slug.MakeUnique(ctx, "Acme", store.SlugExists)
//	// "acme", or "acme-2" if taken
//
// All functions are safe for concurrent use.
package slug
