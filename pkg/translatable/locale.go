package translatable

import (
	"context"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLocale is used when no locale is present in the context.
const DefaultLocale = "en"

// localeContextKey is a private type to prevent collisions with other context keys.
type localeContextKey struct{}

// SetLocale stores the current locale in the context. Translatable writes
// without an explicit locale target this value.
func SetLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeContextKey{}, normalize(locale))
}

// GetLocale returns the locale from the context, or DefaultLocale.
func GetLocale(ctx context.Context) string {
	locale, _ := ctx.Value(localeContextKey{}).(string)
	if locale == "" {
		return DefaultLocale
	}
	return locale
}

// Normalize canonicalizes an arbitrary locale code to its BCP 47 form in
// lowercase ("EN_us" -> "en-us"). Unparseable codes are lowercased as-is so
// lookups stay deterministic rather than failing.
func Normalize(code string) string {
	return normalize(code)
}

func normalize(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	if tag, err := language.Parse(strings.ReplaceAll(code, "_", "-")); err == nil {
		return strings.ToLower(tag.String())
	}
	return strings.ToLower(code)
}

// IsValidLanguage reports whether code is a well-formed 2-letter ISO 639-1
// language code.
func IsValidLanguage(code string) bool {
	if len(code) != 2 {
		return false
	}
	base, err := language.ParseBase(code)
	return err == nil && base.String() == strings.ToLower(code)
}

// IsValidRegion reports whether code is a well-formed 2-letter ISO 3166-1
// country code.
func IsValidRegion(code string) bool {
	if len(code) != 2 {
		return false
	}
	region, err := language.ParseRegion(code)
	return err == nil && region.String() == strings.ToUpper(code)
}
