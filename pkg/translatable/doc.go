// Package translatable provides locale-keyed text fields for database models.
//
// A Text value is a map from locale code to translated string that persists
// as a single JSON column, so one row carries every translation of a field:
//
//	type Tenant struct {
//		Name translatable.Text `gorm:"type:json"`
//	}
//
//	t := translatable.New("en", "Acme").Set("es", "Acmé")
//	t.Get("es")    // "Acmé"
//	t.Get("es-MX") // "Acmé" (base-language fallback)
//	t.Get("fr")    // "Acme" (default-locale fallback)
//
// The package also carries the current locale through the request context
// (SetLocale/GetLocale), which writers use to decide which translation a
// plain string input should populate. Locale codes are normalized to their
// lowercase BCP 47 form via golang.org/x/text/language.
package translatable
