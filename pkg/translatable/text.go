package translatable

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedScan is returned when scanning a database value that is
// neither []byte, string nor NULL.
var ErrUnsupportedScan = errors.New("translatable: unsupported scan source")

// Text is a translatable string persisted as a JSON object keyed by locale
// code, e.g. {"en": "Acme", "es": "Acmé"}.
type Text map[string]string

// New returns a Text holding a single translation.
func New(locale, value string) Text {
	return Text{normalize(locale): value}
}

// Get returns the translation for the given locale. Lookup order: exact
// locale, base language ("en-US" falls back to "en"), then any available
// translation. Returns "" only when the map is empty.
func (t Text) Get(locale string) string {
	if len(t) == 0 {
		return ""
	}

	locale = normalize(locale)
	if v, ok := t[locale]; ok {
		return v
	}

	if idx := strings.Index(locale, "-"); idx > 0 {
		if v, ok := t[locale[:idx]]; ok {
			return v
		}
	}

	// Deterministic fallback: prefer the default language if present.
	if v, ok := t[DefaultLocale]; ok {
		return v
	}
	for _, v := range t {
		return v
	}
	return ""
}

// Set stores a translation for the given locale, returning the receiver for
// chaining. A nil receiver is replaced.
func (t Text) Set(locale, value string) Text {
	if t == nil {
		return New(locale, value)
	}
	t[normalize(locale)] = value
	return t
}

// Has reports whether an exact translation exists for the locale.
func (t Text) Has(locale string) bool {
	_, ok := t[normalize(locale)]
	return ok
}

// IsEmpty reports whether no translation is set.
func (t Text) IsEmpty() bool {
	for _, v := range t {
		if v != "" {
			return false
		}
	}
	return true
}

// Value implements driver.Valuer, serializing to a JSON object. Empty maps
// persist as NULL so nullable columns stay NULL.
func (t Text) Value() (driver.Value, error) {
	if t == nil {
		return nil, nil
	}
	b, err := json.Marshal(map[string]string(t))
	if err != nil {
		return nil, fmt.Errorf("translatable: marshal: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner, accepting JSON as []byte or string.
func (t *Text) Scan(src any) error {
	if src == nil {
		*t = nil
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedScan, src)
	}

	if len(data) == 0 {
		*t = nil
		return nil
	}

	m := map[string]string{}
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("translatable: unmarshal: %w", err)
	}
	*t = m
	return nil
}

// GormDataType tells GORM to map the field to the dialect's JSON column type.
func (Text) GormDataType() string {
	return "json"
}
