package slug

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"unicode"
)

// Option configures slug generation.
type Option func(*config)

type config struct {
	maxLength     int
	separator     string
	lowercase     bool
	customReplace map[string]string
	suffixLength  int
}

func defaultConfig() *config {
	return &config{
		maxLength: 0, // no limit
		separator: "-",
		lowercase: true,
	}
}

// MaxLength truncates the generated slug to n runes.
func MaxLength(n int) Option {
	return func(c *config) { c.maxLength = n }
}

// Separator sets the separator string. Default is "-".
func Separator(s string) Option {
	return func(c *config) { c.separator = s }
}

// Lowercase controls lowercase conversion. Default is true.
func Lowercase(enabled bool) Option {
	return func(c *config) { c.lowercase = enabled }
}

// CustomReplace applies string replacements before slugification,
// e.g. {"&": "and"}.
func CustomReplace(replacements map[string]string) Option {
	return func(c *config) { c.customReplace = replacements }
}

// WithSuffix appends a random alphanumeric suffix of the given length,
// separated by the configured separator.
func WithSuffix(length int) Option {
	return func(c *config) { c.suffixLength = length }
}

// Make converts s into a URL-safe slug. Letters and digits pass through,
// common Latin diacritics fold to ASCII, and every other run of characters
// collapses into a single separator.
func Make(s string, opts ...Option) string {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	for old, repl := range cfg.customReplace {
		s = strings.ReplaceAll(s, old, repl)
	}

	var b strings.Builder
	b.Grow(len(s))

	lastWasSep := true // suppress leading separator
	runeCount := 0

	for _, r := range s {
		if cfg.maxLength > 0 && runeCount >= cfg.maxLength {
			break
		}

		if folded, ok := asciiFold[r]; ok {
			r = folded
		}
		if cfg.lowercase {
			r = unicode.ToLower(r)
		}

		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastWasSep = false
			runeCount++
			continue
		}

		if !lastWasSep {
			if cfg.maxLength > 0 && runeCount+len([]rune(cfg.separator)) > cfg.maxLength {
				break
			}
			b.WriteString(cfg.separator)
			lastWasSep = true
			runeCount += len([]rune(cfg.separator))
		}
	}

	result := strings.TrimSuffix(b.String(), cfg.separator)

	if cfg.suffixLength > 0 {
		suffix := randomSuffix(cfg.suffixLength)
		if result == "" {
			return suffix
		}
		result = result + cfg.separator + suffix
	}

	return result
}

// ExistsFunc reports whether a candidate slug is already taken.
type ExistsFunc func(ctx context.Context, candidate string) (bool, error)

// MakeUnique generates a slug from s and, on collision, appends an
// incrementing numeric suffix ("acme", "acme-2", "acme-3", ...) until the
// exists check passes.
func MakeUnique(ctx context.Context, s string, exists ExistsFunc, opts ...Option) (string, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	base := Make(s, opts...)
	candidate := base

	for i := 2; ; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%s%d", base, cfg.separator, i)
	}
}

// randomSuffix returns a lowercase alphanumeric string of the given length.
func randomSuffix(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"

	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		// Deterministic fallback keeps slug generation infallible.
		for i := range b {
			b[i] = charset[i%len(charset)]
		}
		return string(b)
	}
	for i := range b {
		b[i] = charset[b[i]%byte(len(charset))]
	}
	return string(b)
}

// asciiFold maps common Latin diacritics to ASCII equivalents. Not exhaustive
// for all Unicode ranges; unmapped runes become separators.
var asciiFold = map[rune]rune{
	'à': 'a', 'á': 'a', 'â': 'a', 'ã': 'a', 'ä': 'a', 'å': 'a', 'ā': 'a', 'ą': 'a',
	'À': 'A', 'Á': 'A', 'Â': 'A', 'Ã': 'A', 'Ä': 'A', 'Å': 'A', 'Ā': 'A', 'Ą': 'A',
	'ç': 'c', 'ć': 'c', 'č': 'c', 'Ç': 'C', 'Ć': 'C', 'Č': 'C',
	'đ': 'd', 'ď': 'd', 'Đ': 'D', 'Ď': 'D',
	'è': 'e', 'é': 'e', 'ê': 'e', 'ë': 'e', 'ē': 'e', 'ė': 'e', 'ę': 'e', 'ě': 'e',
	'È': 'E', 'É': 'E', 'Ê': 'E', 'Ë': 'E', 'Ē': 'E', 'Ė': 'E', 'Ę': 'E', 'Ě': 'E',
	'ì': 'i', 'í': 'i', 'î': 'i', 'ï': 'i', 'ī': 'i', 'į': 'i',
	'Ì': 'I', 'Í': 'I', 'Î': 'I', 'Ï': 'I', 'Ī': 'I', 'Į': 'I',
	'ł': 'l', 'Ł': 'L',
	'ñ': 'n', 'ń': 'n', 'ň': 'n', 'Ñ': 'N', 'Ń': 'N', 'Ň': 'N',
	'ò': 'o', 'ó': 'o', 'ô': 'o', 'õ': 'o', 'ö': 'o', 'ø': 'o', 'ō': 'o',
	'Ò': 'O', 'Ó': 'O', 'Ô': 'O', 'Õ': 'O', 'Ö': 'O', 'Ø': 'O', 'Ō': 'O',
	'ř': 'r', 'Ř': 'R',
	'ś': 's', 'š': 's', 'ș': 's', 'Ś': 'S', 'Š': 'S', 'Ș': 'S',
	'ť': 't', 'ț': 't', 'Ť': 'T', 'Ț': 'T',
	'ù': 'u', 'ú': 'u', 'û': 'u', 'ü': 'u', 'ū': 'u', 'ů': 'u', 'ų': 'u',
	'Ù': 'U', 'Ú': 'U', 'Û': 'U', 'Ü': 'U', 'Ū': 'U', 'Ů': 'U', 'Ų': 'U',
	'ý': 'y', 'ÿ': 'y', 'Ý': 'Y', 'Ÿ': 'Y',
	'ź': 'z', 'ž': 'z', 'ż': 'z', 'Ź': 'Z', 'Ž': 'Z', 'Ż': 'Z',
	'æ': 'a', 'Æ': 'A', 'œ': 'o', 'Œ': 'O', 'ß': 's',
}
