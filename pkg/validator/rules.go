package validator

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrymomot/tenantkit/pkg/translatable"
)

// Required validates that a string is not empty after trimming whitespace.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: ValidationError{Field: field, Message: "field is required"},
	}
}

// MaxLen validates that a string does not exceed max characters.
func MaxLen(field, value string, max int) Rule {
	return Rule{
		Check: func() bool { return len([]rune(value)) <= max },
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be at most %d characters long", max),
		},
	}
}

// ExactLen validates that a non-empty string is exactly n characters long.
func ExactLen(field, value string, n int) Rule {
	return Rule{
		Check: func() bool { return value == "" || len([]rune(value)) == n },
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be exactly %d characters long", n),
		},
	}
}

// AlphaDash validates that a string contains only letters, digits, dashes
// and underscores. Empty strings pass; combine with Required if needed.
func AlphaDash(field, value string) Rule {
	return Rule{
		Check: func() bool {
			for _, r := range value {
				switch {
				case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
				default:
					return false
				}
			}
			return true
		},
		Error: ValidationError{
			Field:   field,
			Message: "may only contain letters, numbers, dashes and underscores",
		},
	}
}

// Email validates RFC 5322 address syntax. Empty strings pass.
func Email(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if value == "" {
				return true
			}
			addr, err := mail.ParseAddress(value)
			return err == nil && addr.Address == value
		},
		Error: ValidationError{Field: field, Message: "must be a valid email address"},
	}
}

// NumericStr validates that a non-empty string consists of digits only.
func NumericStr(field, value string) Rule {
	return Rule{
		Check: func() bool {
			for _, r := range value {
				if r < '0' || r > '9' {
					return false
				}
			}
			return true
		},
		Error: ValidationError{Field: field, Message: "must contain only digits"},
	}
}

// Language validates a 2-letter ISO 639-1 language code.
func Language(field, value string) Rule {
	return Rule{
		Check: func() bool { return value == "" || translatable.IsValidLanguage(value) },
		Error: ValidationError{Field: field, Message: "must be a valid 2-letter language code"},
	}
}

// Country validates a 2-letter ISO 3166-1 country code.
func Country(field, value string) Rule {
	return Rule{
		Check: func() bool { return value == "" || translatable.IsValidRegion(value) },
		Error: ValidationError{Field: field, Message: "must be a valid 2-letter country code"},
	}
}

// Date validates that a non-empty string parses with the given layout,
// e.g. "2006-01-02".
func Date(field, value, layout string) Rule {
	return Rule{
		Check: func() bool {
			if value == "" {
				return true
			}
			_, err := time.Parse(layout, value)
			return err == nil
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be a valid date in %s format", layout),
		},
	}
}
