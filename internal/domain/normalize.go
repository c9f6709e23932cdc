package domain

import (
	"strings"
	"unicode"
)

// DigitsOnly strips every non-digit rune.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizePhone returns the lookup key used for customers.
func NormalizePhone(phone string) string {
	return DigitsOnly(phone)
}

// NormalizeCEP returns the 8-digit postal code or whatever digits were given.
func NormalizeCEP(cep string) string {
	return DigitsOnly(cep)
}

// FormatCEP renders NNNNN-NNN when more than five digits are present.
func FormatCEP(cep string) string {
	d := NormalizeCEP(cep)
	if len(d) > 5 {
		return d[:5] + "-" + d[5:]
	}
	return d
}

// FormatPhone renders (NN) NNNNN-NNNN, truncating to 11 digits.
func FormatPhone(phone string) string {
	d := NormalizePhone(phone)
	if len(d) > 11 {
		d = d[:11]
	}
	switch {
	case len(d) <= 2:
		return d
	case len(d) <= 6:
		return "(" + d[:2] + ") " + d[2:]
	default:
		return "(" + d[:2] + ") " + d[2:len(d)-4] + "-" + d[len(d)-4:]
	}
}

// ContainsFold reports whether substr appears in s ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// IsBlank reports whether s has only whitespace.
func IsBlank(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) < 0
}
