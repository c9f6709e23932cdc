// Package money rounds and formats currency amounts for display.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Round returns v rounded half away from zero to cents.
func Round(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Fixed renders v with two decimals and a dot separator, e.g. "44.00".
func Fixed(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// BRL renders v as "R$ 44.00".
func BRL(v float64) string {
	return "R$ " + Fixed(v)
}

// BRLComma renders v the pt-BR way with a comma decimal separator and dot
// thousands, e.g. "R$ 1.234,50".
func BRLComma(v float64) string {
	s := decimal.NewFromFloat(v).Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	sign := ""
	if v < 0 && s != "0.00" {
		sign = "-"
	}
	return sign + "R$ " + b.String() + "," + frac
}

// ParseCents interprets a digit string as cents, the way the cash-change
// field is typed ("5000" -> 50.00). Non-digits are ignored.
func ParseCents(s string) float64 {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0
	}
	d, err := decimal.NewFromString(digits.String())
	if err != nil {
		return 0
	}
	f, _ := d.Shift(-2).Float64()
	return f
}
