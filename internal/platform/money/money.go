// Package money represents monetary amounts in minor units.
package money

import (
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/bookmarket/internal/platform/errors"
)

// Amount holds a monetary value in minor units (cents).
// Example: 49.99 is stored as 4999.
type Amount int64

// Zero is the zero amount.
const Zero Amount = 0

// ParseDecimal parses a decimal string into an Amount.
// Both "49.99" and "49,99" forms are accepted, with at most two
// fractional digits. Negative values are rejected.
func ParseDecimal(value string) (Amount, error) {
	trimmed := strings.TrimSpace(value)
	trimmed = strings.ReplaceAll(trimmed, ",", ".")
	if trimmed == "" {
		return 0, invalidAmount(value)
	}
	if strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "+") {
		return 0, invalidAmount(value)
	}

	whole := trimmed
	frac := ""
	if idx := strings.IndexByte(trimmed, '.'); idx >= 0 {
		whole = trimmed[:idx]
		frac = trimmed[idx+1:]
	}
	if whole == "" && frac == "" {
		return 0, invalidAmount(value)
	}
	if len(frac) > 2 {
		return 0, invalidAmount(value)
	}
	for len(frac) < 2 {
		frac += "0"
	}

	var cents int64
	for _, digits := range []string{whole, frac} {
		for _, r := range digits {
			if r < '0' || r > '9' {
				return 0, invalidAmount(value)
			}
			next := cents*10 + int64(r-'0')
			if next < cents {
				return 0, invalidAmount(value)
			}
			cents = next
		}
	}
	return Amount(cents), nil
}

// String renders the amount as a decimal string with two fractional digits.
func (a Amount) String() string {
	cents := int64(a)
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// Cents returns the amount in minor units.
func (a Amount) Cents() int64 {
	return int64(a)
}

// IsPositive reports whether the amount is strictly greater than zero.
func (a Amount) IsPositive() bool {
	return a > 0
}

func invalidAmount(value string) error {
	return apperrors.WithMetadata(
		apperrors.CodeMoneyInvalidAmount,
		fmt.Sprintf("invalid monetary amount %q", value),
		map[string]string{"Value": value},
	)
}
