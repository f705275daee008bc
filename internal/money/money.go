// Package money provides fixed-point arithmetic on integer cents.
//
// All monetary values in the engine are int64 minor currency units.
// Conversion to and from display decimals happens only at the formatting
// boundary; the engine itself never touches floats.
package money

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidAmount = errors.New("invalid money amount")

// MulDiv computes value × num ÷ den in integer cents, rounding half to even.
// Rounding is applied exactly once, so repeated proration steps accumulate at
// most one cent of error each.
//
// den must be positive. The intermediate product value × num must fit in an
// int64; receipt amounts are cents, so this holds for any realistic input
// (an overflow would require a single expense near 92 quadrillion cents).
func MulDiv(value, num, den int64) int64 {
	if den <= 0 {
		return 0
	}
	p := value * num
	neg := p < 0
	if neg {
		p = -p
	}
	q := p / den
	r := p % den
	switch {
	case 2*r > den:
		q++
	case 2*r == den && q%2 != 0:
		q++
	}
	if neg {
		return -q
	}
	return q
}

// Abs returns the absolute value of cents.
func Abs(cents int64) int64 {
	if cents < 0 {
		return -cents
	}
	return cents
}

// FormatCents renders cents as a plain decimal string like "12.34" or
// "-0.05". No currency symbol, no grouping; callers own presentation.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// ParseCents converts a user-entered decimal string like "12.34" to cents.
// At most two fraction digits are accepted; a missing fraction means whole
// units.
func ParseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	neg := false
	if s[0] == '+' || s[0] == '-' {
		neg = s[0] == '-'
		s = s[1:]
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, ErrInvalidAmount
	}
	if whole == "" {
		whole = "0"
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if units > math.MaxInt64/100 {
		return 0, fmt.Errorf("%w: too large", ErrInvalidAmount)
	}
	cents := units * 100
	if hasFrac {
		if len(frac) == 0 || len(frac) > 2 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
		f, err := strconv.ParseInt(frac, 10, 64)
		if err != nil || f < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
		if len(frac) == 1 {
			f *= 10
		}
		cents += f
	}
	if neg {
		cents = -cents
	}
	return cents, nil
}
