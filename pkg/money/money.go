// Package money converts between decimal amounts used on the wire and the
// int64 cents stored by the domain.
package money

import (
	"errors"
	"math"
	"math/bits"

	"github.com/shopspring/decimal"
)

// ErrOutOfRange is returned when an amount does not fit in int64 cents
var ErrOutOfRange = errors.New("amount out of range")

var (
	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(math.MaxInt64)
	minCents = decimal.NewFromInt(math.MinInt64)
)

// ToCents converts a decimal amount to cents, rounding half away from zero.
func ToCents(amount decimal.Decimal) (int64, error) {
	c := amount.Mul(hundred).Round(0)
	if c.GreaterThan(maxCents) || c.LessThan(minCents) {
		return 0, ErrOutOfRange
	}
	return c.IntPart(), nil
}

// Mul multiplies two non-negative cent amounts. ok is false when either is
// negative or the product overflows int64.
func Mul(a, b int64) (product int64, ok bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > math.MaxInt64 {
		return 0, false
	}
	return int64(lo), true
}

// Add sums two non-negative cent amounts. ok is false when either is
// negative or the sum overflows int64.
func Add(a, b int64) (sum int64, ok bool) {
	if a < 0 || b < 0 || a > math.MaxInt64-b {
		return 0, false
	}
	return a + b, true
}

// FromCents converts cents to a decimal amount with two places.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// Float converts cents to a float64 for JSON responses.
func Float(cents int64) float64 {
	f, _ := FromCents(cents).Float64()
	return f
}

// Format renders cents as a fixed two-decimal string, e.g. "12.50".
func Format(cents int64) string {
	return FromCents(cents).StringFixed(2)
}
