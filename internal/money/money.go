// Package money converts between stored minor units and fixed-point amounts.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits of every stored amount.
const Scale = 2

var hundred = decimal.NewFromInt(100)

// FromMinor converts an integer number of cents to an amount.
func FromMinor(minor int64) decimal.Decimal {
	return decimal.New(minor, -Scale)
}

// ToMinor converts an amount to cents. Amounts with more than two
// fractional digits or a negative sign are rejected.
func ToMinor(amount decimal.Decimal) (int64, error) {
	if amount.IsNegative() {
		return 0, fmt.Errorf("negative amount: %s", amount)
	}
	shifted := amount.Shift(Scale)
	if !shifted.Equal(shifted.Truncate(0)) {
		return 0, fmt.Errorf("amount %s has more than %d decimal places", amount, Scale)
	}
	return shifted.IntPart(), nil
}

// Average returns total/count rounded to cents, or nil when count is zero.
func Average(total decimal.Decimal, count int64) *decimal.Decimal {
	if count == 0 {
		return nil
	}
	avg := total.DivRound(decimal.NewFromInt(count), Scale)
	return &avg
}

// PercentChange returns ((cur-prev)/prev)*100 rounded to two places.
// It is nil when prev is zero.
func PercentChange(prev, cur decimal.Decimal) *decimal.Decimal {
	if prev.IsZero() {
		return nil
	}
	pct := cur.Sub(prev).Mul(hundred).DivRound(prev, Scale)
	return &pct
}

// Float renders an amount for JSON output.
func Float(d decimal.Decimal) float64 {
	return d.Round(Scale).InexactFloat64()
}

// FloatPtr is Float for optional amounts.
func FloatPtr(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f := Float(*d)
	return &f
}
