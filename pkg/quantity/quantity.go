// Package quantity holds the epsilon comparator shared by the conversion
// engine and the FIFO planner.
package quantity

import "github.com/shopspring/decimal"

// Epsilon is the absolute tolerance for values up to 1 and the relative
// tolerance above that.
var Epsilon = decimal.New(1, -9)

var one = decimal.NewFromInt(1)

func tolerance(scale decimal.Decimal) decimal.Decimal {
	scale = scale.Abs()
	if scale.LessThanOrEqual(one) {
		return Epsilon
	}
	return Epsilon.Mul(scale)
}

// IsZero reports whether d is within Epsilon of zero.
func IsZero(d decimal.Decimal) bool {
	return d.Abs().LessThanOrEqual(Epsilon)
}

// IsPositive reports whether d is greater than zero beyond tolerance.
func IsPositive(d decimal.Decimal) bool {
	return d.GreaterThan(Epsilon)
}

// Equal compares a and b with a tolerance relative to the larger magnitude.
func Equal(a, b decimal.Decimal) bool {
	scale := decimal.Max(a.Abs(), b.Abs())
	return a.Sub(b).Abs().LessThanOrEqual(tolerance(scale))
}

// LessOrEqual reports a <= b within tolerance.
func LessOrEqual(a, b decimal.Decimal) bool {
	return a.LessThanOrEqual(b) || Equal(a, b)
}

// Snap returns zero when d is within tolerance of zero, otherwise d.
func Snap(d decimal.Decimal) decimal.Decimal {
	if IsZero(d) {
		return decimal.Zero
	}
	return d
}

// SnapTo returns target when d equals target within tolerance.
func SnapTo(d, target decimal.Decimal) decimal.Decimal {
	if Equal(d, target) {
		return target
	}
	return d
}
