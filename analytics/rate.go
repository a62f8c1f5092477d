package analytics

import (
	"math"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RATES
// =============================================================================

// Rate is num/den, or 0 when den is 0 or the result is not finite.
func Rate(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return finite(num / den)
}

// Percent is Rate scaled to 0..100 (it is not clamped).
func Percent(num, den float64) float64 {
	return finite(Rate(num, den) * 100)
}

// PercentOf is Percent for integer counts, rounded to two decimals.
func PercentOf(num, den int) float64 {
	return round2(Percent(float64(num), float64(den)))
}

// DecimalRate divides decimals, returning 0 for a zero denominator.
func DecimalRate(num, den decimal.Decimal) float64 {
	if den.IsZero() {
		return 0
	}
	return finite(num.Div(den).InexactFloat64())
}

// ChangePercent is the relative change from previous to current in percent.
// A zero previous value yields 0.
func ChangePercent(current, previous float64) float64 {
	return round2(Percent(current-previous, previous))
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func round2(f float64) float64 {
	return math.Round(finite(f)*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	v = finite(v)
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
