/*
Package generic provides the domain-agnostic primitives shared by the
compensation calculator and the analytics aggregator.

PURPOSE:
  Both engines work on quantities (hours, items, money), dates and flat
  records supplied by a record source. This package holds those shapes so
  that neither engine has to depend on the other.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: An observed quantity with a unit (e.g., 8 hours, 120 items)
  - Identifiers: Type-safe worker/job/entry IDs
  - Optional decimals: helpers around decimal.NullDecimal that keep
    "absent" distinct from "zero"

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors in pay
  2. Explicit absence: a missing rate or target is NullDecimal{Valid: false},
     never silently zero
  3. Type Safety: Strong typing for IDs prevents mixing worker/job IDs

USAGE:
  hours := generic.NewAmountFromDecimal(decimal.NewFromInt(8), generic.UnitHours)
  rate := generic.Some(decimal.NewFromInt(100))
  if !rate.Valid { ... } // absent, not zero

SEE ALSO:
  - records.go: Flat record shapes consumed by the aggregator
  - errors.go: Sentinel and structured errors
  - period.go: Time windows for bucketed views
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Quantity with unit
// =============================================================================

// Amount is an observed quantity. Money stays a bare decimal.Decimal.
type Amount struct {
	Value decimal.Decimal
	Unit  Unit
}

type Unit string

const (
	UnitHours Unit = "hours"
	UnitItems Unit = "items"
)

func NewAmountFromDecimal(value decimal.Decimal, unit Unit) Amount {
	return Amount{Value: value, Unit: unit}
}

func (a Amount) Zero() Amount           { return Amount{Value: decimal.Zero, Unit: a.Unit} }
func (a Amount) Sub(b Amount) Amount    { return Amount{Value: a.Value.Sub(b.Value), Unit: a.Unit} }
func (a Amount) IsNegative() bool       { return a.Value.IsNegative() }
func (a Amount) IsPositive() bool       { return a.Value.IsPositive() }
func (a Amount) LessThan(b Amount) bool { return a.Value.LessThan(b.Value) }
func (a Amount) String() string         { return a.Value.String() + " " + string(a.Unit) }

func (a Amount) Min(b Amount) Amount {
	if a.LessThan(b) {
		return a
	}
	return b
}

// ClampZero returns the amount, or zero if it is negative.
func (a Amount) ClampZero() Amount {
	if a.IsNegative() {
		return a.Zero()
	}
	return a
}

// =============================================================================
// OPTIONAL DECIMALS
// =============================================================================

// Some wraps a present value.
func Some(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// SomeFloat wraps a present float value.
func SomeFloat(f float64) decimal.NullDecimal {
	return Some(decimal.NewFromFloat(f))
}

// None is an absent value.
func None() decimal.NullDecimal {
	return decimal.NullDecimal{}
}

// FromFloatPtr converts a nullable float (as decoded from JSON) into a NullDecimal.
func FromFloatPtr(f *float64) decimal.NullDecimal {
	if f == nil {
		return None()
	}
	return SomeFloat(*f)
}

// ToFloatPtr is the inverse of FromFloatPtr.
func ToFloatPtr(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	f := d.Decimal.InexactFloat64()
	return &f
}

// OrZero returns the value, or zero when absent.
// Only the aggregator uses this: dashboards degrade absent numbers to zero.
func OrZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type WorkerID string
type JobID string
type EntryID string
