/*
Package compensation turns one job definition and one performance
observation into a payable amount.

KEY CONCEPTS:
  - JobDefinition: a unit of work with exactly one rate plan (per hour or
    per item), an optional target, and optional incentive/penalty policy
  - Outcome: what the worker actually did, either TimeBased{HoursTaken}
    or UnitBased{ItemsCompleted}, never both
  - Result: productive/extra/underperformance split plus money amounts

ABSENT VS ZERO:
  Every optional number is a decimal.NullDecimal. An absent target means
  "no target" (nothing is extra, nothing is short), so an absent target
  never earns an incentive. A zero target is a real target that every unit
  of work exceeds. An absent rate for the observed
  mode is an error, never an implicit zero.

USAGE:
  outcome, err := compensation.OutcomeFromFields(hours, items)
  result, err := compensation.Compute(job, compensation.Observation{Outcome: outcome})

SEE ALSO:
  - calculator.go: The algorithm
  - report.go: Converting results to and from persisted job entries
*/
package compensation

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/workforce-engine/generic"
)

// =============================================================================
// MODE & INCENTIVE TYPE
// =============================================================================

// Mode is whether pay is computed per hour or per item.
type Mode string

const (
	ModeTime Mode = "time"
	ModeItem Mode = "item"
)

// IncentiveType selects how the bonus rate applies to extra work.
type IncentiveType string

const (
	// IncentivePerUnit pays IncentiveBonusRate for each extra hour or item.
	IncentivePerUnit IncentiveType = "per_unit"
	// IncentivePercentage pays IncentiveBonusRate percent of the base amount.
	IncentivePercentage IncentiveType = "percentage"
)

// =============================================================================
// JOB DEFINITION
// =============================================================================

type JobDefinition struct {
	ID   generic.JobID
	Name string

	RatePerHour decimal.NullDecimal
	RatePerItem decimal.NullDecimal

	ExpectedHours        decimal.NullDecimal
	ExpectedItemsPerHour decimal.NullDecimal

	IncentiveBonusRate decimal.NullDecimal
	IncentiveType      IncentiveType
	PenaltyRate        decimal.NullDecimal
}

// Mode returns the job's rate plan. ok is false when the plan is ambiguous.
func (j JobDefinition) Mode() (Mode, bool) {
	switch {
	case j.RatePerHour.Valid && !j.RatePerItem.Valid:
		return ModeTime, true
	case j.RatePerItem.Valid && !j.RatePerHour.Valid:
		return ModeItem, true
	default:
		return "", false
	}
}

// Validate checks the definition before it is saved.
func (j JobDefinition) Validate() error {
	if j.ID == "" {
		return generic.NewValidationError(generic.CodeInvalidField, "id", generic.ErrInvalidJobDefinition, "job id is required")
	}
	if _, ok := j.Mode(); !ok {
		return generic.NewValidationError(generic.CodeInvalidRatePlan, "rate", generic.ErrInvalidJobDefinition,
			"job %s must have exactly one of rate per hour or rate per item", j.ID)
	}
	fields := []struct {
		name  string
		value decimal.NullDecimal
	}{
		{"rate_per_hour", j.RatePerHour},
		{"rate_per_item", j.RatePerItem},
		{"expected_hours", j.ExpectedHours},
		{"expected_items_per_hour", j.ExpectedItemsPerHour},
		{"incentive_bonus_rate", j.IncentiveBonusRate},
		{"penalty_rate", j.PenaltyRate},
	}
	for _, f := range fields {
		if f.value.Valid && f.value.Decimal.IsNegative() {
			return generic.NewValidationError(generic.CodeInvalidField, f.name, generic.ErrInvalidJobDefinition,
				"%s must not be negative", f.name)
		}
	}
	switch j.IncentiveType {
	case "", IncentivePerUnit, IncentivePercentage:
	default:
		return generic.NewValidationError(generic.CodeInvalidField, "incentive_type", generic.ErrInvalidJobDefinition,
			"unknown incentive type %q", j.IncentiveType)
	}
	return nil
}

// incentiveType defaults an unset type to per-unit.
func (j JobDefinition) incentiveType() IncentiveType {
	if j.IncentiveType == "" {
		return IncentivePerUnit
	}
	return j.IncentiveType
}

// =============================================================================
// OUTCOME - Sum type: TimeBased | UnitBased
// =============================================================================

// Outcome is what was actually achieved. The only implementations are
// TimeBased and UnitBased.
type Outcome interface {
	Mode() Mode
	Quantity() generic.Amount
	isOutcome()
}

type TimeBased struct {
	HoursTaken decimal.Decimal
}

func (TimeBased) Mode() Mode { return ModeTime }
func (TimeBased) isOutcome() {}

func (o TimeBased) Quantity() generic.Amount {
	return generic.NewAmountFromDecimal(o.HoursTaken, generic.UnitHours)
}

type UnitBased struct {
	ItemsCompleted decimal.Decimal
}

func (UnitBased) Mode() Mode { return ModeItem }
func (UnitBased) isOutcome() {}

func (o UnitBased) Quantity() generic.Amount {
	return generic.NewAmountFromDecimal(o.ItemsCompleted, generic.UnitItems)
}

// OutcomeFromFields builds an Outcome from raw nullable input.
// Exactly one of hours and items must be present.
func OutcomeFromFields(hours, items decimal.NullDecimal) (Outcome, error) {
	switch {
	case hours.Valid && items.Valid:
		return nil, generic.NewValidationError(generic.CodeAmbiguousMode, "", generic.ErrAmbiguousMode,
			"both hours taken and items completed were given")
	case hours.Valid:
		return TimeBased{HoursTaken: hours.Decimal}, nil
	case items.Valid:
		return UnitBased{ItemsCompleted: items.Decimal}, nil
	default:
		return nil, generic.NewValidationError(generic.CodeAmbiguousMode, "", generic.ErrAmbiguousMode,
			"neither hours taken nor items completed was given")
	}
}

// Fields is the inverse of OutcomeFromFields.
func Fields(o Outcome) (hours, items decimal.NullDecimal) {
	switch v := o.(type) {
	case TimeBased:
		return generic.Some(v.HoursTaken), generic.None()
	case UnitBased:
		return generic.None(), generic.Some(v.ItemsCompleted)
	}
	return generic.None(), generic.None()
}

// =============================================================================
// OBSERVATION & RESULT
// =============================================================================

// Observation is one worker's (or group's) outcome on a job for a date/shift.
type Observation struct {
	WorkerID    generic.WorkerID
	GroupName   string
	JobID       generic.JobID
	Date        generic.TimePoint
	Outcome     Outcome
	IsPostLunch bool
	Remarks     string
}

// Result is derived from a job and an observation. It is never stored on
// its own; it is copied onto the job entry that is saved.
type Result struct {
	Mode      Mode
	HasTarget bool

	// Time mode.
	ProductiveHours       decimal.Decimal
	ExtraHours            decimal.Decimal
	UnderperformanceHours decimal.Decimal

	// Item mode.
	ProductiveItems decimal.Decimal
	ExtraItems      decimal.Decimal

	BaseAmount      decimal.Decimal
	IncentiveAmount decimal.Decimal
	PenaltyAmount   decimal.Decimal
	TotalAmount     decimal.Decimal
}

func (r Result) String() string {
	return fmt.Sprintf("%s: base=%s incentive=%s penalty=%s total=%s",
		r.Mode, r.BaseAmount.StringFixed(2), r.IncentiveAmount.StringFixed(2),
		r.PenaltyAmount.StringFixed(2), r.TotalAmount.StringFixed(2))
}
