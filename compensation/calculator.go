package compensation

import (
	"github.com/shopspring/decimal"
	"github.com/warp/workforce-engine/generic"
)

// =============================================================================
// CALCULATOR
// =============================================================================

// MoneyPlaces is the number of decimal places money amounts are rounded to.
const MoneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// Calculator computes compensation. It holds no state between calls.
type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// Compute is a convenience wrapper around Calculator.Compute.
func Compute(job JobDefinition, obs Observation) (Result, error) {
	return NewCalculator().Compute(job, obs)
}

// Compute splits the observed quantity against the job's target and prices it.
//
// Time mode:
//
//	productive = min(hours, expected)
//	extra      = max(0, hours - expected)
//	under      = max(0, expected - hours)
//	base       = hours * ratePerHour
//	incentive  = extra * bonus           (per_unit, only when extra > 0)
//	           = base * bonus / 100      (percentage, only when extra > 0)
//	penalty    = under * penaltyRate
//	total      = max(0, base + incentive - penalty)
//
// Item mode has the same shape over items, expectedItemsPerHour and
// ratePerItem, with no penalty.
func (c *Calculator) Compute(job JobDefinition, obs Observation) (Result, error) {
	if obs.Outcome == nil {
		return Result{}, generic.NewValidationError(generic.CodeAmbiguousMode, "", generic.ErrAmbiguousMode,
			"observation has no outcome")
	}
	qty := obs.Outcome.Quantity()
	if qty.IsNegative() {
		return Result{}, generic.NewValidationError(generic.CodeNegativeQuantity, quantityField(obs.Outcome), generic.ErrNegativeQuantity,
			"%s is negative", qty.String())
	}

	switch o := obs.Outcome.(type) {
	case TimeBased:
		return c.computeTime(job, o)
	case UnitBased:
		return c.computeItems(job, o)
	default:
		return Result{}, generic.NewValidationError(generic.CodeAmbiguousMode, "", generic.ErrAmbiguousMode,
			"unsupported outcome %T", obs.Outcome)
	}
}

func (c *Calculator) computeTime(job JobDefinition, o TimeBased) (Result, error) {
	if !job.RatePerHour.Valid {
		return Result{}, generic.NewValidationError(generic.CodeMissingRate, "rate_per_hour", generic.ErrMissingRate,
			"job %s has no hourly rate for a time-based entry", job.ID)
	}
	split := splitAgainstTarget(o.Quantity(), job.ExpectedHours)
	base := o.HoursTaken.Mul(job.RatePerHour.Decimal)

	res := Result{
		Mode:                  ModeTime,
		HasTarget:             split.hasTarget,
		ProductiveHours:       split.productive.Value,
		ExtraHours:            split.extra.Value,
		UnderperformanceHours: split.under.Value,
		ProductiveItems:       decimal.Zero,
		ExtraItems:            decimal.Zero,
		BaseAmount:            base,
		IncentiveAmount:       incentive(job, split.extra.Value, base),
		PenaltyAmount:         decimal.Zero,
	}
	if job.PenaltyRate.Valid && split.under.IsPositive() {
		res.PenaltyAmount = split.under.Value.Mul(job.PenaltyRate.Decimal)
	}
	return res.finish(), nil
}

func (c *Calculator) computeItems(job JobDefinition, o UnitBased) (Result, error) {
	if !job.RatePerItem.Valid {
		return Result{}, generic.NewValidationError(generic.CodeMissingRate, "rate_per_item", generic.ErrMissingRate,
			"job %s has no item rate for a unit-based entry", job.ID)
	}
	split := splitAgainstTarget(o.Quantity(), job.ExpectedItemsPerHour)
	base := o.ItemsCompleted.Mul(job.RatePerItem.Decimal)

	res := Result{
		Mode:                  ModeItem,
		HasTarget:             split.hasTarget,
		ProductiveHours:       decimal.Zero,
		ExtraHours:            decimal.Zero,
		UnderperformanceHours: decimal.Zero,
		ProductiveItems:       split.productive.Value,
		ExtraItems:            split.extra.Value,
		BaseAmount:            base,
		IncentiveAmount:       incentive(job, split.extra.Value, base),
		PenaltyAmount:         decimal.Zero,
	}
	return res.finish(), nil
}

// =============================================================================
// HELPERS
// =============================================================================

type targetSplit struct {
	hasTarget  bool
	productive generic.Amount
	extra      generic.Amount
	under      generic.Amount
}

// splitAgainstTarget divides actual into productive/extra/under.
// Without a target everything is productive.
func splitAgainstTarget(actual generic.Amount, target decimal.NullDecimal) targetSplit {
	if !target.Valid {
		return targetSplit{productive: actual, extra: actual.Zero(), under: actual.Zero()}
	}
	t := generic.NewAmountFromDecimal(target.Decimal, actual.Unit)
	return targetSplit{
		hasTarget:  true,
		productive: actual.Min(t),
		extra:      actual.Sub(t).ClampZero(),
		under:      t.Sub(actual).ClampZero(),
	}
}

func incentive(job JobDefinition, extra, base decimal.Decimal) decimal.Decimal {
	if !job.IncentiveBonusRate.Valid || !extra.IsPositive() {
		return decimal.Zero
	}
	rate := job.IncentiveBonusRate.Decimal
	switch job.incentiveType() {
	case IncentivePercentage:
		if base.IsZero() {
			return decimal.Zero
		}
		return base.Mul(rate).Div(hundred)
	default:
		return extra.Mul(rate)
	}
}

// finish rounds money and computes the floored total.
func (r Result) finish() Result {
	r.BaseAmount = r.BaseAmount.Round(MoneyPlaces)
	r.IncentiveAmount = r.IncentiveAmount.Round(MoneyPlaces)
	r.PenaltyAmount = r.PenaltyAmount.Round(MoneyPlaces)
	total := r.BaseAmount.Add(r.IncentiveAmount).Sub(r.PenaltyAmount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	r.TotalAmount = total.Round(MoneyPlaces)
	return r
}

func quantityField(o Outcome) string {
	if o.Mode() == ModeItem {
		return "items_completed"
	}
	return "hours_taken"
}
