package generic

import "fmt"

// =============================================================================
// PERIOD - Inclusive date range, the unit of a trend bucket
// =============================================================================

// Period is an inclusive [Start, End] day range.
//
// Examples:
//   - One day bucket: Mar 10 - Mar 10
//   - One month bucket: Mar 1 - Mar 31
type Period struct {
	Start TimePoint
	End   TimePoint
}

// Contains returns true if the time point is within the period [Start, End]
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Days returns all days in the period as a slice of TimePoints.
func (p Period) Days() []TimePoint {
	var days []TimePoint
	current := p.Start
	for current.BeforeOrEqual(p.End) {
		days = append(days, current)
		current = current.AddDays(1)
	}
	return days
}

// Len returns the number of days in the period.
func (p Period) Len() int {
	if p.End.Before(p.Start) {
		return 0
	}
	return DaysBetween(p.Start, p.End) + 1
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// Validate rejects periods that end before they start.
func (p Period) Validate() error {
	if p.End.Before(p.Start) {
		return ErrInvalidPeriod
	}
	return nil
}

// =============================================================================
// WINDOW - Fixed number of trailing buckets ending "now"
// =============================================================================

// WindowUnit is the width of one bucket.
type WindowUnit string

const (
	WindowDay   WindowUnit = "day"
	WindowMonth WindowUnit = "month"
)

// Window describes a fixed-width trailing range: Size buckets of Unit each,
// the last one containing the reference date.
type Window struct {
	Unit WindowUnit
	Size int
}

var (
	Last7Days   = Window{Unit: WindowDay, Size: 7}
	Last30Days  = Window{Unit: WindowDay, Size: 30}
	Last6Months = Window{Unit: WindowMonth, Size: 6}
)

func (w Window) String() string {
	return fmt.Sprintf("last %d %ss", w.Size, w.Unit)
}

// Buckets returns exactly Size periods ordered oldest to newest; the last
// one contains now. A non-positive Size yields no buckets.
func (w Window) Buckets(now TimePoint) []Period {
	if w.Size <= 0 {
		return nil
	}
	buckets := make([]Period, 0, w.Size)
	switch w.Unit {
	case WindowMonth:
		current := NewMonthPoint(now.Year(), now.Month())
		for i := w.Size - 1; i >= 0; i-- {
			m := current.AddMonths(-i)
			buckets = append(buckets, Period{
				Start: StartOfMonth(m.Year(), m.Month()),
				End:   EndOfMonth(m.Year(), m.Month()),
			})
		}
	default:
		today := NewTimePoint(now.Year(), now.Month(), now.Day())
		for i := w.Size - 1; i >= 0; i-- {
			d := today.AddDays(-i)
			buckets = append(buckets, Period{Start: d, End: d})
		}
	}
	return buckets
}

// Span returns the full period covered by the window.
func (w Window) Span(now TimePoint) Period {
	buckets := w.Buckets(now)
	if len(buckets) == 0 {
		return Period{Start: now, End: now}
	}
	return Period{Start: buckets[0].Start, End: buckets[len(buckets)-1].End}
}

// BucketLabel renders a bucket for chart axes.
func (w Window) BucketLabel(p Period) string {
	if w.Unit == WindowMonth {
		return NewMonthPoint(p.Start.Year(), p.Start.Month()).Label()
	}
	return p.Start.Label()
}

// BucketKey is the stable machine key of a bucket ("2025-03-10" or "2025-03").
func (w Window) BucketKey(p Period) string {
	if w.Unit == WindowMonth {
		return NewMonthPoint(p.Start.Year(), p.Start.Month()).String()
	}
	return p.Start.String()
}
