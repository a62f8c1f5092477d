package generic

import (
	"strings"
	"time"
)

// =============================================================================
// TIME POINT - Calendar date used as bucket key
// =============================================================================

type TimePoint struct {
	Time        time.Time
	Granularity Granularity
}

type Granularity int

const (
	GranularityDay Granularity = iota
	GranularityMonth
)

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), Granularity: GranularityDay}
}

func NewMonthPoint(year int, month time.Month) TimePoint {
	return TimePoint{Time: time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), Granularity: GranularityMonth}
}

// DayOf truncates t to its calendar day. The wall-clock date is kept as-is,
// so 23:30 local time stays on the same day regardless of offset.
func DayOf(t time.Time) TimePoint {
	return NewTimePoint(t.Year(), t.Month(), t.Day())
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.normalize().Before(other.normalize()) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.normalize().Equal(other.normalize()) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.normalize().After(other.normalize()) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return tp.Before(other) || tp.Equal(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return tp.After(other) || tp.Equal(other) }

func (tp TimePoint) normalize() time.Time {
	switch tp.Granularity {
	case GranularityMonth:
		return time.Date(tp.Time.Year(), tp.Time.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(tp.Time.Year(), tp.Time.Month(), tp.Time.Day(), 0, 0, 0, 0, time.UTC)
	}
}

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint {
	return TimePoint{Time: tp.Time.AddDate(0, 0, n), Granularity: tp.Granularity}
}

// AddMonths moves by whole months from the first of the month, so
// Jan 31 + 1 month is Feb 1 rather than Mar 3.
func (tp TimePoint) AddMonths(n int) TimePoint {
	first := time.Date(tp.Time.Year(), tp.Time.Month(), 1, 0, 0, 0, 0, time.UTC)
	return TimePoint{Time: first.AddDate(0, n, 0), Granularity: GranularityMonth}
}

// Properties
func (tp TimePoint) Year() int             { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month     { return tp.Time.Month() }
func (tp TimePoint) Day() int              { return tp.Time.Day() }
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }
func (tp TimePoint) IsZero() bool          { return tp.Time.IsZero() }

func (tp TimePoint) String() string {
	switch tp.Granularity {
	case GranularityMonth:
		return tp.Time.Format("2006-01")
	default:
		return tp.Time.Format(DateLayout)
	}
}

// Label is the short chart-axis label ("Mar 10" for days, "Mar 2025" for months).
func (tp TimePoint) Label() string {
	switch tp.Granularity {
	case GranularityMonth:
		return tp.Time.Format("Jan 2006")
	default:
		return tp.Time.Format("Jan 2")
	}
}

// =============================================================================
// DATE PARSING - record sources hand us strings
// =============================================================================

const DateLayout = "2006-01-02"

var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseDate parses a record date. ok is false for empty or malformed input;
// callers drop such records from date-bucketed views.
func ParseDate(s string) (TimePoint, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TimePoint{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DayOf(t), true
		}
	}
	return TimePoint{}, false
}

// =============================================================================
// CLOCK
// =============================================================================

// Clock supplies "now" for window computations.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FakeClock is a fixed clock for tests and replays.
type FakeClock struct {
	now time.Time
}

func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	return c.now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// Today returns the current day according to the clock.
func Today(c Clock) TimePoint {
	if c == nil {
		c = SystemClock{}
	}
	return DayOf(c.Now())
}

// =============================================================================
// TIME UTILITIES
// =============================================================================

func DaysBetween(from, to TimePoint) int { return int(to.normalize().Sub(from.normalize()).Hours() / 24) }
func StartOfMonth(year int, month time.Month) TimePoint { return NewTimePoint(year, month, 1) }
func EndOfMonth(year int, month time.Month) TimePoint {
	t := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	return TimePoint{Time: t, Granularity: GranularityDay}
}
