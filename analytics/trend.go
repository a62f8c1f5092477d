/*
Package analytics rolls flat records up into dashboard view-models.

PURPOSE:
  Every dashboard is a pure reduction over records that were already
  fetched: no I/O, no shared state, no errors. Bad input degrades to
  neutral values (0, "Unknown", an empty bucket) so that one malformed
  record cannot blank a dashboard.

PRIMITIVES:
  Trend:          Fixed-width time buckets, zero-filled, oldest to newest
  Distribute:     Group by label, drop empty groups, stable top-K
  Rank:           Group by entity, reduce to a metric, stable top-N
  Rate/Percent:   Division where a zero denominator yields 0
  Score:          Weighted, clamped composite in [0, 100]
  EvaluateAlerts: Declarative threshold rules, all matching rules fire

DASHBOARDS:
  attendance.go, leave.go, earnings.go, completion.go, performance.go,
  comparison.go each build one view-model from the primitives above.

IDEMPOTENCE:
  Builders never mutate their input. Calling one twice on the same slices
  returns equal view-models.
*/
package analytics

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/workforce-engine/generic"
)

// =============================================================================
// TREND - Time-bucketed counts and sums
// =============================================================================

// TrendConfig describes how records map onto a fixed window.
type TrendConfig[R any] struct {
	Window generic.Window
	Now    generic.TimePoint

	// Date returns the raw date a record is bucketed by.
	// Records whose date does not parse are skipped.
	Date func(R) string

	// Category is optional. Declared Categories are always present in every
	// bucket, with zero when nothing matched.
	Category   func(R) string
	Categories []string

	// Value is optional; when set, Sum and Sums accumulate it.
	Value func(R) decimal.Decimal
}

// TrendPoint is one bucket of a trend.
type TrendPoint struct {
	Key    string             `json:"key"`
	Label  string             `json:"label"`
	Count  int                `json:"count"`
	Sum    float64            `json:"sum"`
	Counts map[string]int     `json:"counts,omitempty"`
	Sums   map[string]float64 `json:"sums,omitempty"`
}

// Trend partitions records into exactly cfg.Window.Size buckets.
func Trend[R any](records []R, cfg TrendConfig[R]) []TrendPoint {
	buckets := cfg.Window.Buckets(cfg.Now)
	points := make([]TrendPoint, len(buckets))
	sums := make([]decimal.Decimal, len(buckets))
	catSums := make([]map[string]decimal.Decimal, len(buckets))

	for i, b := range buckets {
		points[i] = TrendPoint{
			Key:   cfg.Window.BucketKey(b),
			Label: cfg.Window.BucketLabel(b),
		}
		sums[i] = decimal.Zero
		if cfg.Category != nil {
			points[i].Counts = make(map[string]int, len(cfg.Categories))
			catSums[i] = make(map[string]decimal.Decimal, len(cfg.Categories))
			for _, c := range cfg.Categories {
				points[i].Counts[c] = 0
				catSums[i][c] = decimal.Zero
			}
		}
	}
	if len(buckets) == 0 || cfg.Date == nil {
		return points
	}

	for _, r := range records {
		d, ok := generic.ParseDate(cfg.Date(r))
		if !ok {
			continue
		}
		i := bucketIndex(buckets, d)
		if i < 0 {
			continue
		}
		points[i].Count++
		v := decimal.Zero
		if cfg.Value != nil {
			v = cfg.Value(r)
			sums[i] = sums[i].Add(v)
		}
		if cfg.Category != nil {
			c := generic.LabelOrUnknown(cfg.Category(r))
			points[i].Counts[c]++
			catSums[i][c] = catSums[i][c].Add(v)
		}
	}

	for i := range points {
		points[i].Sum = toFloat(sums[i])
		if cfg.Value != nil && cfg.Category != nil {
			points[i].Sums = make(map[string]float64, len(catSums[i]))
			for c, s := range catSums[i] {
				points[i].Sums[c] = toFloat(s)
			}
		}
	}
	return points
}

// bucketIndex finds the bucket containing d, or -1.
func bucketIndex(buckets []generic.Period, d generic.TimePoint) int {
	i := sort.Search(len(buckets), func(i int) bool {
		return buckets[i].End.AfterOrEqual(d)
	})
	if i < len(buckets) && buckets[i].Contains(d) {
		return i
	}
	return -1
}

// toFloat converts a decimal sum for chart output, rounded to cents.
func toFloat(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
