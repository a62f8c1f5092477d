package analytics

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/workforce-engine/generic"
)

// =============================================================================
// DISTRIBUTION - Categorical breakdown for pie charts
// =============================================================================

// Measure selects what a distribution is sorted and filtered by.
type Measure int

const (
	ByCount Measure = iota
	BySum
)

// DistributionConfig describes a group-by-label reduction.
type DistributionConfig[R any] struct {
	Label func(R) string
	// Value is summed per group. Required when By is BySum.
	Value func(R) decimal.Decimal
	By    Measure
	// Limit caps the output; zero or negative means no cap.
	Limit int
}

// Slice is one labelled group. Value is the count or the sum, per Measure.
type Slice struct {
	Label string  `json:"label"`
	Count int     `json:"count"`
	Sum   float64 `json:"sum"`
	Value float64 `json:"value"`
}

// Distribute groups records by label and returns non-empty groups sorted by
// the measure, largest first. Equal groups keep first-encountered order.
func Distribute[R any](records []R, cfg DistributionConfig[R]) []Slice {
	type group struct {
		label string
		count int
		sum   decimal.Decimal
	}
	var groups []*group
	index := make(map[string]*group)

	for _, r := range records {
		label := generic.UnknownLabel
		if cfg.Label != nil {
			label = generic.LabelOrUnknown(cfg.Label(r))
		}
		g, ok := index[label]
		if !ok {
			g = &group{label: label, sum: decimal.Zero}
			index[label] = g
			groups = append(groups, g)
		}
		g.count++
		if cfg.Value != nil {
			g.sum = g.sum.Add(cfg.Value(r))
		}
	}

	slices := make([]Slice, 0, len(groups))
	for _, g := range groups {
		s := Slice{Label: g.label, Count: g.count, Sum: toFloat(g.sum)}
		if cfg.By == BySum {
			s.Value = s.Sum
		} else {
			s.Value = float64(s.Count)
		}
		if s.Value <= 0 {
			continue
		}
		slices = append(slices, s)
	}

	sort.SliceStable(slices, func(i, j int) bool {
		return slices[i].Value > slices[j].Value
	})
	if cfg.Limit > 0 && len(slices) > cfg.Limit {
		slices = slices[:cfg.Limit]
	}
	return slices
}
