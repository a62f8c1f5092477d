package analytics

import (
	"github.com/shopspring/decimal"
	"github.com/warp/workforce-engine/generic"
)

// =============================================================================
// EARNINGS DASHBOARD
// =============================================================================

type EarningsTotals struct {
	Entries         int     `json:"entries"`
	TotalAmount     float64 `json:"total_amount"`
	IncentiveAmount float64 `json:"incentive_amount"`
	PenaltyAmount   float64 `json:"penalty_amount"`
	TotalHours      float64 `json:"total_hours"`
	TotalItems      float64 `json:"total_items"`
	AveragePerEntry float64 `json:"average_per_entry"`
}

// EarnerStats is one worker's earnings over the fetched window.
type EarnerStats struct {
	Entries         int     `json:"entries"`
	TotalAmount     float64 `json:"total_amount"`
	IncentiveAmount float64 `json:"incentive_amount"`
	Hours           float64 `json:"hours"`
}

// ShiftSplit compares entries before and after lunch.
type ShiftSplit struct {
	PreLunch  ShiftStats `json:"pre_lunch"`
	PostLunch ShiftStats `json:"post_lunch"`
}

type ShiftStats struct {
	Entries     int     `json:"entries"`
	TotalAmount float64 `json:"total_amount"`
	Share       float64 `json:"share"`
}

type EarningsDashboard struct {
	Totals          EarningsTotals        `json:"totals"`
	Trend           []TrendPoint          `json:"trend"`
	TopEarners      []Ranked[EarnerStats] `json:"top_earners"`
	JobDistribution []Slice               `json:"job_distribution"`
	Shifts          ShiftSplit            `json:"shifts"`
}

func entryTotal(e generic.JobEntryReport) decimal.Decimal { return generic.OrZero(e.TotalAmount) }

func BuildEarnings(cfg Config, entries []generic.JobEntryReport) EarningsDashboard {
	return EarningsDashboard{
		Totals: SummarizeEarnings(entries),
		Trend: Trend(entries, TrendConfig[generic.JobEntryReport]{
			Window: cfg.EarningsTrend,
			Now:    cfg.today(),
			Date:   func(e generic.JobEntryReport) string { return e.Date },
			Value:  entryTotal,
		}),
		TopEarners: Rank(entries, RankConfig[generic.JobEntryReport, EarnerStats]{
			Key:    func(e generic.JobEntryReport) string { return string(e.WorkerID) },
			Label:  func(e generic.JobEntryReport) string { return e.WorkerName },
			Reduce: earnerStats,
			Metric: func(s EarnerStats) float64 { return s.TotalAmount },
			Limit:  cfg.Limits.TopEarners,
		}),
		JobDistribution: Distribute(entries, DistributionConfig[generic.JobEntryReport]{
			Label: func(e generic.JobEntryReport) string { return e.JobName },
			Value: entryTotal,
			By:    BySum,
			Limit: cfg.Limits.JobDistribution,
		}),
		Shifts: SplitShifts(entries),
	}
}

func SummarizeEarnings(entries []generic.JobEntryReport) EarningsTotals {
	total, incentive, penalty := decimal.Zero, decimal.Zero, decimal.Zero
	hours, items := decimal.Zero, decimal.Zero
	for _, e := range entries {
		total = total.Add(generic.OrZero(e.TotalAmount))
		incentive = incentive.Add(generic.OrZero(e.IncentiveAmount))
		penalty = penalty.Add(generic.OrZero(e.PenaltyAmount))
		hours = hours.Add(generic.OrZero(e.HoursTaken))
		items = items.Add(generic.OrZero(e.ItemsCompleted))
	}
	return EarningsTotals{
		Entries:         len(entries),
		TotalAmount:     toFloat(total),
		IncentiveAmount: toFloat(incentive),
		PenaltyAmount:   toFloat(penalty),
		TotalHours:      toFloat(hours),
		TotalItems:      toFloat(items),
		AveragePerEntry: round2(DecimalRate(total, decimal.NewFromInt(int64(len(entries))))),
	}
}

func earnerStats(group []generic.JobEntryReport) EarnerStats {
	total, incentive, hours := decimal.Zero, decimal.Zero, decimal.Zero
	for _, e := range group {
		total = total.Add(generic.OrZero(e.TotalAmount))
		incentive = incentive.Add(generic.OrZero(e.IncentiveAmount))
		hours = hours.Add(generic.OrZero(e.HoursTaken))
	}
	return EarnerStats{
		Entries:         len(group),
		TotalAmount:     toFloat(total),
		IncentiveAmount: toFloat(incentive),
		Hours:           toFloat(hours),
	}
}

func SplitShifts(entries []generic.JobEntryReport) ShiftSplit {
	pre, post := decimal.Zero, decimal.Zero
	var split ShiftSplit
	for _, e := range entries {
		if e.IsPostLunch {
			split.PostLunch.Entries++
			post = post.Add(entryTotal(e))
		} else {
			split.PreLunch.Entries++
			pre = pre.Add(entryTotal(e))
		}
	}
	all := pre.Add(post)
	split.PreLunch.TotalAmount = toFloat(pre)
	split.PostLunch.TotalAmount = toFloat(post)
	split.PreLunch.Share = round2(DecimalRate(pre, all) * 100)
	split.PostLunch.Share = round2(DecimalRate(post, all) * 100)
	return split
}
