package analytics

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/workforce-engine/generic"
)

// =============================================================================
// LEAVE DASHBOARD
// =============================================================================

type LeaveSummary struct {
	Total         int     `json:"total"`
	Approved      int     `json:"approved"`
	Pending       int     `json:"pending"`
	Rejected      int     `json:"rejected"`
	ApprovedDays  float64 `json:"approved_days"`
	ApprovalRate  float64 `json:"approval_rate"`
	RejectionRate float64 `json:"rejection_rate"`
}

// LeaveTaker is one worker's leave over the fetched window.
type LeaveTaker struct {
	Requests     int     `json:"requests"`
	ApprovedDays float64 `json:"approved_days"`
}

// LeaveUtilization is allocated vs used days for one leave type.
type LeaveUtilization struct {
	LeaveType   string  `json:"leave_type"`
	Allocated   float64 `json:"allocated"`
	Used        float64 `json:"used"`
	Remaining   float64 `json:"remaining"`
	Utilization float64 `json:"utilization"`
}

type LeaveDashboard struct {
	Summary     LeaveSummary         `json:"summary"`
	Trend       []TrendPoint         `json:"trend"`
	ByType      []Slice              `json:"by_type"`
	TopTakers   []Ranked[LeaveTaker] `json:"top_takers"`
	Utilization []LeaveUtilization   `json:"utilization"`
	Alerts      []Alert              `json:"alerts"`
}

func LeaveRules(t Thresholds) []AlertRule[LeaveSummary] {
	return []AlertRule[LeaveSummary]{
		{
			Name:     "high_approval",
			Severity: SeveritySuccess,
			When:     func(s LeaveSummary) bool { return s.ApprovalRate > t.GoodApproval },
			Message: func(s LeaveSummary) string {
				return fmt.Sprintf("Leave approval rate is %.1f%%", s.ApprovalRate)
			},
		},
		{
			Name:     "pending_backlog",
			Severity: SeverityWarning,
			When:     func(s LeaveSummary) bool { return s.Pending > t.PendingBacklog },
			Message: func(s LeaveSummary) string {
				return fmt.Sprintf("%d leave requests are awaiting a decision", s.Pending)
			},
		},
		{
			Name:     "high_rejection",
			Severity: SeverityWarning,
			When:     func(s LeaveSummary) bool { return s.RejectionRate > t.HighRejection },
			Message: func(s LeaveSummary) string {
				return fmt.Sprintf("Leave rejection rate is high at %.1f%%", s.RejectionRate)
			},
		},
	}
}

func BuildLeave(cfg Config, requests []generic.LeaveRequest, balances []generic.LeaveBalance) LeaveDashboard {
	summary := SummarizeLeave(requests)

	categories := make([]string, len(generic.LeaveStatuses))
	for i, s := range generic.LeaveStatuses {
		categories[i] = string(s)
	}
	days := func(r generic.LeaveRequest) decimal.Decimal { return generic.OrZero(r.Days) }

	return LeaveDashboard{
		Summary: summary,
		Trend: Trend(requests, TrendConfig[generic.LeaveRequest]{
			Window:     cfg.LeaveTrend,
			Now:        cfg.today(),
			Date:       generic.LeaveRequest.TrendDate,
			Category:   func(r generic.LeaveRequest) string { return string(r.Status) },
			Categories: categories,
			Value:      days,
		}),
		ByType: Distribute(requests, DistributionConfig[generic.LeaveRequest]{
			Label: func(r generic.LeaveRequest) string { return r.LeaveType },
			Value: days,
			By:    BySum,
			Limit: cfg.Limits.LeaveTypes,
		}),
		TopTakers: Rank(requests, RankConfig[generic.LeaveRequest, LeaveTaker]{
			Key:    func(r generic.LeaveRequest) string { return string(r.WorkerID) },
			Label:  func(r generic.LeaveRequest) string { return r.WorkerName },
			Reduce: leaveTaker,
			Metric: func(t LeaveTaker) float64 { return t.ApprovedDays },
			Limit:  cfg.Limits.TopLeaveTakers,
		}),
		Utilization: UtilizationByType(balances),
		Alerts:      EvaluateAlerts(summary, LeaveRules(cfg.Thresholds)),
	}
}

func SummarizeLeave(requests []generic.LeaveRequest) LeaveSummary {
	s := LeaveSummary{Total: len(requests)}
	approvedDays := decimal.Zero
	for _, r := range requests {
		switch r.Status {
		case generic.LeaveApproved:
			s.Approved++
			approvedDays = approvedDays.Add(generic.OrZero(r.Days))
		case generic.LeavePending:
			s.Pending++
		case generic.LeaveRejected:
			s.Rejected++
		}
	}
	s.ApprovedDays = toFloat(approvedDays)
	s.ApprovalRate = PercentOf(s.Approved, s.Total)
	s.RejectionRate = PercentOf(s.Rejected, s.Total)
	return s
}

func leaveTaker(group []generic.LeaveRequest) LeaveTaker {
	t := LeaveTaker{Requests: len(group)}
	days := decimal.Zero
	for _, r := range group {
		if r.Status == generic.LeaveApproved {
			days = days.Add(generic.OrZero(r.Days))
		}
	}
	t.ApprovedDays = toFloat(days)
	return t
}

// UtilizationByType totals balances per leave type, in first-seen order.
func UtilizationByType(balances []generic.LeaveBalance) []LeaveUtilization {
	type totals struct {
		allocated, used, remaining decimal.Decimal
	}
	var order []string
	byType := make(map[string]*totals)
	for _, b := range balances {
		lt := generic.LabelOrUnknown(b.LeaveType)
		t, ok := byType[lt]
		if !ok {
			t = &totals{allocated: decimal.Zero, used: decimal.Zero, remaining: decimal.Zero}
			byType[lt] = t
			order = append(order, lt)
		}
		t.allocated = t.allocated.Add(generic.OrZero(b.Allocated))
		t.used = t.used.Add(generic.OrZero(b.Used))
		t.remaining = t.remaining.Add(b.Remaining())
	}

	out := make([]LeaveUtilization, 0, len(order))
	for _, lt := range order {
		t := byType[lt]
		out = append(out, LeaveUtilization{
			LeaveType:   lt,
			Allocated:   toFloat(t.allocated),
			Used:        toFloat(t.used),
			Remaining:   toFloat(t.remaining),
			Utilization: round2(DecimalRate(t.used, t.allocated) * 100),
		})
	}
	return out
}

// WorkerLeaveUtilization is used/allocated in percent per worker, across types.
func WorkerLeaveUtilization(balances []generic.LeaveBalance) map[generic.WorkerID]float64 {
	allocated := make(map[generic.WorkerID]decimal.Decimal)
	used := make(map[generic.WorkerID]decimal.Decimal)
	for _, b := range balances {
		allocated[b.WorkerID] = allocated[b.WorkerID].Add(generic.OrZero(b.Allocated))
		used[b.WorkerID] = used[b.WorkerID].Add(generic.OrZero(b.Used))
	}
	out := make(map[generic.WorkerID]float64, len(allocated))
	for id, a := range allocated {
		out[id] = round2(DecimalRate(used[id], a) * 100)
	}
	return out
}
