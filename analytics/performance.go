package analytics

import (
	"github.com/shopspring/decimal"
	"github.com/warp/workforce-engine/generic"
)

// =============================================================================
// WORKER PERFORMANCE DASHBOARD
// =============================================================================

type WorkerPerformance struct {
	WorkerID          generic.WorkerID `json:"worker_id"`
	Name              string           `json:"name"`
	GroupName         string           `json:"group_name,omitempty"`
	Jobs              int              `json:"jobs"`
	Earnings          float64          `json:"earnings"`
	Hours             float64          `json:"hours"`
	AvgHourlyEarnings float64          `json:"avg_hourly_earnings"`
	AttendanceRate    float64          `json:"attendance_rate"`
	LateRate          float64          `json:"late_rate"`
	LeaveUtilization  float64          `json:"leave_utilization"`
	ProductivityScore float64          `json:"productivity_score"`
	AttendanceScore   float64          `json:"attendance_score"`
}

type PerformanceAverages struct {
	ProductivityScore float64 `json:"productivity_score"`
	AttendanceScore   float64 `json:"attendance_score"`
}

type PerformanceDashboard struct {
	Workers       int                         `json:"workers"`
	Averages      PerformanceAverages         `json:"averages"`
	TopPerformers []Ranked[WorkerPerformance] `json:"top_performers"`
}

// PerformanceInput groups the record sets the performance dashboard reads.
type PerformanceInput struct {
	Workers    []generic.Worker
	Entries    []generic.JobEntryReport
	Attendance []generic.AttendanceRecord
	Balances   []generic.LeaveBalance
}

func BuildPerformance(cfg Config, in PerformanceInput) PerformanceDashboard {
	rows := WorkerPerformances(cfg, in)

	var prodSum, attSum float64
	for _, r := range rows {
		prodSum += r.ProductivityScore
		attSum += r.AttendanceScore
	}
	n := float64(len(rows))

	return PerformanceDashboard{
		Workers: len(rows),
		Averages: PerformanceAverages{
			ProductivityScore: round2(Rate(prodSum, n)),
			AttendanceScore:   round2(Rate(attSum, n)),
		},
		TopPerformers: Rank(rows, RankConfig[WorkerPerformance, WorkerPerformance]{
			Key:    func(w WorkerPerformance) string { return string(w.WorkerID) },
			Label:  func(w WorkerPerformance) string { return w.Name },
			Reduce: func(g []WorkerPerformance) WorkerPerformance { return g[0] },
			Metric: func(w WorkerPerformance) float64 { return w.ProductivityScore },
			Limit:  cfg.Limits.TopPerformers,
		}),
	}
}

// WorkerPerformances computes per-worker stats and both composite scores.
// Workers appear in roster order, followed by workers only seen in records.
func WorkerPerformances(cfg Config, in PerformanceInput) []WorkerPerformance {
	type acc struct {
		row      WorkerPerformance
		earnings decimal.Decimal
		hours    decimal.Decimal
	}
	var order []generic.WorkerID
	byID := make(map[generic.WorkerID]*acc)
	get := func(id generic.WorkerID, name, group string) *acc {
		a, ok := byID[id]
		if !ok {
			a = &acc{
				row:      WorkerPerformance{WorkerID: id, Name: generic.LabelOrUnknown(name), GroupName: group},
				earnings: decimal.Zero,
				hours:    decimal.Zero,
			}
			byID[id] = a
			order = append(order, id)
		}
		return a
	}

	for _, w := range in.Workers {
		get(w.ID, w.Name, w.GroupName)
	}
	for _, e := range in.Entries {
		a := get(e.WorkerID, e.WorkerName, e.GroupName)
		a.row.Jobs++
		a.earnings = a.earnings.Add(generic.OrZero(e.TotalAmount))
		a.hours = a.hours.Add(generic.OrZero(e.HoursTaken))
	}

	attendance := make(map[generic.WorkerID][]generic.AttendanceRecord)
	for _, r := range in.Attendance {
		get(r.WorkerID, r.WorkerName, "")
		attendance[r.WorkerID] = append(attendance[r.WorkerID], r)
	}
	leave := WorkerLeaveUtilization(in.Balances)

	rows := make([]WorkerPerformance, 0, len(order))
	var bestHourly, bestJobs, bestEarnings float64
	for _, id := range order {
		a := byID[id]
		a.row.Earnings = toFloat(a.earnings)
		a.row.Hours = toFloat(a.hours)
		a.row.AvgHourlyEarnings = round2(DecimalRate(a.earnings, a.hours))
		standing := attendanceStanding(attendance[id])
		a.row.AttendanceRate = standing.Rate
		a.row.LateRate = standing.LateRate
		a.row.LeaveUtilization = leave[id]

		bestHourly = max(bestHourly, a.row.AvgHourlyEarnings)
		bestJobs = max(bestJobs, float64(a.row.Jobs))
		bestEarnings = max(bestEarnings, a.row.Earnings)
		rows = append(rows, a.row)
	}

	for i := range rows {
		r := &rows[i]
		r.ProductivityScore = Score(cfg.ProductivityWeights, map[string]float64{
			MetricHourlyRate:   Normalize(r.AvgHourlyEarnings, bestHourly),
			MetricJobFrequency: Normalize(float64(r.Jobs), bestJobs),
			MetricEarnings:     Normalize(r.Earnings, bestEarnings),
		})
		r.AttendanceScore = Score(cfg.AttendanceWeights, map[string]float64{
			MetricAttendanceRate:   r.AttendanceRate,
			MetricLeaveUtilization: r.LeaveUtilization,
			MetricLateRate:         r.LateRate,
		})
	}
	return rows
}
