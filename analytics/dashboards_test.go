package analytics_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/workforce-engine/analytics"
	"github.com/warp/workforce-engine/generic"
)

func num(s string) decimal.NullDecimal {
	return generic.Some(decimal.RequireFromString(s))
}

func roster(n int) []generic.Worker {
	workers := make([]generic.Worker, n)
	for i := range workers {
		workers[i] = generic.Worker{ID: generic.WorkerID(string(rune('a' + i))), Name: string(rune('A' + i))}
	}
	return workers
}

// =============================================================================
// ATTENDANCE
// =============================================================================

func TestBuildAttendance_AlertsFireTogether(t *testing.T) {
	// GIVEN: 10 workers, today 3 absent and 2 late
	records := []generic.AttendanceRecord{
		att("a", "A", "2025-03-10", generic.AttendanceAbsent),
		att("b", "B", "2025-03-10", generic.AttendanceAbsent),
		att("c", "C", "2025-03-10", generic.AttendanceAbsent),
		att("d", "D", "2025-03-10", generic.AttendanceLate),
		att("e", "E", "2025-03-10", generic.AttendanceLate),
		att("f", "F", "2025-03-10", generic.AttendancePresent),
		att("a", "A", "2025-03-09", generic.AttendancePresent),
	}

	// WHEN
	dash := analytics.BuildAttendance(testConfig(), roster(10), records)

	// THEN: Both warnings fire in declaration order
	assert.Equal(t, 10, dash.Summary.TotalWorkers)
	assert.Equal(t, 30.0, dash.Summary.AbsenteeismRate)
	assert.Equal(t, 20.0, dash.Summary.LateRate)
	assert.Equal(t, 30.0, dash.Summary.AttendanceRate)
	assert.Equal(t, 4, dash.Summary.Unmarked)
	require.Len(t, dash.Alerts, 2)
	assert.Equal(t, "high_absenteeism", dash.Alerts[0].Rule)
	assert.Equal(t, "high_lateness", dash.Alerts[1].Rule)
	assert.Equal(t, analytics.SeverityWarning, dash.Alerts[0].Severity)

	require.Len(t, dash.Trend, 7)
	assert.Equal(t, 6, dash.Trend[6].Count)
	assert.Equal(t, 1, dash.Trend[5].Counts["Present"])
	assert.LessOrEqual(t, len(dash.TopAttendance), 5)
}

func TestBuildAttendance_GoodDay(t *testing.T) {
	records := []generic.AttendanceRecord{
		att("a", "A", "2025-03-10", generic.AttendancePresent),
		att("b", "B", "2025-03-10", generic.AttendancePresent),
	}

	dash := analytics.BuildAttendance(testConfig(), nil, records)

	assert.Equal(t, 2, dash.Summary.TotalWorkers, "falls back to distinct workers seen today")
	require.Len(t, dash.Alerts, 1)
	assert.Equal(t, analytics.SeveritySuccess, dash.Alerts[0].Severity)
}

func TestBuildAttendance_EmptyInput(t *testing.T) {
	dash := analytics.BuildAttendance(testConfig(), nil, nil)

	assert.Equal(t, 0.0, dash.Summary.AttendanceRate)
	assert.Len(t, dash.Trend, 7)
	assert.Empty(t, dash.StatusSplit)
	assert.Empty(t, dash.TopAttendance)
	assert.NotNil(t, dash.Alerts)
	assert.Empty(t, dash.Alerts)
}

func TestBuildAttendance_Idempotent(t *testing.T) {
	records := []generic.AttendanceRecord{
		att("a", "A", "2025-03-10", generic.AttendancePresent),
		att("b", "", "2025-03-08", generic.AttendanceLate),
		att("c", "C", "garbage", generic.AttendanceAbsent),
	}
	snapshot := append([]generic.AttendanceRecord(nil), records...)

	first := analytics.BuildAttendance(testConfig(), nil, records)
	second := analytics.BuildAttendance(testConfig(), nil, records)

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, records, "input must not be mutated")
}

func TestRankAttendance_UnknownNameAndZeroRate(t *testing.T) {
	records := []generic.AttendanceRecord{
		att("a", "", "2025-03-10", generic.AttendanceAbsent),
		att("b", "Bea", "2025-03-10", generic.AttendancePresent),
	}

	ranked := analytics.RankAttendance(records, 5)

	require.Len(t, ranked, 2)
	assert.Equal(t, "Bea", ranked[0].Label)
	assert.Equal(t, 100.0, ranked[0].Value)
	assert.Equal(t, generic.UnknownLabel, ranked[1].Label)
	assert.Equal(t, 0.0, ranked[1].Value)
}

// =============================================================================
// LEAVE
// =============================================================================

func leaveReq(worker, leaveType string, status generic.LeaveStatus, applied, days string) generic.LeaveRequest {
	return generic.LeaveRequest{
		WorkerID:   generic.WorkerID(worker),
		WorkerName: worker,
		LeaveType:  leaveType,
		Status:     status,
		AppliedOn:  applied,
		StartDate:  applied,
		Days:       num(days),
	}
}

func TestBuildLeave(t *testing.T) {
	requests := []generic.LeaveRequest{
		leaveReq("ann", "Sick", generic.LeaveApproved, "2025-03-01", "2"),
		leaveReq("ann", "Casual", generic.LeaveApproved, "2025-02-10", "1"),
		leaveReq("bob", "Sick", generic.LeaveRejected, "2025-01-15", "3"),
		leaveReq("cid", "Annual", generic.LeaveApproved, "2024-08-01", "5"),
		leaveReq("dee", "Sick", generic.LeaveApproved, "2025-03-05", "1"),
	}
	balances := []generic.LeaveBalance{
		{WorkerID: "ann", LeaveType: "Sick", Allocated: num("10"), Used: num("2")},
		{WorkerID: "bob", LeaveType: "Sick", Allocated: num("10"), Used: num("0")},
		{WorkerID: "ann", LeaveType: "Casual", Allocated: generic.None(), Used: num("1")},
	}

	dash := analytics.BuildLeave(testConfig(), requests, balances)

	assert.Equal(t, 5, dash.Summary.Total)
	assert.Equal(t, 80.0, dash.Summary.ApprovalRate)
	assert.Equal(t, 20.0, dash.Summary.RejectionRate)
	assert.Empty(t, dash.Alerts, "80% is not above the 80% threshold")

	require.Len(t, dash.Trend, 6)
	assert.Equal(t, "2024-10", dash.Trend[0].Key)
	assert.Equal(t, 2, dash.Trend[5].Counts["Approved"])
	assert.Equal(t, 3.0, dash.Trend[5].Sum)
	assert.Equal(t, 0, dash.Trend[0].Counts["Pending"])

	require.NotEmpty(t, dash.ByType)
	assert.Equal(t, "Sick", dash.ByType[0].Label)
	assert.Equal(t, 6.0, dash.ByType[0].Value)

	require.NotEmpty(t, dash.TopTakers)
	assert.Equal(t, "cid", dash.TopTakers[0].Key)
	assert.Equal(t, 5.0, dash.TopTakers[0].Value)
	assert.Equal(t, "ann", dash.TopTakers[1].Key)

	require.Len(t, dash.Utilization, 2)
	assert.Equal(t, "Sick", dash.Utilization[0].LeaveType)
	assert.Equal(t, 10.0, dash.Utilization[0].Utilization)
	assert.Equal(t, 0.0, dash.Utilization[1].Utilization, "no allocation means 0%, not infinity")
}

func TestLeaveRules_AllFire(t *testing.T) {
	stats := analytics.LeaveSummary{Pending: 11, ApprovalRate: 85, RejectionRate: 31}

	alerts := analytics.EvaluateAlerts(stats, analytics.LeaveRules(analytics.DefaultThresholds()))

	require.Len(t, alerts, 3)
	assert.Equal(t, "high_approval", alerts[0].Rule)
	assert.Equal(t, "pending_backlog", alerts[1].Rule)
	assert.Equal(t, "high_rejection", alerts[2].Rule)
}

// =============================================================================
// EARNINGS & COMPLETION
// =============================================================================

func hourlyEntry(worker, job, date, hours, expected, under, total string, postLunch bool) generic.JobEntryReport {
	e := generic.JobEntryReport{
		WorkerID:              generic.WorkerID(worker),
		WorkerName:            worker,
		JobID:                 generic.JobID(job),
		JobName:               job,
		Date:                  date,
		HoursTaken:            num(hours),
		UnderperformanceHours: num(under),
		TotalAmount:           num(total),
		IsPostLunch:           postLunch,
	}
	if expected != "" {
		e.ExpectedHours = num(expected)
	}
	return e
}

func sampleEntries() []generic.JobEntryReport {
	return []generic.JobEntryReport{
		hourlyEntry("ann", "Sewing", "2025-03-10", "10", "8", "0", "1100", false),
		hourlyEntry("bob", "Sewing", "2025-03-10", "6", "8", "2", "560", true),
		hourlyEntry("ann", "Cutting", "2025-03-09", "4", "", "0", "200", true),
		hourlyEntry("cid", "Cutting", "bad-date", "8", "8", "0", "400", false),
	}
}

func TestBuildEarnings(t *testing.T) {
	dash := analytics.BuildEarnings(testConfig(), sampleEntries())

	assert.Equal(t, 4, dash.Totals.Entries)
	assert.Equal(t, 2260.0, dash.Totals.TotalAmount)
	assert.Equal(t, 565.0, dash.Totals.AveragePerEntry)
	assert.Equal(t, 28.0, dash.Totals.TotalHours)

	require.Len(t, dash.Trend, 30)
	assert.Equal(t, 1660.0, dash.Trend[29].Sum)
	assert.Equal(t, 200.0, dash.Trend[28].Sum)

	require.Len(t, dash.TopEarners, 3)
	assert.Equal(t, "ann", dash.TopEarners[0].Key)
	assert.Equal(t, 1300.0, dash.TopEarners[0].Value)
	assert.Equal(t, 2, dash.TopEarners[0].Stats.Entries)

	require.Len(t, dash.JobDistribution, 2)
	assert.Equal(t, "Sewing", dash.JobDistribution[0].Label)
	assert.Equal(t, 1660.0, dash.JobDistribution[0].Value)

	assert.Equal(t, 2, dash.Shifts.PreLunch.Entries)
	assert.Equal(t, 760.0, dash.Shifts.PostLunch.TotalAmount)
}

func TestSummarizeEarnings_Empty(t *testing.T) {
	totals := analytics.SummarizeEarnings(nil)
	assert.Equal(t, 0.0, totals.AveragePerEntry)
}

func TestBuildCompletion(t *testing.T) {
	dash := analytics.BuildCompletion(testConfig(), sampleEntries())

	assert.Equal(t, 2, dash.Summary.Met)
	assert.Equal(t, 1, dash.Summary.Underperforming)
	assert.Equal(t, 1, dash.Summary.NoTarget)
	assert.Equal(t, 66.67, dash.Summary.CompletionRate)

	require.Len(t, dash.ByJob, 2)
	assert.Equal(t, "Cutting", dash.ByJob[0].Label)
	assert.Equal(t, 100.0, dash.ByJob[0].Value)
	assert.Equal(t, 50.0, dash.ByJob[1].Value)

	require.Len(t, dash.Trend, 7)
	assert.Equal(t, 1, dash.Trend[6].Counts[analytics.CompletionMet])
	assert.Equal(t, 1, dash.Trend[6].Counts[analytics.CompletionShort])
	assert.Equal(t, 1, dash.Trend[5].Counts[analytics.CompletionNoTarget])
}

// =============================================================================
// PERFORMANCE & COMPARISON
// =============================================================================

func TestBuildPerformance(t *testing.T) {
	in := analytics.PerformanceInput{
		Workers: []generic.Worker{{ID: "ann", Name: "Ann"}, {ID: "bob", Name: "Bob"}, {ID: "zed", Name: "Zed"}},
		Entries: sampleEntries(),
		Attendance: []generic.AttendanceRecord{
			att("ann", "Ann", "2025-03-10", generic.AttendancePresent),
			att("ann", "Ann", "2025-03-09", generic.AttendancePresent),
			att("bob", "Bob", "2025-03-10", generic.AttendanceLate),
			att("bob", "Bob", "2025-03-09", generic.AttendanceAbsent),
		},
		Balances: []generic.LeaveBalance{
			{WorkerID: "bob", LeaveType: "Sick", Allocated: num("10"), Used: num("5")},
		},
	}

	dash := analytics.BuildPerformance(testConfig(), in)

	assert.Equal(t, 4, dash.Workers, "roster plus cid seen only in entries")
	require.NotEmpty(t, dash.TopPerformers)
	top := dash.TopPerformers[0]
	assert.Equal(t, "ann", top.Key)
	for _, p := range dash.TopPerformers {
		assert.GreaterOrEqual(t, p.Stats.ProductivityScore, 0.0)
		assert.LessOrEqual(t, p.Stats.ProductivityScore, 100.0)
		assert.LessOrEqual(t, p.Stats.AttendanceScore, 100.0)
	}
	assert.Equal(t, 100.0, top.Stats.AttendanceRate)
	// 0.6*100 + 0.2*(100-0) + 0.2*(100-0)
	assert.Equal(t, 100.0, top.Stats.AttendanceScore)

	var zed, bob analytics.WorkerPerformance
	for _, p := range analytics.WorkerPerformances(testConfig(), in) {
		switch p.WorkerID {
		case "zed":
			zed = p
		case "bob":
			bob = p
		}
	}
	assert.Equal(t, 0.0, zed.AvgHourlyEarnings, "no hours means 0, not NaN")
	assert.Equal(t, 0.0, zed.ProductivityScore)
	// bob: attendance 50%, late 50%, leave 50% -> 0.6*50 + 0.2*50 + 0.2*50
	assert.Equal(t, 50.0, bob.AttendanceScore)
}

func TestBuildComparison(t *testing.T) {
	attendance := []generic.AttendanceRecord{
		att("a", "A", "2025-03-10", generic.AttendancePresent),
		att("b", "B", "2025-03-10", generic.AttendanceLate),
		att("c", "C", "2025-03-10", generic.AttendanceAbsent),
		att("a", "A", "2025-03-09", generic.AttendancePresent),
	}

	dash := analytics.BuildComparison(testConfig(), sampleEntries(), attendance)

	assert.Equal(t, "2025-03-10", dash.Today)
	assert.Equal(t, "2025-03-09", dash.Yesterday)
	assert.Equal(t, analytics.Change{Today: 2, Yesterday: 1, ChangePercent: 100}, dash.Entries)
	assert.Equal(t, 1660.0, dash.Earnings.Today)
	assert.Equal(t, 730.0, dash.Earnings.ChangePercent)
	assert.Equal(t, 2.0, dash.Present.Today)
	assert.Equal(t, 100.0, dash.Present.ChangePercent)
}

func TestBuildComparison_NothingYesterday(t *testing.T) {
	entries := []generic.JobEntryReport{hourlyEntry("a", "J", "2025-03-10", "1", "", "0", "50", false)}

	dash := analytics.BuildComparison(testConfig(), entries, nil)

	assert.Equal(t, 0.0, dash.Entries.ChangePercent)
	assert.Equal(t, 0.0, dash.Earnings.ChangePercent)
}
