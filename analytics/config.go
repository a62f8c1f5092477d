package analytics

import (
	"github.com/warp/workforce-engine/generic"
)

// Dashboard names.
const (
	DashboardAttendance  = "attendance"
	DashboardLeave       = "leave"
	DashboardEarnings    = "earnings"
	DashboardCompletion  = "completion"
	DashboardPerformance = "performance"
	DashboardComparison  = "comparison"
)

// Dashboards lists every dashboard name in display order.
var Dashboards = []string{
	DashboardAttendance,
	DashboardLeave,
	DashboardEarnings,
	DashboardCompletion,
	DashboardPerformance,
	DashboardComparison,
}

// Limits are the top-N/top-K caps per view.
type Limits struct {
	TopAttendance   int `json:"top_attendance" mapstructure:"top_attendance"`
	TopLeaveTakers  int `json:"top_leave_takers" mapstructure:"top_leave_takers"`
	LeaveTypes      int `json:"leave_types" mapstructure:"leave_types"`
	TopEarners      int `json:"top_earners" mapstructure:"top_earners"`
	JobDistribution int `json:"job_distribution" mapstructure:"job_distribution"`
	CompletionJobs  int `json:"completion_jobs" mapstructure:"completion_jobs"`
	TopPerformers   int `json:"top_performers" mapstructure:"top_performers"`
}

// Thresholds drive the alert rules. Percentages are on a 0..100 scale.
type Thresholds struct {
	Absenteeism    float64 `json:"absenteeism" mapstructure:"absenteeism"`
	Lateness       float64 `json:"lateness" mapstructure:"lateness"`
	GoodAttendance float64 `json:"good_attendance" mapstructure:"good_attendance"`
	GoodApproval   float64 `json:"good_approval" mapstructure:"good_approval"`
	PendingBacklog int     `json:"pending_backlog" mapstructure:"pending_backlog"`
	HighRejection  float64 `json:"high_rejection" mapstructure:"high_rejection"`
}

// Config carries everything a dashboard builder needs besides records.
type Config struct {
	Clock      generic.Clock
	Limits     Limits
	Thresholds Thresholds

	AttendanceTrend generic.Window
	LeaveTrend      generic.Window
	EarningsTrend   generic.Window
	CompletionTrend generic.Window

	AttendanceWeights   ScoreWeights
	ProductivityWeights ScoreWeights
}

func DefaultLimits() Limits {
	return Limits{
		TopAttendance:   5,
		TopLeaveTakers:  5,
		LeaveTypes:      8,
		TopEarners:      10,
		JobDistribution: 8,
		CompletionJobs:  10,
		TopPerformers:   10,
	}
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Absenteeism:    20,
		Lateness:       10,
		GoodAttendance: 90,
		GoodApproval:   80,
		PendingBacklog: 10,
		HighRejection:  30,
	}
}

func DefaultConfig() Config {
	return Config{
		Clock:               generic.SystemClock{},
		Limits:              DefaultLimits(),
		Thresholds:          DefaultThresholds(),
		AttendanceTrend:     generic.Last7Days,
		LeaveTrend:          generic.Last6Months,
		EarningsTrend:       generic.Last30Days,
		CompletionTrend:     generic.Last7Days,
		AttendanceWeights:   AttendanceScoreWeights,
		ProductivityWeights: ProductivityScoreWeights,
	}
}

// today is the reference day for windows and day comparisons.
func (c Config) today() generic.TimePoint {
	return generic.Today(c.Clock)
}
