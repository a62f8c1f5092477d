package analytics

import (
	"fmt"

	"github.com/warp/workforce-engine/generic"
)

// =============================================================================
// ATTENDANCE DASHBOARD
// =============================================================================

// AttendanceSummary is today's snapshot. Rates are percentages of the workforce.
type AttendanceSummary struct {
	Date            string  `json:"date"`
	TotalWorkers    int     `json:"total_workers"`
	Present         int     `json:"present"`
	Absent          int     `json:"absent"`
	Late            int     `json:"late"`
	OnLeave         int     `json:"on_leave"`
	Unmarked        int     `json:"unmarked"`
	AttendanceRate  float64 `json:"attendance_rate"`
	AbsenteeismRate float64 `json:"absenteeism_rate"`
	LateRate        float64 `json:"late_rate"`
}

// AttendanceStanding is one worker's record over the fetched window.
type AttendanceStanding struct {
	Present   int     `json:"present"`
	Late      int     `json:"late"`
	Absent    int     `json:"absent"`
	OnLeave   int     `json:"on_leave"`
	TotalDays int     `json:"total_days"`
	Rate      float64 `json:"rate"`
	LateRate  float64 `json:"late_rate"`
}

type AttendanceDashboard struct {
	Summary       AttendanceSummary            `json:"summary"`
	Trend         []TrendPoint                 `json:"trend"`
	StatusSplit   []Slice                      `json:"status_split"`
	TopAttendance []Ranked[AttendanceStanding] `json:"top_attendance"`
	Alerts        []Alert                      `json:"alerts"`
}

// AttendanceRules are evaluated against today's summary.
func AttendanceRules(t Thresholds) []AlertRule[AttendanceSummary] {
	return []AlertRule[AttendanceSummary]{
		{
			Name:     "high_absenteeism",
			Severity: SeverityWarning,
			When:     func(s AttendanceSummary) bool { return s.AbsenteeismRate > t.Absenteeism },
			Message: func(s AttendanceSummary) string {
				return fmt.Sprintf("High absenteeism: %d of %d workers absent today (%.1f%%)", s.Absent, s.TotalWorkers, s.AbsenteeismRate)
			},
		},
		{
			Name:     "high_lateness",
			Severity: SeverityWarning,
			When:     func(s AttendanceSummary) bool { return s.LateRate > t.Lateness },
			Message: func(s AttendanceSummary) string {
				return fmt.Sprintf("%d workers arrived late today (%.1f%%)", s.Late, s.LateRate)
			},
		},
		{
			Name:     "good_attendance",
			Severity: SeveritySuccess,
			When:     func(s AttendanceSummary) bool { return s.TotalWorkers > 0 && s.AttendanceRate >= t.GoodAttendance },
			Message: func(s AttendanceSummary) string {
				return fmt.Sprintf("Excellent attendance today: %.1f%%", s.AttendanceRate)
			},
		},
	}
}

// BuildAttendance builds the attendance dashboard. workers sizes the
// workforce; when empty, distinct workers in today's records are used.
func BuildAttendance(cfg Config, workers []generic.Worker, records []generic.AttendanceRecord) AttendanceDashboard {
	today := cfg.today()
	summary := SummarizeAttendanceDay(today, len(workers), records)

	categories := make([]string, len(generic.AttendanceStatuses))
	for i, s := range generic.AttendanceStatuses {
		categories[i] = string(s)
	}

	return AttendanceDashboard{
		Summary: summary,
		Trend: Trend(records, TrendConfig[generic.AttendanceRecord]{
			Window:     cfg.AttendanceTrend,
			Now:        today,
			Date:       func(r generic.AttendanceRecord) string { return r.Date },
			Category:   func(r generic.AttendanceRecord) string { return string(r.Status) },
			Categories: categories,
		}),
		StatusSplit: Distribute(records, DistributionConfig[generic.AttendanceRecord]{
			Label: func(r generic.AttendanceRecord) string { return string(r.Status) },
		}),
		TopAttendance: RankAttendance(records, cfg.Limits.TopAttendance),
		Alerts:        EvaluateAlerts(summary, AttendanceRules(cfg.Thresholds)),
	}
}

// SummarizeAttendanceDay counts statuses on one day. totalWorkers of zero
// falls back to the number of distinct workers with a record that day.
func SummarizeAttendanceDay(day generic.TimePoint, totalWorkers int, records []generic.AttendanceRecord) AttendanceSummary {
	s := AttendanceSummary{Date: day.String()}
	seen := make(map[generic.WorkerID]bool)
	for _, r := range records {
		d, ok := generic.ParseDate(r.Date)
		if !ok || !d.Equal(day) {
			continue
		}
		seen[r.WorkerID] = true
		switch r.Status {
		case generic.AttendancePresent:
			s.Present++
		case generic.AttendanceAbsent:
			s.Absent++
		case generic.AttendanceLate:
			s.Late++
		case generic.AttendanceOnLeave:
			s.OnLeave++
		}
	}
	s.TotalWorkers = totalWorkers
	if s.TotalWorkers == 0 {
		s.TotalWorkers = len(seen)
	}
	marked := s.Present + s.Absent + s.Late + s.OnLeave
	if s.TotalWorkers > marked {
		s.Unmarked = s.TotalWorkers - marked
	}
	s.AttendanceRate = PercentOf(s.Present+s.Late, s.TotalWorkers)
	s.AbsenteeismRate = PercentOf(s.Absent, s.TotalWorkers)
	s.LateRate = PercentOf(s.Late, s.TotalWorkers)
	return s
}

// RankAttendance ranks workers by attendance rate over the given records.
func RankAttendance(records []generic.AttendanceRecord, limit int) []Ranked[AttendanceStanding] {
	return Rank(records, RankConfig[generic.AttendanceRecord, AttendanceStanding]{
		Key:    func(r generic.AttendanceRecord) string { return string(r.WorkerID) },
		Label:  func(r generic.AttendanceRecord) string { return r.WorkerName },
		Reduce: attendanceStanding,
		Metric: func(s AttendanceStanding) float64 { return s.Rate },
		Limit:  limit,
	})
}

func attendanceStanding(group []generic.AttendanceRecord) AttendanceStanding {
	var s AttendanceStanding
	for _, r := range group {
		switch r.Status {
		case generic.AttendancePresent:
			s.Present++
		case generic.AttendanceLate:
			s.Late++
		case generic.AttendanceAbsent:
			s.Absent++
		case generic.AttendanceOnLeave:
			s.OnLeave++
		}
	}
	s.TotalDays = len(group)
	s.Rate = PercentOf(s.Present+s.Late, s.TotalDays)
	s.LateRate = PercentOf(s.Late, s.TotalDays)
	return s
}
