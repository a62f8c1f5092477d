// Package report renders dashboards as terminal tables and exports job-entry
// reports to parquet files.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/warp/workforce-engine/analytics"
	"github.com/warp/workforce-engine/generic"
)

// Options controls table output.
type Options struct {
	// UseColors colours titles, severities and changes.
	UseColors bool
}

// Severity colours for alert output.
var (
	CriticalColor = color.New(color.FgRed, color.Bold)
	WarningColor  = color.New(color.FgYellow, color.Bold)
	SuccessColor  = color.New(color.FgGreen)
	InfoColor     = color.New(color.FgCyan)
	TitleColor    = color.New(color.Bold, color.Underline)
)

// SeverityLabel returns the severity as text, coloured when useColors is set.
func SeverityLabel(s analytics.Severity, useColors bool) string {
	text := string(s)
	if !useColors {
		return text
	}
	switch s {
	case analytics.SeverityCritical:
		return CriticalColor.Sprint(text)
	case analytics.SeverityWarning:
		return WarningColor.Sprint(text)
	case analytics.SeveritySuccess:
		return SuccessColor.Sprint(text)
	default:
		return InfoColor.Sprint(text)
	}
}

// WriteDashboard writes a dashboard built by the API's dashboard service.
func WriteDashboard(w io.Writer, dashboard any, opts Options) error {
	p := printer{w: w, opts: opts}
	switch d := dashboard.(type) {
	case analytics.AttendanceDashboard:
		return p.attendance(d)
	case analytics.LeaveDashboard:
		return p.leave(d)
	case analytics.EarningsDashboard:
		return p.earnings(d)
	case analytics.CompletionDashboard:
		return p.completion(d)
	case analytics.PerformanceDashboard:
		return p.performance(d)
	case analytics.ComparisonDashboard:
		return p.comparison(d)
	default:
		return fmt.Errorf("report: unsupported dashboard %T", dashboard)
	}
}

// =============================================================================
// DASHBOARDS
// =============================================================================

type printer struct {
	w    io.Writer
	opts Options
}

func (p printer) attendance(d analytics.AttendanceDashboard) error {
	s := d.Summary
	sections := []func() error{
		func() error {
			return p.keyValues("Attendance "+s.Date, [][2]string{
				{"Workers", strconv.Itoa(s.TotalWorkers)},
				{"Present", strconv.Itoa(s.Present)},
				{"Late", strconv.Itoa(s.Late)},
				{"Absent", strconv.Itoa(s.Absent)},
				{"On leave", strconv.Itoa(s.OnLeave)},
				{"Unmarked", strconv.Itoa(s.Unmarked)},
				{"Attendance rate", pct(s.AttendanceRate)},
				{"Absenteeism rate", pct(s.AbsenteeismRate)},
				{"Late rate", pct(s.LateRate)},
			})
		},
		func() error { return p.categoryTrend("Attendance trend", d.Trend, attendanceCategories()) },
		func() error { return p.slices("Status split", d.StatusSplit, false) },
		func() error {
			rows := make([][]string, len(d.TopAttendance))
			for i, r := range d.TopAttendance {
				rows[i] = []string{strconv.Itoa(r.Rank), generic.LabelOrUnknown(r.Label), pct(r.Stats.Rate),
					strconv.Itoa(r.Stats.Present), strconv.Itoa(r.Stats.Late), strconv.Itoa(r.Stats.Absent)}
			}
			return p.table("Top attendance", []string{"Rank", "Worker", "Rate", "Present", "Late", "Absent"}, rows)
		},
		func() error { return p.alerts(d.Alerts) },
	}
	return run(sections)
}

func (p printer) leave(d analytics.LeaveDashboard) error {
	s := d.Summary
	sections := []func() error{
		func() error {
			return p.keyValues("Leave", [][2]string{
				{"Requests", strconv.Itoa(s.Total)},
				{"Approved", strconv.Itoa(s.Approved)},
				{"Pending", strconv.Itoa(s.Pending)},
				{"Rejected", strconv.Itoa(s.Rejected)},
				{"Approved days", num(s.ApprovedDays)},
				{"Approval rate", pct(s.ApprovalRate)},
				{"Rejection rate", pct(s.RejectionRate)},
			})
		},
		func() error { return p.categoryTrend("Leave trend", d.Trend, leaveCategories()) },
		func() error { return p.slices("Days by type", d.ByType, true) },
		func() error {
			rows := make([][]string, len(d.TopTakers))
			for i, r := range d.TopTakers {
				rows[i] = []string{strconv.Itoa(r.Rank), generic.LabelOrUnknown(r.Label),
					num(r.Stats.ApprovedDays), strconv.Itoa(r.Stats.Requests)}
			}
			return p.table("Top leave takers", []string{"Rank", "Worker", "Approved days", "Requests"}, rows)
		},
		func() error {
			rows := make([][]string, len(d.Utilization))
			for i, u := range d.Utilization {
				rows[i] = []string{u.LeaveType, num(u.Allocated), num(u.Used), num(u.Remaining), pct(u.Utilization)}
			}
			return p.table("Utilization", []string{"Type", "Allocated", "Used", "Remaining", "Utilization"}, rows)
		},
		func() error { return p.alerts(d.Alerts) },
	}
	return run(sections)
}

func (p printer) earnings(d analytics.EarningsDashboard) error {
	t := d.Totals
	sections := []func() error{
		func() error {
			return p.keyValues("Earnings", [][2]string{
				{"Entries", strconv.Itoa(t.Entries)},
				{"Total", money(t.TotalAmount)},
				{"Incentives", money(t.IncentiveAmount)},
				{"Penalties", money(t.PenaltyAmount)},
				{"Hours", num(t.TotalHours)},
				{"Items", num(t.TotalItems)},
				{"Average per entry", money(t.AveragePerEntry)},
			})
		},
		func() error {
			rows := make([][]string, len(d.Trend))
			for i, pt := range d.Trend {
				rows[i] = []string{pt.Label, strconv.Itoa(pt.Count), money(pt.Sum)}
			}
			return p.table("Earnings trend", []string{"Day", "Entries", "Total"}, rows)
		},
		func() error {
			rows := make([][]string, len(d.TopEarners))
			for i, r := range d.TopEarners {
				rows[i] = []string{strconv.Itoa(r.Rank), generic.LabelOrUnknown(r.Label), money(r.Stats.TotalAmount),
					money(r.Stats.IncentiveAmount), num(r.Stats.Hours), strconv.Itoa(r.Stats.Entries)}
			}
			return p.table("Top earners", []string{"Rank", "Worker", "Total", "Incentives", "Hours", "Entries"}, rows)
		},
		func() error { return p.slices("Earnings by job", d.JobDistribution, true) },
		func() error {
			return p.table("Shifts", []string{"Shift", "Entries", "Total", "Share"}, [][]string{
				{"Pre-lunch", strconv.Itoa(d.Shifts.PreLunch.Entries), money(d.Shifts.PreLunch.TotalAmount), pct(d.Shifts.PreLunch.Share)},
				{"Post-lunch", strconv.Itoa(d.Shifts.PostLunch.Entries), money(d.Shifts.PostLunch.TotalAmount), pct(d.Shifts.PostLunch.Share)},
			})
		},
	}
	return run(sections)
}

func (p printer) completion(d analytics.CompletionDashboard) error {
	s := d.Summary
	sections := []func() error{
		func() error {
			return p.keyValues("Job completion", [][2]string{
				{"Entries", strconv.Itoa(s.Entries)},
				{"Met target", strconv.Itoa(s.Met)},
				{"Underperforming", strconv.Itoa(s.Underperforming)},
				{"No target", strconv.Itoa(s.NoTarget)},
				{"Completion rate", pct(s.CompletionRate)},
			})
		},
		func() error {
			rows := make([][]string, len(d.ByJob))
			for i, r := range d.ByJob {
				rows[i] = []string{strconv.Itoa(r.Rank), generic.LabelOrUnknown(r.Label), pct(r.Stats.Rate),
					strconv.Itoa(r.Stats.Met), strconv.Itoa(r.Stats.Targeted), strconv.Itoa(r.Stats.Entries)}
			}
			return p.table("By job", []string{"Rank", "Job", "Rate", "Met", "Targeted", "Entries"}, rows)
		},
		func() error {
			return p.categoryTrend("Completion trend", d.Trend,
				[]string{analytics.CompletionMet, analytics.CompletionShort, analytics.CompletionNoTarget})
		},
	}
	return run(sections)
}

func (p printer) performance(d analytics.PerformanceDashboard) error {
	sections := []func() error{
		func() error {
			return p.keyValues("Performance", [][2]string{
				{"Workers", strconv.Itoa(d.Workers)},
				{"Avg productivity score", score(d.Averages.ProductivityScore)},
				{"Avg attendance score", score(d.Averages.AttendanceScore)},
			})
		},
		func() error {
			rows := make([][]string, len(d.TopPerformers))
			for i, r := range d.TopPerformers {
				wp := r.Stats
				rows[i] = []string{strconv.Itoa(r.Rank), generic.LabelOrUnknown(wp.Name), generic.LabelOrUnknown(wp.GroupName),
					score(wp.ProductivityScore), score(wp.AttendanceScore), money(wp.Earnings), num(wp.Hours),
					money(wp.AvgHourlyEarnings), pct(wp.AttendanceRate)}
			}
			return p.table("Top performers",
				[]string{"Rank", "Worker", "Group", "Productivity", "Attendance", "Earnings", "Hours", "Per hour", "Attendance rate"}, rows)
		},
	}
	return run(sections)
}

func (p printer) comparison(d analytics.ComparisonDashboard) error {
	return p.table(fmt.Sprintf("Today (%s) vs yesterday (%s)", d.Today, d.Yesterday),
		[]string{"Metric", "Today", "Yesterday", "Change"},
		[][]string{
			{"Entries", num(d.Entries.Today), num(d.Entries.Yesterday), p.change(d.Entries.ChangePercent)},
			{"Earnings", money(d.Earnings.Today), money(d.Earnings.Yesterday), p.change(d.Earnings.ChangePercent)},
			{"Present", num(d.Present.Today), num(d.Present.Yesterday), p.change(d.Present.ChangePercent)},
		})
}

// =============================================================================
// SECTIONS
// =============================================================================

func (p printer) title(text string) error {
	if p.opts.UseColors {
		text = TitleColor.Sprint(text)
	}
	_, err := fmt.Fprintf(p.w, "\n%s\n", text)
	return err
}

func (p printer) table(title string, headers []string, rows [][]string) error {
	if err := p.title(title); err != nil {
		return err
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(p.w, "(no data)")
		return err
	}

	table := tablewriter.NewWriter(p.w)
	defer func() { _ = table.Close() }()

	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func (p printer) keyValues(title string, pairs [][2]string) error {
	rows := make([][]string, len(pairs))
	for i, kv := range pairs {
		rows[i] = []string{kv[0], kv[1]}
	}
	return p.table(title, []string{"Metric", "Value"}, rows)
}

// categoryTrend writes one row per bucket and one column per category.
func (p printer) categoryTrend(title string, points []analytics.TrendPoint, categories []string) error {
	headers := append([]string{"Period", "Total"}, categories...)
	rows := make([][]string, len(points))
	for i, pt := range points {
		row := []string{pt.Label, strconv.Itoa(pt.Count)}
		for _, c := range categories {
			row = append(row, strconv.Itoa(pt.Counts[c]))
		}
		rows[i] = row
	}
	return p.table(title, headers, rows)
}

func (p printer) slices(title string, slices []analytics.Slice, withSum bool) error {
	headers := []string{"Label", "Count", "Share"}
	if withSum {
		headers = []string{"Label", "Count", "Total", "Share"}
	}
	var total float64
	for _, s := range slices {
		total += s.Value
	}
	rows := make([][]string, len(slices))
	for i, s := range slices {
		row := []string{generic.LabelOrUnknown(s.Label), strconv.Itoa(s.Count)}
		if withSum {
			row = append(row, num(s.Sum))
		}
		share := 0.0
		if total > 0 {
			share = s.Value / total * 100
		}
		rows[i] = append(row, pct(share))
	}
	return p.table(title, headers, rows)
}

func (p printer) alerts(alerts []analytics.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	rows := make([][]string, len(alerts))
	for i, a := range alerts {
		rows[i] = []string{SeverityLabel(a.Severity, p.opts.UseColors), a.Rule, a.Message}
	}
	return p.table("Alerts", []string{"Severity", "Rule", "Message"}, rows)
}

func (p printer) change(percent float64) string {
	text := fmt.Sprintf("%+.1f%%", percent)
	if !p.opts.UseColors {
		return text
	}
	switch {
	case percent > 0:
		return SuccessColor.Sprint(text + " ▲")
	case percent < 0:
		return CriticalColor.Sprint(text + " ▼")
	default:
		return text
	}
}

func run(sections []func() error) error {
	for _, section := range sections {
		if err := section(); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// FORMATTING
// =============================================================================

func attendanceCategories() []string {
	out := make([]string, len(generic.AttendanceStatuses))
	for i, s := range generic.AttendanceStatuses {
		out[i] = string(s)
	}
	return out
}

func leaveCategories() []string {
	out := make([]string, len(generic.LeaveStatuses))
	for i, s := range generic.LeaveStatuses {
		out[i] = string(s)
	}
	return out
}

func pct(v float64) string   { return fmt.Sprintf("%.1f%%", v) }
func money(v float64) string { return fmt.Sprintf("%.2f", v) }
func score(v float64) string { return fmt.Sprintf("%.1f", v) }
func num(v float64) string   { return strconv.FormatFloat(v, 'f', -1, 64) }
