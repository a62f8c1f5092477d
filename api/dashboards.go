/*
dashboards.go - Record fetching and dashboard assembly

PURPOSE:
  Fetches the record sets a dashboard needs, runs them through the
  analytics aggregator and wraps the view-model in an OperationResult.

CONCURRENCY:
  Independent fetches run in parallel with errgroup. The aggregator runs
  only after every fetch has returned, on plain slices, with no shared
  state. The first fetch error cancels the others.

READ PATH:
  Job entries are recomputed against the current job definitions before
  aggregation. Entries whose job is unknown keep their stored amounts.

FAILURE:
  A fetch failure becomes a single error message for the whole dashboard.
  The aggregator itself never fails.

SEE ALSO:
  - analytics/: The dashboard builders
  - monitor.go: Alert monitor built on this service
*/
package api

import (
	"context"
	"fmt"

	"github.com/warp/workforce-engine/analytics"
	"github.com/warp/workforce-engine/compensation"
	"github.com/warp/workforce-engine/generic"
	"github.com/warp/workforce-engine/metrics"
	"golang.org/x/sync/errgroup"
)

// DashboardService builds dashboards from a record source.
type DashboardService struct {
	Records generic.RecordSource
	Jobs    compensation.JobStore
	Config  analytics.Config
	Metrics *metrics.Metrics
}

func NewDashboardService(records generic.RecordSource, jobs compensation.JobStore, cfg analytics.Config, m *metrics.Metrics) *DashboardService {
	return &DashboardService{Records: records, Jobs: jobs, Config: cfg, Metrics: m}
}

// =============================================================================
// FETCHING
// =============================================================================

type need uint8

const (
	needWorkers need = 1 << iota
	needEntries
	needAttendance
	needLeave
	needBalances
)

// dataset holds the fetched records. Each field is written by one goroutine.
type dataset struct {
	workers    []generic.Worker
	entries    []generic.JobEntryReport
	attendance []generic.AttendanceRecord
	leave      []generic.LeaveRequest
	balances   []generic.LeaveBalance
}

func (s *DashboardService) fetch(ctx context.Context, filter generic.RecordFilter, n need) (dataset, error) {
	var ds dataset
	var jobs map[generic.JobID]compensation.JobDefinition

	g, ctx := errgroup.WithContext(ctx)
	if n&needWorkers != 0 {
		g.Go(func() (err error) {
			ds.workers, err = s.Records.ListWorkers(ctx)
			return wrapFetch("workers", err)
		})
	}
	if n&needEntries != 0 {
		g.Go(func() (err error) {
			ds.entries, err = s.Records.ListJobEntries(ctx, filter)
			return wrapFetch("job entries", err)
		})
		if s.Jobs != nil {
			g.Go(func() (err error) {
				jobs, err = compensation.JobIndex(ctx, s.Jobs)
				return wrapFetch("jobs", err)
			})
		}
	}
	if n&needAttendance != 0 {
		g.Go(func() (err error) {
			ds.attendance, err = s.Records.ListAttendance(ctx, filter)
			return wrapFetch("attendance", err)
		})
	}
	if n&needLeave != 0 {
		g.Go(func() (err error) {
			ds.leave, err = s.Records.ListLeaveRequests(ctx, filter)
			return wrapFetch("leave requests", err)
		})
	}
	if n&needBalances != 0 {
		g.Go(func() (err error) {
			ds.balances, err = s.Records.ListLeaveBalances(ctx)
			return wrapFetch("leave balances", err)
		})
	}
	if err := g.Wait(); err != nil {
		return dataset{}, err
	}

	if jobs != nil {
		ds.entries = compensation.RecomputeReports(jobs, ds.entries)
	}
	return ds, nil
}

func wrapFetch(what string, err error) error {
	if err != nil {
		return fmt.Errorf("fetch %s: %w", what, err)
	}
	return nil
}

// =============================================================================
// DASHBOARDS
// =============================================================================

func (s *DashboardService) Attendance(ctx context.Context, filter generic.RecordFilter) (analytics.AttendanceDashboard, error) {
	ds, err := s.fetch(ctx, filter, needWorkers|needAttendance)
	if err != nil {
		return analytics.AttendanceDashboard{}, err
	}
	return analytics.BuildAttendance(s.Config, ds.workers, ds.attendance), nil
}

func (s *DashboardService) Leave(ctx context.Context, filter generic.RecordFilter) (analytics.LeaveDashboard, error) {
	ds, err := s.fetch(ctx, filter, needLeave|needBalances)
	if err != nil {
		return analytics.LeaveDashboard{}, err
	}
	return analytics.BuildLeave(s.Config, ds.leave, ds.balances), nil
}

func (s *DashboardService) Earnings(ctx context.Context, filter generic.RecordFilter) (analytics.EarningsDashboard, error) {
	ds, err := s.fetch(ctx, filter, needEntries)
	if err != nil {
		return analytics.EarningsDashboard{}, err
	}
	return analytics.BuildEarnings(s.Config, ds.entries), nil
}

func (s *DashboardService) Completion(ctx context.Context, filter generic.RecordFilter) (analytics.CompletionDashboard, error) {
	ds, err := s.fetch(ctx, filter, needEntries)
	if err != nil {
		return analytics.CompletionDashboard{}, err
	}
	return analytics.BuildCompletion(s.Config, ds.entries), nil
}

func (s *DashboardService) Performance(ctx context.Context, filter generic.RecordFilter) (analytics.PerformanceDashboard, error) {
	ds, err := s.fetch(ctx, filter, needWorkers|needEntries|needAttendance|needBalances)
	if err != nil {
		return analytics.PerformanceDashboard{}, err
	}
	return analytics.BuildPerformance(s.Config, analytics.PerformanceInput{
		Workers:    ds.workers,
		Entries:    ds.entries,
		Attendance: ds.attendance,
		Balances:   ds.balances,
	}), nil
}

func (s *DashboardService) Comparison(ctx context.Context, filter generic.RecordFilter) (analytics.ComparisonDashboard, error) {
	ds, err := s.fetch(ctx, filter, needEntries|needAttendance)
	if err != nil {
		return analytics.ComparisonDashboard{}, err
	}
	return analytics.BuildComparison(s.Config, ds.entries, ds.attendance), nil
}

// JobEntries returns the recomputed job-entry reports matching filter.
func (s *DashboardService) JobEntries(ctx context.Context, filter generic.RecordFilter) ([]generic.JobEntryReport, error) {
	ds, err := s.fetch(ctx, filter, needEntries)
	if err != nil {
		return nil, err
	}
	return ds.entries, nil
}

// Build builds the named dashboard. Unknown names return ErrNotFound.
func (s *DashboardService) Build(ctx context.Context, name string, filter generic.RecordFilter) (any, error) {
	switch name {
	case analytics.DashboardAttendance:
		return s.Attendance(ctx, filter)
	case analytics.DashboardLeave:
		return s.Leave(ctx, filter)
	case analytics.DashboardEarnings:
		return s.Earnings(ctx, filter)
	case analytics.DashboardCompletion:
		return s.Completion(ctx, filter)
	case analytics.DashboardPerformance:
		return s.Performance(ctx, filter)
	case analytics.DashboardComparison:
		return s.Comparison(ctx, filter)
	default:
		return nil, fmt.Errorf("dashboard %q: %w", name, generic.ErrNotFound)
	}
}

// Result builds the named dashboard as an OperationResult. Any failure is
// reported as one message.
func (s *DashboardService) Result(ctx context.Context, name string, filter generic.RecordFilter) generic.OperationResult[any] {
	v, err := s.Build(ctx, name, filter)
	var res generic.OperationResult[any]
	if err != nil {
		res = generic.Failed[any](fmt.Sprintf("Failed to load %s dashboard: %v", name, err))
	} else {
		res = generic.Succeeded(v)
	}
	s.Metrics.ObserveDashboard(name, res.Status)
	return res
}
