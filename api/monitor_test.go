package api

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/workforce-engine/analytics"
	"github.com/warp/workforce-engine/compensation"
	"github.com/warp/workforce-engine/generic"
	"github.com/warp/workforce-engine/generic/store"
	"github.com/warp/workforce-engine/metrics"
)

func TestAlertMonitor_ReportsNewAlertsOnce(t *testing.T) {
	// GIVEN a day with two absences, one late arrival and a leave backlog
	h, router := newTestServer(t)
	loadScenario(t, router, "absenteeism")
	monitor := NewAlertMonitor(h.Dashboards, nil)
	ctx := context.Background()

	// WHEN the monitor checks
	fired := monitor.RunOnce(ctx)

	// THEN each active rule is reported
	var rules []string
	for _, f := range fired {
		rules = append(rules, f.Dashboard+"/"+f.Alert.Rule)
	}
	assert.Equal(t, []string{
		"attendance/high_absenteeism",
		"attendance/high_lateness",
		"leave/pending_backlog",
	}, rules)
	assert.Equal(t, []string{"high_absenteeism", "high_lateness"}, monitor.Active(analytics.DashboardAttendance))

	// AND the next check reports nothing while the alerts stay active
	assert.Empty(t, monitor.RunOnce(ctx))
	assert.Equal(t, []string{"pending_backlog"}, monitor.Active(analytics.DashboardLeave))
}

func TestAlertMonitor_RefiresAfterClearing(t *testing.T) {
	h, router := newTestServer(t)
	loadScenario(t, router, "absenteeism")
	monitor := NewAlertMonitor(h.Dashboards, nil)
	ctx := context.Background()
	require.Len(t, monitor.RunOnce(ctx), 3)

	// WHEN the data is cleared the alerts clear
	require.Equal(t, http.StatusOK, do(t, router, http.MethodPost, "/api/scenarios/reset", "").Code)
	assert.Empty(t, monitor.RunOnce(ctx))
	assert.Empty(t, monitor.Active(analytics.DashboardAttendance))

	// THEN reloading fires them again
	loadScenario(t, router, "absenteeism")
	assert.Len(t, monitor.RunOnce(ctx), 3)
}

func TestAlertMonitor_StartStop(t *testing.T) {
	h, router := newTestServer(t)
	loadScenario(t, router, "absenteeism")
	monitor := NewAlertMonitor(h.Dashboards, nil)
	monitor.CheckInterval = time.Hour

	monitor.Start()
	assert.Eventually(t, func() bool {
		return len(monitor.Active(analytics.DashboardLeave)) == 1
	}, 2*time.Second, 10*time.Millisecond)
	monitor.Stop()

	// Stop is idempotent
	assert.NotPanics(t, monitor.Stop)
}

func TestAlertMonitor_Disabled(t *testing.T) {
	h, _ := newTestServer(t)
	monitor := NewAlertMonitor(h.Dashboards, nil)
	monitor.Enabled = false

	monitor.Start()
	defer monitor.Stop()

	assert.Nil(t, monitor.ticker)
}

func TestAlertMonitor_SnapshotPendingUntilFirstCheck(t *testing.T) {
	h, router := newTestServer(t)
	loadScenario(t, router, "absenteeism")
	monitor := NewAlertMonitor(h.Dashboards, nil)

	// GIVEN a monitor that has not checked yet
	assert.Equal(t, generic.StatusPending, monitor.Snapshot().Status)

	// WHEN it checks
	monitor.RunOnce(context.Background())

	// THEN the snapshot lists every active alert grouped by dashboard
	snap := monitor.Snapshot()
	require.True(t, snap.OK())
	var rules []string
	for _, f := range snap.Value {
		rules = append(rules, f.Dashboard+"/"+f.Alert.Rule)
	}
	assert.Equal(t, []string{
		"attendance/high_absenteeism",
		"attendance/high_lateness",
		"leave/pending_backlog",
	}, rules)
}

func TestAlertMonitor_SnapshotDisabled(t *testing.T) {
	h, _ := newTestServer(t)
	monitor := NewAlertMonitor(h.Dashboards, nil)
	monitor.Enabled = false

	snap := monitor.Snapshot()
	assert.Equal(t, generic.StatusError, snap.Status)
	assert.Contains(t, snap.Message, "disabled")
}

func TestAlertMonitor_SnapshotKeepsDeclarationOrder(t *testing.T) {
	h, _ := newTestServer(t)
	monitor := NewAlertMonitor(h.Dashboards, nil)

	// GIVEN alerts raised out of alphabetical order on both dashboards
	monitor.recordFetch(analytics.DashboardLeave, nil)
	monitor.evaluate(analytics.DashboardLeave, []analytics.Alert{{Rule: "pending_backlog"}})
	monitor.recordFetch(analytics.DashboardAttendance, nil)
	monitor.evaluate(analytics.DashboardAttendance, []analytics.Alert{
		{Rule: "high_lateness"},
		{Rule: "good_attendance"},
	})
	monitor.checked = true

	// WHEN the snapshot is taken
	snap := monitor.Snapshot()
	require.True(t, snap.OK())

	// THEN dashboards follow report order and rules keep evaluation order
	var rules []string
	for _, f := range snap.Value {
		rules = append(rules, f.Dashboard+"/"+f.Alert.Rule)
	}
	assert.Equal(t, []string{
		"attendance/high_lateness",
		"attendance/good_attendance",
		"leave/pending_backlog",
	}, rules)
	assert.Equal(t, []string{"high_lateness", "good_attendance"}, monitor.Active(analytics.DashboardAttendance))
}

// downRecords fails every attendance and leave fetch.
type downRecords struct {
	*store.Memory
}

func (downRecords) ListAttendance(context.Context, generic.RecordFilter) ([]generic.AttendanceRecord, error) {
	return nil, errors.New("db down")
}

func (downRecords) ListLeaveRequests(context.Context, generic.RecordFilter) ([]generic.LeaveRequest, error) {
	return nil, errors.New("db down")
}

func TestAlertMonitor_SnapshotFailsWhenFetchFails(t *testing.T) {
	// GIVEN a record source that cannot be read
	h := NewHandler(downRecords{store.NewMemory()}, compensation.NewMemoryJobs(), testConfig(), metrics.New(nil), nil)
	monitor := NewAlertMonitor(h.Dashboards, nil)

	// WHEN the monitor checks
	assert.Empty(t, monitor.RunOnce(context.Background()))

	// THEN the snapshot reports the fetch failure instead of an empty list
	snap := monitor.Snapshot()
	assert.Equal(t, generic.StatusError, snap.Status)
	assert.Contains(t, snap.Message, "db down")
	assert.Empty(t, snap.Value)

	// AND the alerts endpoint serves the same error
	h.Monitor = monitor
	router := NewRouter(h, RouterOptions{})
	rec := do(t, router, http.MethodGet, "/api/alerts", "")
	res := decode[generic.OperationResult[[]FiredAlert]](t, rec)
	assert.Equal(t, generic.StatusError, res.Status)
	assert.Contains(t, res.Message, "db down")
}

func TestListAlerts(t *testing.T) {
	h, router := newTestServer(t)

	// Without a monitor the endpoint is not available
	rec := do(t, router, http.MethodGet, "/api/alerts", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// WHEN a monitor is attached and has checked
	loadScenario(t, router, "absenteeism")
	h.Monitor = NewAlertMonitor(h.Dashboards, nil)
	h.Monitor.RunOnce(context.Background())

	// THEN the active alerts are served
	rec = do(t, router, http.MethodGet, "/api/alerts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[generic.OperationResult[[]FiredAlert]](t, rec)
	assert.Equal(t, generic.StatusSuccess, res.Status)
	assert.Len(t, res.Value, 3)
}
