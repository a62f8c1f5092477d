/*
monitor.go - Periodic dashboard alert monitor

PURPOSE:
  Rebuilds the attendance and leave dashboards on a ticker and reports
  threshold alerts that became active since the previous check.

DESIGN:
  - Runs a background goroutine with a configurable check interval
  - Evaluates alerts through the same DashboardService the API uses
  - An alert is reported once when it fires and again only after it has
    cleared and fired anew
  - Fired alerts are logged with zap and counted in prometheus
  - Snapshot exposes the active set as an OperationResult, pending until
    the first check has run and failed while any dashboard has never loaded

CONFIGURATION:
  - CheckInterval: How often to check (default: 15 minutes)
  - Enabled: Whether the monitor is active (default: true)

USAGE:
  monitor := NewAlertMonitor(dashboards, logger)
  monitor.Start()
  // ... later
  monitor.Stop()

SEE ALSO:
  - dashboards.go: DashboardService
  - analytics/alert.go: Alert rules
*/
package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/warp/workforce-engine/analytics"
	"github.com/warp/workforce-engine/generic"
	"go.uber.org/zap"
)

// FiredAlert is an alert together with the dashboard that raised it.
type FiredAlert struct {
	Dashboard string          `json:"dashboard"`
	Alert     analytics.Alert `json:"alert"`
}

// AlertMonitor periodically evaluates dashboard alerts.
type AlertMonitor struct {
	Dashboards    *DashboardService
	Logger        *zap.Logger
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex

	// active holds the alerts currently firing per dashboard, in rule
	// declaration order.
	activeMu sync.Mutex
	active   map[string][]analytics.Alert
	loaded   map[string]bool
	lastErr  map[string]error
	checked  bool
}

// monitoredDashboards are the dashboards RunOnce evaluates, in report order.
var monitoredDashboards = []string{analytics.DashboardAttendance, analytics.DashboardLeave}

// NewAlertMonitor creates a new monitor.
func NewAlertMonitor(dashboards *DashboardService, logger *zap.Logger) *AlertMonitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlertMonitor{
		Dashboards:    dashboards,
		Logger:        logger.Named("monitor"),
		CheckInterval: 15 * time.Minute,
		Enabled:       true,
		active:        make(map[string][]analytics.Alert),
		loaded:        make(map[string]bool),
		lastErr:       make(map[string]error),
	}
}

// Start begins the monitor.
func (m *AlertMonitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.Enabled || m.CheckInterval <= 0 {
		m.Logger.Info("alert monitor disabled")
		return
	}
	if m.ticker != nil {
		return
	}

	m.ticker = time.NewTicker(m.CheckInterval)
	m.stop = make(chan struct{})
	m.wg.Add(1)

	go m.run(m.ticker, m.stop)

	m.Logger.Info("alert monitor started", zap.Duration("interval", m.CheckInterval))
}

// Stop stops the monitor and waits for an in-flight check to finish.
func (m *AlertMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ticker != nil {
		m.ticker.Stop()
		close(m.stop)
		m.wg.Wait()
		m.ticker = nil
		m.Logger.Info("alert monitor stopped")
	}
}

func (m *AlertMonitor) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer m.wg.Done()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-stop
		cancel()
	}()

	// Run immediately on start
	m.RunOnce(ctx)

	for {
		select {
		case <-ticker.C:
			m.RunOnce(ctx)
		case <-stop:
			return
		}
	}
}

// RunOnce evaluates every monitored dashboard and returns the alerts that
// became active in this check. A dashboard whose fetch fails keeps its
// previous alert state.
func (m *AlertMonitor) RunOnce(ctx context.Context) []FiredAlert {
	fired := []FiredAlert{}

	attendance, err := m.Dashboards.Attendance(ctx, generic.RecordFilter{})
	m.recordFetch(analytics.DashboardAttendance, err)
	if err == nil {
		fired = append(fired, m.evaluate(analytics.DashboardAttendance, attendance.Alerts)...)
	}

	leave, err := m.Dashboards.Leave(ctx, generic.RecordFilter{})
	m.recordFetch(analytics.DashboardLeave, err)
	if err == nil {
		fired = append(fired, m.evaluate(analytics.DashboardLeave, leave.Alerts)...)
	}

	m.activeMu.Lock()
	m.checked = true
	m.activeMu.Unlock()
	return fired
}

func (m *AlertMonitor) recordFetch(dashboard string, err error) {
	m.activeMu.Lock()
	defer m.activeMu.Unlock()

	if err != nil {
		m.Logger.Warn("dashboard unavailable", zap.String("dashboard", dashboard), zap.Error(err))
		m.lastErr[dashboard] = err
		return
	}
	m.loaded[dashboard] = true
	delete(m.lastErr, dashboard)
}

// evaluate replaces the dashboard's active set and reports the new alerts.
func (m *AlertMonitor) evaluate(dashboard string, alerts []analytics.Alert) []FiredAlert {
	m.activeMu.Lock()
	defer m.activeMu.Unlock()

	previous := make(map[string]bool, len(m.active[dashboard]))
	for _, a := range m.active[dashboard] {
		previous[a.Rule] = true
	}

	var fired []FiredAlert
	var newAlerts []analytics.Alert
	for _, a := range alerts {
		if previous[a.Rule] {
			continue
		}
		newAlerts = append(newAlerts, a)
		fired = append(fired, FiredAlert{Dashboard: dashboard, Alert: a})
		m.Logger.Info("alert fired",
			zap.String("dashboard", dashboard),
			zap.String("rule", a.Rule),
			zap.String("severity", string(a.Severity)),
			zap.String("message", a.Message),
		)
	}
	m.active[dashboard] = append([]analytics.Alert(nil), alerts...)
	m.Dashboards.Metrics.ObserveAlerts(dashboard, newAlerts)
	return fired
}

// Active returns the rules currently firing for a dashboard.
func (m *AlertMonitor) Active(dashboard string) []string {
	m.activeMu.Lock()
	defer m.activeMu.Unlock()

	var rules []string
	for _, a := range m.active[dashboard] {
		rules = append(rules, a.Rule)
	}
	return rules
}

// Snapshot returns every active alert grouped by dashboard, each group in
// rule declaration order. It is pending until the first check completes and
// fails while a monitored dashboard has never loaded.
func (m *AlertMonitor) Snapshot() generic.OperationResult[[]FiredAlert] {
	m.activeMu.Lock()
	defer m.activeMu.Unlock()

	if !m.checked {
		if !m.Enabled || m.CheckInterval <= 0 {
			return generic.Failed[[]FiredAlert]("alert monitor is disabled")
		}
		return generic.Pending[[]FiredAlert]()
	}

	for _, dashboard := range monitoredDashboards {
		if !m.loaded[dashboard] {
			return generic.Failed[[]FiredAlert](fmt.Sprintf("Failed to load %s alerts: %v", dashboard, m.lastErr[dashboard]))
		}
	}

	alerts := []FiredAlert{}
	for _, dashboard := range monitoredDashboards {
		for _, a := range m.active[dashboard] {
			alerts = append(alerts, FiredAlert{Dashboard: dashboard, Alert: a})
		}
	}
	return generic.Succeeded(alerts)
}
