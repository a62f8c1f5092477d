// Package metrics holds the prometheus instruments for the workforce engine.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/warp/workforce-engine/analytics"
	"github.com/warp/workforce-engine/compensation"
	"github.com/warp/workforce-engine/generic"
)

const namespace = "workforce"

// Metrics counts engine activity at the boundary.
type Metrics struct {
	computations       *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	dashboardBuilds    *prometheus.CounterVec
	alertsFired        *prometheus.CounterVec
}

// New registers the instruments with registerer. A nil registerer uses a
// private registry so tests can build as many as they like.
func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}

	m := &Metrics{
		computations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compensation_computations_total",
			Help:      "Compensation computations by rate mode.",
		}, []string{"mode"}),
		validationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Rejected inputs by validation code.",
		}, []string{"code"}),
		dashboardBuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dashboard_builds_total",
			Help:      "Dashboard builds by name and outcome.",
		}, []string{"dashboard", "status"}),
		alertsFired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_fired_total",
			Help:      "Threshold alerts fired by dashboard and severity.",
		}, []string{"dashboard", "severity"}),
	}
	registerer.MustRegister(m.computations, m.validationFailures, m.dashboardBuilds, m.alertsFired)
	return m
}

// ObserveComputation counts one successful computation.
func (m *Metrics) ObserveComputation(mode compensation.Mode) {
	if m == nil {
		return
	}
	m.computations.WithLabelValues(string(mode)).Inc()
}

// ObserveError counts err when it is a validation failure. Other errors are ignored.
func (m *Metrics) ObserveError(err error) {
	if m == nil || err == nil {
		return
	}
	var ve *generic.ValidationError
	if errors.As(err, &ve) {
		m.validationFailures.WithLabelValues(ve.Code).Inc()
	}
}

// ObserveDashboard counts one dashboard build.
func (m *Metrics) ObserveDashboard(name string, status generic.OperationStatus) {
	if m == nil {
		return
	}
	m.dashboardBuilds.WithLabelValues(name, string(status)).Inc()
}

// ObserveAlerts counts each fired alert.
func (m *Metrics) ObserveAlerts(dashboard string, alerts []analytics.Alert) {
	if m == nil {
		return
	}
	for _, a := range alerts {
		m.alertsFired.WithLabelValues(dashboard, string(a.Severity)).Inc()
	}
}
