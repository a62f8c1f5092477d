package analytics

// =============================================================================
// ALERTS - Declarative threshold rules
// =============================================================================

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeveritySuccess  Severity = "success"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Alert is a fired rule, ready to show.
type Alert struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// AlertRule fires when When(stats) is true.
type AlertRule[S any] struct {
	Name     string
	Severity Severity
	When     func(S) bool
	Message  func(S) string
}

// EvaluateAlerts runs every rule in declaration order and returns one alert
// per matching rule. The result is never nil.
func EvaluateAlerts[S any](stats S, rules []AlertRule[S]) []Alert {
	alerts := []Alert{}
	for _, rule := range rules {
		if rule.When == nil || !rule.When(stats) {
			continue
		}
		msg := rule.Name
		if rule.Message != nil {
			msg = rule.Message(stats)
		}
		alerts = append(alerts, Alert{Rule: rule.Name, Severity: rule.Severity, Message: msg})
	}
	return alerts
}
