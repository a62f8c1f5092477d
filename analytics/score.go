package analytics

// =============================================================================
// COMPOSITE SCORE
// =============================================================================

// Sub-metric names used by the score presets.
const (
	MetricAttendanceRate   = "attendance_rate"
	MetricLeaveUtilization = "leave_utilization"
	MetricLateRate         = "late_rate"
	MetricHourlyRate       = "hourly_rate"
	MetricJobFrequency     = "job_frequency"
	MetricEarnings         = "earnings"
)

// ScoreComponent weights one sub-metric. Inverted components score
// 100 - value, so lower raw values are better.
type ScoreComponent struct {
	Metric string  `json:"metric"`
	Weight float64 `json:"weight"`
	Invert bool    `json:"invert,omitempty"`
}

// ScoreWeights is the named set of weights for one dashboard context.
// Weights need not sum to 1; the final score is clamped either way.
type ScoreWeights struct {
	Name       string           `json:"name"`
	Components []ScoreComponent `json:"components"`
}

// AttendanceScoreWeights: 60% attendance, 20% inverse leave use, 20% punctuality.
var AttendanceScoreWeights = ScoreWeights{
	Name: "attendance",
	Components: []ScoreComponent{
		{Metric: MetricAttendanceRate, Weight: 0.6},
		{Metric: MetricLeaveUtilization, Weight: 0.2, Invert: true},
		{Metric: MetricLateRate, Weight: 0.2, Invert: true},
	},
}

// ProductivityScoreWeights: 40% hourly earnings, 30% job frequency, 30% total earnings.
// Each sub-metric is expected pre-normalized to 0..100 against the team.
var ProductivityScoreWeights = ScoreWeights{
	Name: "productivity",
	Components: []ScoreComponent{
		{Metric: MetricHourlyRate, Weight: 0.4},
		{Metric: MetricJobFrequency, Weight: 0.3},
		{Metric: MetricEarnings, Weight: 0.3},
	},
}

// Score combines sub-metrics (each on a 0..100 scale) into a score in [0, 100].
// Each sub-metric is clamped to [0, 100] before weighting; a missing
// sub-metric counts as 0.
func Score(weights ScoreWeights, metrics map[string]float64) float64 {
	total := 0.0
	for _, c := range weights.Components {
		v := clamp(metrics[c.Metric], 0, 100)
		if c.Invert {
			v = 100 - v
		}
		total += v * finite(c.Weight)
	}
	return round2(clamp(total, 0, 100))
}

// Normalize scales v against the best value in the team to 0..100.
// A non-positive best yields 0.
func Normalize(v, best float64) float64 {
	if best <= 0 {
		return 0
	}
	return clamp(v/best*100, 0, 100)
}
