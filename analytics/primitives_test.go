package analytics_test

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/workforce-engine/analytics"
	"github.com/warp/workforce-engine/generic"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var march10 = generic.NewTimePoint(2025, time.March, 10)

func testConfig() analytics.Config {
	cfg := analytics.DefaultConfig()
	cfg.Clock = generic.NewFakeClock(time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC))
	return cfg
}

func att(worker, name, date string, status generic.AttendanceStatus) generic.AttendanceRecord {
	return generic.AttendanceRecord{
		WorkerID:   generic.WorkerID(worker),
		WorkerName: name,
		Date:       date,
		Status:     status,
	}
}

func statusTrendConfig() analytics.TrendConfig[generic.AttendanceRecord] {
	return analytics.TrendConfig[generic.AttendanceRecord]{
		Window:   generic.Last7Days,
		Now:      march10,
		Date:     func(r generic.AttendanceRecord) string { return r.Date },
		Category: func(r generic.AttendanceRecord) string { return string(r.Status) },
		Categories: []string{
			string(generic.AttendancePresent), string(generic.AttendanceAbsent),
			string(generic.AttendanceLate), string(generic.AttendanceOnLeave),
		},
	}
}

// =============================================================================
// TREND
// =============================================================================

func TestTrend_AlwaysReturnsWindowSize(t *testing.T) {
	tests := []struct {
		name    string
		records []generic.AttendanceRecord
	}{
		{"no records", nil},
		{"single day", []generic.AttendanceRecord{att("w1", "Ann", "2025-03-08", generic.AttendancePresent)}},
		{"all outside window", []generic.AttendanceRecord{
			att("w1", "Ann", "2025-01-01", generic.AttendancePresent),
			att("w1", "Ann", "2025-03-11", generic.AttendancePresent),
		}},
		{"malformed dates", []generic.AttendanceRecord{
			att("w1", "Ann", "", generic.AttendancePresent),
			att("w1", "Ann", "yesterday", generic.AttendanceLate),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points := analytics.Trend(tt.records, statusTrendConfig())

			require.Len(t, points, 7)
			assert.Equal(t, "2025-03-04", points[0].Key)
			assert.Equal(t, "2025-03-10", points[6].Key)
			for i := 1; i < len(points); i++ {
				assert.Less(t, points[i-1].Key, points[i].Key, "buckets must be chronological")
			}
		})
	}
}

func TestTrend_CountsByCategoryWithZeroFill(t *testing.T) {
	// GIVEN: Records on two days in the window plus one malformed
	records := []generic.AttendanceRecord{
		att("w1", "Ann", "2025-03-10", generic.AttendancePresent),
		att("w2", "Bob", "2025-03-10T08:05:00Z", generic.AttendanceLate),
		att("w3", "Cid", "2025-03-09", generic.AttendanceAbsent),
		att("w4", "Dee", "not a date", generic.AttendancePresent),
	}

	// WHEN
	points := analytics.Trend(records, statusTrendConfig())

	// THEN: Today has 2, yesterday 1, the malformed record is dropped
	today := points[6]
	assert.Equal(t, 2, today.Count)
	assert.Equal(t, 1, today.Counts["Present"])
	assert.Equal(t, 1, today.Counts["Late"])
	assert.Equal(t, 0, today.Counts["OnLeave"])
	assert.Contains(t, today.Counts, "OnLeave", "declared categories are always present")

	assert.Equal(t, 1, points[5].Counts["Absent"])
	assert.Equal(t, 0, points[0].Count)
	assert.Len(t, points[0].Counts, 4)
}

func TestTrend_SumsValues(t *testing.T) {
	type row struct {
		date   string
		amount string
	}
	records := []row{{"2025-03-10", "100.50"}, {"2025-03-10", "0.25"}, {"2025-02-01", "999"}}

	points := analytics.Trend(records, analytics.TrendConfig[row]{
		Window: generic.Last6Months,
		Now:    march10,
		Date:   func(r row) string { return r.date },
		Value:  func(r row) decimal.Decimal { return decimal.RequireFromString(r.amount) },
	})

	require.Len(t, points, 6)
	assert.Equal(t, "2024-10", points[0].Key)
	assert.Equal(t, "2025-03", points[5].Key)
	assert.Equal(t, 100.75, points[5].Sum)
	assert.Equal(t, 999.0, points[4].Sum)
	assert.Nil(t, points[5].Counts)
}

// =============================================================================
// DISTRIBUTION
// =============================================================================

func TestDistribute_StatusesOmitZeroCategories(t *testing.T) {
	// GIVEN: [Present, Present, Absent, Late]
	records := []generic.AttendanceRecord{
		att("w1", "Ann", "2025-03-10", generic.AttendancePresent),
		att("w2", "Bob", "2025-03-10", generic.AttendancePresent),
		att("w3", "Cid", "2025-03-10", generic.AttendanceAbsent),
		att("w4", "Dee", "2025-03-10", generic.AttendanceLate),
	}

	// WHEN
	slices := analytics.Distribute(records, analytics.DistributionConfig[generic.AttendanceRecord]{
		Label: func(r generic.AttendanceRecord) string { return string(r.Status) },
	})

	// THEN: Present:2, Absent:1, Late:1, no OnLeave slice
	require.Len(t, slices, 3)
	assert.Equal(t, "Present", slices[0].Label)
	assert.Equal(t, 2, slices[0].Count)
	assert.Equal(t, "Absent", slices[1].Label)
	assert.Equal(t, 1, slices[1].Count)
	assert.Equal(t, "Late", slices[2].Label)
	assert.Equal(t, 1, slices[2].Count)

	// AND: The trend over the same records still carries OnLeave as 0
	points := analytics.Trend(records, statusTrendConfig())
	assert.Equal(t, 0, points[6].Counts["OnLeave"])
	assert.Equal(t, 2, points[6].Counts["Present"])
}

func TestDistribute_StableTopK(t *testing.T) {
	labels := []string{"C", "A", "B", "A", "D", "E", ""}

	slices := analytics.Distribute(labels, analytics.DistributionConfig[string]{
		Label: func(s string) string { return s },
		Limit: 4,
	})

	require.Len(t, slices, 4)
	assert.Equal(t, "A", slices[0].Label)
	// ties keep first-encountered order
	assert.Equal(t, "C", slices[1].Label)
	assert.Equal(t, "B", slices[2].Label)
	assert.Equal(t, "D", slices[3].Label)
}

func TestDistribute_BySumDropsZeroGroups(t *testing.T) {
	type row struct {
		label string
		days  float64
	}
	rows := []row{{"Sick", 2}, {"Casual", 0}, {"", 1.5}, {"Sick", 1}}

	slices := analytics.Distribute(rows, analytics.DistributionConfig[row]{
		Label: func(r row) string { return r.label },
		Value: func(r row) decimal.Decimal { return decimal.NewFromFloat(r.days) },
		By:    analytics.BySum,
	})

	require.Len(t, slices, 2)
	assert.Equal(t, "Sick", slices[0].Label)
	assert.Equal(t, 3.0, slices[0].Value)
	assert.Equal(t, generic.UnknownLabel, slices[1].Label, "missing labels fall back to Unknown")
}

// =============================================================================
// RANK
// =============================================================================

type sale struct {
	who    string
	amount float64
}

func rankSales(rows []sale, limit int) []analytics.Ranked[float64] {
	return analytics.Rank(rows, analytics.RankConfig[sale, float64]{
		Key: func(s sale) string { return s.who },
		Reduce: func(g []sale) float64 {
			total := 0.0
			for _, s := range g {
				total += s.amount
			}
			return total
		},
		Metric: func(v float64) float64 { return v },
		Limit:  limit,
	})
}

func TestRank_TopNSortedAndStable(t *testing.T) {
	rows := []sale{{"ann", 10}, {"bob", 30}, {"cid", 10}, {"dee", 5}, {"ann", 20}, {"eve", 30}}

	ranked := rankSales(rows, 3)

	require.Len(t, ranked, 3)
	assert.Equal(t, []string{"ann", "bob", "eve"}, []string{ranked[0].Key, ranked[1].Key, ranked[2].Key})
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Value, ranked[i].Value)
	}
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 3, ranked[2].Rank)
}

func TestRank_NeverExceedsLimit(t *testing.T) {
	rows := []sale{{"a", 1}, {"b", 2}}

	assert.Len(t, rankSales(rows, 5), 2)
	assert.Len(t, rankSales(rows, 1), 1)
	assert.Len(t, rankSales(rows, 0), 2, "zero limit means unlimited")
	assert.Empty(t, rankSales(nil, 5))
}

func TestRank_ZeroDenominatorRateIsZero(t *testing.T) {
	// GIVEN: A worker whose only record has no attendance days counted
	ranked := analytics.Rank([]string{"w1"}, analytics.RankConfig[string, float64]{
		Key:    func(s string) string { return s },
		Reduce: func(g []string) float64 { return analytics.Percent(0, 0) },
		Metric: func(v float64) float64 { return v },
	})

	require.Len(t, ranked, 1)
	assert.Equal(t, 0.0, ranked[0].Value)
}

// =============================================================================
// RATES
// =============================================================================

func TestRate_ZeroDenominator(t *testing.T) {
	assert.Equal(t, 0.0, analytics.Rate(5, 0))
	assert.Equal(t, 0.0, analytics.Percent(5, 0))
	assert.Equal(t, 0.0, analytics.Percent(0, 0))
	assert.Equal(t, 0.0, analytics.PercentOf(3, 0))
	assert.Equal(t, 0.0, analytics.DecimalRate(decimal.NewFromInt(3), decimal.Zero))
	assert.Equal(t, 0.0, analytics.ChangePercent(10, 0))
	assert.Equal(t, 0.0, analytics.Rate(math.Inf(1), 1))
	assert.Equal(t, 0.0, analytics.Rate(math.NaN(), 1))
}

func TestRate_Values(t *testing.T) {
	assert.Equal(t, 0.5, analytics.Rate(1, 2))
	assert.Equal(t, 25.0, analytics.Percent(1, 4))
	assert.Equal(t, 33.33, analytics.PercentOf(1, 3))
	assert.Equal(t, -50.0, analytics.ChangePercent(5, 10))
	assert.Equal(t, 100.0, analytics.ChangePercent(20, 10))
}

// =============================================================================
// SCORE
// =============================================================================

func TestScore_MaxFavorableClampsAt100(t *testing.T) {
	metrics := map[string]float64{
		analytics.MetricAttendanceRate:   250,
		analytics.MetricLeaveUtilization: -40,
		analytics.MetricLateRate:         -10,
	}

	score := analytics.Score(analytics.AttendanceScoreWeights, metrics)

	assert.Equal(t, 100.0, score)
}

func TestScore_OverweightedStillClamped(t *testing.T) {
	heavy := analytics.ScoreWeights{Name: "heavy", Components: []analytics.ScoreComponent{
		{Metric: "a", Weight: 1},
		{Metric: "b", Weight: 1},
	}}

	assert.Equal(t, 100.0, analytics.Score(heavy, map[string]float64{"a": 100, "b": 100}))
	assert.Equal(t, 0.0, analytics.Score(heavy, map[string]float64{}))
}

func TestScore_Weighted(t *testing.T) {
	// 0.6*80 + 0.2*(100-50) + 0.2*(100-10) = 48 + 10 + 18
	score := analytics.Score(analytics.AttendanceScoreWeights, map[string]float64{
		analytics.MetricAttendanceRate:   80,
		analytics.MetricLeaveUtilization: 50,
		analytics.MetricLateRate:         10,
	})
	assert.InDelta(t, 76.0, score, 0.001)

	// 0.4*100 + 0.3*50 + 0.3*0
	prod := analytics.Score(analytics.ProductivityScoreWeights, map[string]float64{
		analytics.MetricHourlyRate:   100,
		analytics.MetricJobFrequency: 50,
	})
	assert.InDelta(t, 55.0, prod, 0.001)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, 50.0, analytics.Normalize(5, 10))
	assert.Equal(t, 0.0, analytics.Normalize(5, 0))
	assert.Equal(t, 100.0, analytics.Normalize(12, 10))
}

// =============================================================================
// ALERTS
// =============================================================================

func TestEvaluateAlerts_AllMatchingRulesFireInOrder(t *testing.T) {
	rules := []analytics.AlertRule[int]{
		{Name: "positive", Severity: analytics.SeverityInfo, When: func(n int) bool { return n > 0 }},
		{Name: "big", Severity: analytics.SeverityWarning, When: func(n int) bool { return n > 100 }},
		{Name: "even", Severity: analytics.SeveritySuccess, When: func(n int) bool { return n%2 == 0 },
			Message: func(n int) string { return "even number" }},
	}

	alerts := analytics.EvaluateAlerts(42, rules)

	require.Len(t, alerts, 2)
	assert.Equal(t, "positive", alerts[0].Rule)
	assert.Equal(t, "positive", alerts[0].Message, "rule name is the default message")
	assert.Equal(t, analytics.SeveritySuccess, alerts[1].Severity)
	assert.Equal(t, "even number", alerts[1].Message)
}

func TestEvaluateAlerts_NoneMatch(t *testing.T) {
	alerts := analytics.EvaluateAlerts(0, []analytics.AlertRule[int]{
		{Name: "positive", When: func(n int) bool { return n > 0 }},
	})

	assert.NotNil(t, alerts)
	assert.Empty(t, alerts)
}
