package factory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/workforce-engine/analytics"
	"github.com/warp/workforce-engine/compensation"
	"github.com/warp/workforce-engine/generic"
)

func TestParseJob_AbsentVersusZero(t *testing.T) {
	f := NewJobFactory()

	// GIVEN a job with a zero target and no penalty rate
	job, err := f.ParseJob(`{"id": "job-1", "name": " Sewing ", "rate_per_hour": 100,
		"expected_hours": 0, "penalty_rate": null}`)
	require.NoError(t, err)

	// THEN zero is kept as a real value and missing/null stay absent
	assert.Equal(t, "Sewing", job.Name)
	require.True(t, job.ExpectedHours.Valid)
	assert.True(t, job.ExpectedHours.Decimal.IsZero())
	assert.False(t, job.PenaltyRate.Valid)
	assert.False(t, job.RatePerItem.Valid)
	assert.False(t, job.IncentiveBonusRate.Valid)
	assert.Equal(t, compensation.IncentivePerUnit, job.IncentiveType)

	mode, ok := job.Mode()
	assert.True(t, ok)
	assert.Equal(t, compensation.ModeTime, mode)
}

func TestParseJob_Invalid(t *testing.T) {
	tests := []struct {
		name string
		json string
		code string
	}{
		{"both rates", `{"id": "j", "rate_per_hour": 1, "rate_per_item": 1}`, generic.CodeInvalidRatePlan},
		{"no rate", `{"id": "j"}`, generic.CodeInvalidRatePlan},
		{"missing id", `{"rate_per_hour": 1}`, generic.CodeInvalidField},
		{"negative target", `{"id": "j", "rate_per_hour": 1, "expected_hours": -2}`, generic.CodeInvalidField},
		{"unknown incentive type", `{"id": "j", "rate_per_hour": 1, "incentive_type": "stock"}`, generic.CodeInvalidField},
	}

	f := NewJobFactory()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ParseJob(tt.json)
			require.Error(t, err)
			var ve *generic.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.code, ve.Code)
			assert.True(t, generic.IsClientError(err))
		})
	}
}

func TestParseJob_MalformedJSON(t *testing.T) {
	_, err := NewJobFactory().ParseJob(`{"id": `)
	assert.Error(t, err)
}

func TestParseJob_IncentiveTypeAliases(t *testing.T) {
	f := NewJobFactory()
	for raw, want := range map[string]compensation.IncentiveType{
		"":           compensation.IncentivePerUnit,
		"per-unit":   compensation.IncentivePerUnit,
		"Percentage": compensation.IncentivePercentage,
		"percent":    compensation.IncentivePercentage,
	} {
		job, err := f.ParseJob(`{"id": "j", "rate_per_item": 2, "incentive_type": "` + raw + `"}`)
		require.NoError(t, err, raw)
		assert.Equal(t, want, job.IncentiveType, raw)
	}
}

func TestToJSON_RoundTrip(t *testing.T) {
	f := NewJobFactory()
	job, err := f.ParseJob(`{"id": "j", "name": "Packing", "rate_per_item": 2, "expected_items_per_hour": 50,
		"incentive_bonus_rate": 10, "incentive_type": "percentage"}`)
	require.NoError(t, err)

	back, err := f.FromJSON(f.ToJSON(*job))
	require.NoError(t, err)
	assert.Equal(t, *job, back)
}

func TestParseObservation(t *testing.T) {
	f := NewJobFactory()

	obs, err := f.ParseObservation(`{"worker_id": "w-1", "job_id": "j", "date": "2025-03-10",
		"items_completed": 40, "is_post_lunch": true}`)
	require.NoError(t, err)

	assert.Equal(t, generic.WorkerID("w-1"), obs.WorkerID)
	assert.Equal(t, "2025-03-10", obs.Date.String())
	assert.True(t, obs.IsPostLunch)
	items, ok := obs.Outcome.(compensation.UnitBased)
	require.True(t, ok)
	assert.Equal(t, "40", items.ItemsCompleted.String())
}

func TestParseObservation_Invalid(t *testing.T) {
	tests := []struct {
		name string
		json string
		code string
	}{
		{"both quantities", `{"worker_id": "w", "job_id": "j", "date": "2025-03-10", "hours_taken": 1, "items_completed": 1}`, generic.CodeAmbiguousMode},
		{"no quantity", `{"worker_id": "w", "job_id": "j", "date": "2025-03-10"}`, generic.CodeAmbiguousMode},
		{"bad date", `{"worker_id": "w", "job_id": "j", "date": "2025-13-40", "hours_taken": 1}`, generic.CodeInvalidField},
		{"no job", `{"worker_id": "w", "date": "2025-03-10", "hours_taken": 1}`, generic.CodeInvalidField},
	}

	f := NewJobFactory()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ParseObservation(tt.json)
			var ve *generic.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.code, ve.Code)
		})
	}
}

// =============================================================================
// WEIGHTS
// =============================================================================

func TestParseScoreWeights(t *testing.T) {
	w, err := ParseScoreWeights(`{"name": "custom", "components": [
		{"metric": "attendance_rate", "weight": 0.5},
		{"metric": "late_rate", "weight": 0.5, "invert": true}]}`)
	require.NoError(t, err)
	assert.Len(t, w.Components, 2)
	assert.True(t, w.Components[1].Invert)

	_, err = ParseScoreWeights(`{"name": "empty", "components": []}`)
	assert.Error(t, err)
	_, err = ParseScoreWeights(`{"name": "neg", "components": [{"metric": "x", "weight": -1}]}`)
	assert.Error(t, err)
}

func TestApplyWeightsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"productivity": {"components": [{"metric": "earnings", "weight": 1}]}
	}`), 0o644))

	cfg := analytics.DefaultConfig()
	require.NoError(t, ApplyWeightsFile(&cfg, path))

	// Only the productivity weights are replaced, keeping their dashboard name
	assert.Equal(t, analytics.ProductivityScoreWeights.Name, cfg.ProductivityWeights.Name)
	assert.Len(t, cfg.ProductivityWeights.Components, 1)
	assert.Equal(t, analytics.AttendanceScoreWeights, cfg.AttendanceWeights)

	assert.NoError(t, ApplyWeightsFile(&cfg, ""))
	assert.Error(t, ApplyWeightsFile(&cfg, filepath.Join(t.TempDir(), "missing.json")))
}
