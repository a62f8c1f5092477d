package factory

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/warp/workforce-engine/analytics"
)

// =============================================================================
// SCORE WEIGHTS
// =============================================================================

// WeightsFileJSON holds per-dashboard weight overrides:
//
//	{
//	  "attendance":   {"components": [{"metric": "attendance_rate", "weight": 0.7}, ...]},
//	  "productivity": {"components": [...]}
//	}
type WeightsFileJSON struct {
	Attendance   *analytics.ScoreWeights `json:"attendance,omitempty"`
	Productivity *analytics.ScoreWeights `json:"productivity,omitempty"`
}

// ParseScoreWeights parses and validates one weight set.
func ParseScoreWeights(jsonStr string) (analytics.ScoreWeights, error) {
	var w analytics.ScoreWeights
	if err := json.Unmarshal([]byte(jsonStr), &w); err != nil {
		return analytics.ScoreWeights{}, fmt.Errorf("failed to parse score weights JSON: %w", err)
	}
	if err := validateWeights(w); err != nil {
		return analytics.ScoreWeights{}, err
	}
	return w, nil
}

// ApplyWeightsFile overrides cfg's weights with those in path. An empty path
// is a no-op.
func ApplyWeightsFile(cfg *analytics.Config, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read weights file: %w", err)
	}
	var wf WeightsFileJSON
	if err := json.Unmarshal(data, &wf); err != nil {
		return fmt.Errorf("failed to parse weights file %s: %w", path, err)
	}
	if wf.Attendance != nil {
		if err := validateWeights(*wf.Attendance); err != nil {
			return fmt.Errorf("attendance weights: %w", err)
		}
		cfg.AttendanceWeights = withName(*wf.Attendance, analytics.AttendanceScoreWeights.Name)
	}
	if wf.Productivity != nil {
		if err := validateWeights(*wf.Productivity); err != nil {
			return fmt.Errorf("productivity weights: %w", err)
		}
		cfg.ProductivityWeights = withName(*wf.Productivity, analytics.ProductivityScoreWeights.Name)
	}
	return nil
}

func validateWeights(w analytics.ScoreWeights) error {
	if len(w.Components) == 0 {
		return fmt.Errorf("score weights %q have no components", w.Name)
	}
	for _, c := range w.Components {
		if c.Metric == "" {
			return fmt.Errorf("score weights %q: component without metric", w.Name)
		}
		if c.Weight < 0 {
			return fmt.Errorf("score weights %q: negative weight for %s", w.Name, c.Metric)
		}
	}
	return nil
}

func withName(w analytics.ScoreWeights, name string) analytics.ScoreWeights {
	if w.Name == "" {
		w.Name = name
	}
	return w
}
