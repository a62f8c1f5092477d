package analytics

import (
	"sort"

	"github.com/warp/workforce-engine/generic"
)

// =============================================================================
// RANK - Top-N by a per-entity metric
// =============================================================================

// RankConfig groups records by Key, reduces each group to V, and ranks by
// Metric(V).
type RankConfig[R, V any] struct {
	Key    func(R) string
	Label  func(R) string
	Reduce func(group []R) V
	Metric func(V) float64
	// Limit truncates the output; zero or negative means no limit.
	Limit int
}

// Ranked is one entity in a ranking.
type Ranked[V any] struct {
	Rank  int     `json:"rank"`
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Stats V       `json:"stats"`
}

// Rank returns at most Limit entities sorted by metric, largest first.
// Entities with equal metrics keep first-encountered order.
func Rank[R, V any](records []R, cfg RankConfig[R, V]) []Ranked[V] {
	var keys []string
	groups := make(map[string][]R)
	labels := make(map[string]string)

	for _, r := range records {
		key := generic.UnknownLabel
		if cfg.Key != nil {
			key = generic.LabelOrUnknown(cfg.Key(r))
		}
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
			label := key
			if cfg.Label != nil {
				label = generic.LabelOrUnknown(cfg.Label(r))
			}
			labels[key] = label
		}
		groups[key] = append(groups[key], r)
	}

	ranked := make([]Ranked[V], 0, len(keys))
	for _, key := range keys {
		var stats V
		if cfg.Reduce != nil {
			stats = cfg.Reduce(groups[key])
		}
		value := 0.0
		if cfg.Metric != nil {
			value = finite(cfg.Metric(stats))
		}
		ranked = append(ranked, Ranked[V]{Key: key, Label: labels[key], Value: value, Stats: stats})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Value > ranked[j].Value
	})
	if cfg.Limit > 0 && len(ranked) > cfg.Limit {
		ranked = ranked[:cfg.Limit]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
