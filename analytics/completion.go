package analytics

import (
	"github.com/warp/workforce-engine/generic"
)

// =============================================================================
// COMPLETION DASHBOARD - How often entries meet their target
// =============================================================================

// Completion categories.
const (
	CompletionMet      = "Met"
	CompletionShort    = "Underperforming"
	CompletionNoTarget = "NoTarget"
)

var completionCategories = []string{CompletionMet, CompletionShort, CompletionNoTarget}

type CompletionSummary struct {
	Entries         int     `json:"entries"`
	Met             int     `json:"met"`
	Underperforming int     `json:"underperforming"`
	NoTarget        int     `json:"no_target"`
	CompletionRate  float64 `json:"completion_rate"`
}

// JobCompletion is one job's completion over the fetched window.
type JobCompletion struct {
	Entries  int     `json:"entries"`
	Targeted int     `json:"targeted"`
	Met      int     `json:"met"`
	Rate     float64 `json:"rate"`
}

type CompletionDashboard struct {
	Summary CompletionSummary       `json:"summary"`
	ByJob   []Ranked[JobCompletion] `json:"by_job"`
	Trend   []TrendPoint            `json:"trend"`
}

// CompletionCategory classifies an entry against its target.
func CompletionCategory(e generic.JobEntryReport) string {
	switch {
	case !e.HasTarget():
		return CompletionNoTarget
	case e.MetTarget():
		return CompletionMet
	default:
		return CompletionShort
	}
}

func BuildCompletion(cfg Config, entries []generic.JobEntryReport) CompletionDashboard {
	return CompletionDashboard{
		Summary: SummarizeCompletion(entries),
		ByJob: Rank(entries, RankConfig[generic.JobEntryReport, JobCompletion]{
			Key:    func(e generic.JobEntryReport) string { return string(e.JobID) },
			Label:  func(e generic.JobEntryReport) string { return e.JobName },
			Reduce: jobCompletion,
			Metric: func(c JobCompletion) float64 { return c.Rate },
			Limit:  cfg.Limits.CompletionJobs,
		}),
		Trend: Trend(entries, TrendConfig[generic.JobEntryReport]{
			Window:     cfg.CompletionTrend,
			Now:        cfg.today(),
			Date:       func(e generic.JobEntryReport) string { return e.Date },
			Category:   CompletionCategory,
			Categories: completionCategories,
		}),
	}
}

// SummarizeCompletion counts entries per category. The completion rate is
// met over entries that had a target.
func SummarizeCompletion(entries []generic.JobEntryReport) CompletionSummary {
	s := CompletionSummary{Entries: len(entries)}
	for _, e := range entries {
		switch CompletionCategory(e) {
		case CompletionMet:
			s.Met++
		case CompletionShort:
			s.Underperforming++
		default:
			s.NoTarget++
		}
	}
	s.CompletionRate = PercentOf(s.Met, s.Met+s.Underperforming)
	return s
}

func jobCompletion(group []generic.JobEntryReport) JobCompletion {
	c := JobCompletion{Entries: len(group)}
	for _, e := range group {
		if !e.HasTarget() {
			continue
		}
		c.Targeted++
		if e.MetTarget() {
			c.Met++
		}
	}
	c.Rate = PercentOf(c.Met, c.Targeted)
	return c
}
