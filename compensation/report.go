package compensation

import (
	"time"

	"github.com/warp/workforce-engine/generic"
)

// =============================================================================
// JOB ENTRY REPORTS
// =============================================================================

// NewEntry builds the job entry that is persisted for a computed observation.
// The job's target is copied onto the entry so reports show what the worker
// was measured against at save time.
func NewEntry(id generic.EntryID, job JobDefinition, obs Observation, res Result, createdAt time.Time) generic.JobEntryReport {
	hours, items := Fields(obs.Outcome)
	entry := generic.JobEntryReport{
		ID:             id,
		WorkerID:       obs.WorkerID,
		GroupName:      obs.GroupName,
		JobID:          job.ID,
		JobName:        job.Name,
		Date:           obs.Date.String(),
		HoursTaken:     hours,
		ItemsCompleted: items,
		IsPostLunch:    obs.IsPostLunch,
		Remarks:        obs.Remarks,
		CreatedAt:      createdAt,
	}
	return applyResult(entry, job, res)
}

// ApplyToReport recomputes a stored entry from its raw hours/items using the
// current job definition. Stored amounts are not trusted on this path.
func ApplyToReport(job JobDefinition, entry generic.JobEntryReport) (generic.JobEntryReport, error) {
	outcome, err := OutcomeFromFields(entry.HoursTaken, entry.ItemsCompleted)
	if err != nil {
		return entry, err
	}
	res, err := Compute(job, Observation{
		WorkerID:    entry.WorkerID,
		JobID:       job.ID,
		Outcome:     outcome,
		IsPostLunch: entry.IsPostLunch,
	})
	if err != nil {
		return entry, err
	}
	if entry.JobName == "" {
		entry.JobName = job.Name
	}
	return applyResult(entry, job, res), nil
}

// RecomputeReports applies ApplyToReport to every entry whose job is known.
// Entries with an unknown job or that fail validation keep their stored amounts.
func RecomputeReports(jobs map[generic.JobID]JobDefinition, entries []generic.JobEntryReport) []generic.JobEntryReport {
	out := make([]generic.JobEntryReport, len(entries))
	for i, e := range entries {
		out[i] = e
		job, ok := jobs[e.JobID]
		if !ok {
			continue
		}
		if recomputed, err := ApplyToReport(job, e); err == nil {
			out[i] = recomputed
		}
	}
	return out
}

func applyResult(entry generic.JobEntryReport, job JobDefinition, res Result) generic.JobEntryReport {
	entry.ExpectedHours = generic.None()
	entry.ExpectedItemsPerHour = generic.None()
	entry.ProductiveHours = generic.None()
	entry.ExtraHours = generic.None()
	entry.UnderperformanceHours = generic.None()
	entry.ProductiveItems = generic.None()
	entry.ExtraItems = generic.None()

	switch res.Mode {
	case ModeTime:
		entry.ExpectedHours = job.ExpectedHours
		entry.ProductiveHours = generic.Some(res.ProductiveHours)
		entry.ExtraHours = generic.Some(res.ExtraHours)
		entry.UnderperformanceHours = generic.Some(res.UnderperformanceHours)
	case ModeItem:
		entry.ExpectedItemsPerHour = job.ExpectedItemsPerHour
		entry.ProductiveItems = generic.Some(res.ProductiveItems)
		entry.ExtraItems = generic.Some(res.ExtraItems)
	}
	entry.IncentiveAmount = generic.Some(res.IncentiveAmount)
	entry.PenaltyAmount = generic.Some(res.PenaltyAmount)
	entry.TotalAmount = generic.Some(res.TotalAmount)
	return entry
}
