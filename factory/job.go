/*
Package factory provides JSON to Go conversion for job definitions,
job-entry observations and dashboard score weights.

PURPOSE:
  Job definitions and score weights are configuration: supervisors define
  jobs in an admin form, and each dashboard's weights can be overridden
  from a file. The factory turns that JSON into validated Go structs.

ABSENT VS ZERO:
  Numeric fields decode into decimal.NullDecimal. A field that is missing
  or null stays absent; "expected_hours": 0 is a real zero target.

JOB JSON:
  {
    "id": "job-sewing",
    "name": "Sewing",
    "rate_per_hour": 100,
    "expected_hours": 8,
    "incentive_bonus_rate": 50,
    "incentive_type": "per_unit",
    "penalty_rate": 20
  }

ENTRY JSON:
  {
    "worker_id": "w-1",
    "job_id": "job-sewing",
    "date": "2025-03-10",
    "hours_taken": 10,
    "is_post_lunch": false
  }

USAGE:
  f := factory.NewJobFactory()
  job, err := f.ParseJob(jsonString)
  obs, err := f.ParseObservation(entryJSON)
  result, err := compensation.Compute(*job, obs)

SEE ALSO:
  - compensation/types.go: JobDefinition and Observation
  - weights.go: Score weight overrides
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/workforce-engine/compensation"
	"github.com/warp/workforce-engine/generic"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// JobJSON is the JSON representation of a job definition.
type JobJSON struct {
	ID                   string              `json:"id"`
	Name                 string              `json:"name"`
	RatePerHour          decimal.NullDecimal `json:"rate_per_hour"`
	RatePerItem          decimal.NullDecimal `json:"rate_per_item"`
	ExpectedHours        decimal.NullDecimal `json:"expected_hours"`
	ExpectedItemsPerHour decimal.NullDecimal `json:"expected_items_per_hour"`
	IncentiveBonusRate   decimal.NullDecimal `json:"incentive_bonus_rate"`
	IncentiveType        string              `json:"incentive_type,omitempty"`
	PenaltyRate          decimal.NullDecimal `json:"penalty_rate"`
}

// EntryJSON is the JSON representation of one job-entry observation.
type EntryJSON struct {
	WorkerID       string              `json:"worker_id"`
	GroupName      string              `json:"group_name,omitempty"`
	JobID          string              `json:"job_id"`
	Date           string              `json:"date"`
	HoursTaken     decimal.NullDecimal `json:"hours_taken"`
	ItemsCompleted decimal.NullDecimal `json:"items_completed"`
	IsPostLunch    bool                `json:"is_post_lunch"`
	Remarks        string              `json:"remarks,omitempty"`
}

// =============================================================================
// JOB FACTORY
// =============================================================================

// JobFactory converts JSON jobs and entries to Go structs.
type JobFactory struct{}

func NewJobFactory() *JobFactory {
	return &JobFactory{}
}

// ParseJob parses and validates a JSON job definition.
func (f *JobFactory) ParseJob(jsonStr string) (*compensation.JobDefinition, error) {
	var jj JobJSON
	if err := json.Unmarshal([]byte(jsonStr), &jj); err != nil {
		return nil, fmt.Errorf("failed to parse job JSON: %w", err)
	}
	job, err := f.FromJSON(jj)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// FromJSON converts JobJSON to a validated JobDefinition.
func (f *JobFactory) FromJSON(jj JobJSON) (compensation.JobDefinition, error) {
	incentiveType, err := parseIncentiveType(jj.IncentiveType)
	if err != nil {
		return compensation.JobDefinition{}, err
	}
	job := compensation.JobDefinition{
		ID:                   generic.JobID(strings.TrimSpace(jj.ID)),
		Name:                 strings.TrimSpace(jj.Name),
		RatePerHour:          jj.RatePerHour,
		RatePerItem:          jj.RatePerItem,
		ExpectedHours:        jj.ExpectedHours,
		ExpectedItemsPerHour: jj.ExpectedItemsPerHour,
		IncentiveBonusRate:   jj.IncentiveBonusRate,
		IncentiveType:        incentiveType,
		PenaltyRate:          jj.PenaltyRate,
	}
	if err := job.Validate(); err != nil {
		return compensation.JobDefinition{}, err
	}
	return job, nil
}

// ToJSON converts a JobDefinition to JobJSON.
func (f *JobFactory) ToJSON(job compensation.JobDefinition) JobJSON {
	return JobJSON{
		ID:                   string(job.ID),
		Name:                 job.Name,
		RatePerHour:          job.RatePerHour,
		RatePerItem:          job.RatePerItem,
		ExpectedHours:        job.ExpectedHours,
		ExpectedItemsPerHour: job.ExpectedItemsPerHour,
		IncentiveBonusRate:   job.IncentiveBonusRate,
		IncentiveType:        string(job.IncentiveType),
		PenaltyRate:          job.PenaltyRate,
	}
}

// ParseObservation parses a JSON job entry into an Observation.
func (f *JobFactory) ParseObservation(jsonStr string) (compensation.Observation, error) {
	var ej EntryJSON
	if err := json.Unmarshal([]byte(jsonStr), &ej); err != nil {
		return compensation.Observation{}, fmt.Errorf("failed to parse entry JSON: %w", err)
	}
	return f.ObservationFromJSON(ej)
}

// ObservationFromJSON converts EntryJSON to an Observation. The date must
// parse; hours and items must be exactly one of the two.
func (f *JobFactory) ObservationFromJSON(ej EntryJSON) (compensation.Observation, error) {
	if strings.TrimSpace(ej.WorkerID) == "" {
		return compensation.Observation{}, generic.NewValidationError(generic.CodeInvalidField, "worker_id",
			nil, "worker_id is required")
	}
	if strings.TrimSpace(ej.JobID) == "" {
		return compensation.Observation{}, generic.NewValidationError(generic.CodeInvalidField, "job_id",
			nil, "job_id is required")
	}
	date, ok := generic.ParseDate(ej.Date)
	if !ok {
		return compensation.Observation{}, generic.NewValidationError(generic.CodeInvalidField, "date",
			nil, "invalid date %q", ej.Date)
	}
	outcome, err := compensation.OutcomeFromFields(ej.HoursTaken, ej.ItemsCompleted)
	if err != nil {
		return compensation.Observation{}, err
	}
	return compensation.Observation{
		WorkerID:    generic.WorkerID(ej.WorkerID),
		GroupName:   ej.GroupName,
		JobID:       generic.JobID(ej.JobID),
		Date:        date,
		Outcome:     outcome,
		IsPostLunch: ej.IsPostLunch,
		Remarks:     ej.Remarks,
	}, nil
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseIncentiveType(s string) (compensation.IncentiveType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "per_unit", "perunit", "per-unit":
		return compensation.IncentivePerUnit, nil
	case "percentage", "percent":
		return compensation.IncentivePercentage, nil
	default:
		return "", generic.NewValidationError(generic.CodeInvalidField, "incentive_type",
			generic.ErrInvalidJobDefinition, "unknown incentive type %q", s)
	}
}
