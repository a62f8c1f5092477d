/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

NUMBERS:
  Optional numbers are *float64 on the wire: null or missing means absent,
  0 means zero. They are converted to decimal.NullDecimal at the boundary
  and never travel as float64 inside the engine.

TYPES:
  Workers:     WorkerDTO, CreateWorkerRequest
  Jobs:        JobDTO, PreviewRequest, ResultDTO
  Job entries: CreateJobEntryRequest, JobEntryDTO
  Attendance:  AttendanceRequest
  Leave:       LeaveRequestRequest, LeaveBalanceRequest

VALIDATION:
  Validation is done in handlers and the factory, not in DTOs. DTOs are
  pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/job.go: JobJSON and EntryJSON
*/
package api

import (
	"time"

	"github.com/warp/workforce-engine/compensation"
	"github.com/warp/workforce-engine/factory"
	"github.com/warp/workforce-engine/generic"
)

// =============================================================================
// WORKERS
// =============================================================================

type WorkerDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	GroupName string `json:"group_name,omitempty"`
}

type CreateWorkerRequest struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	GroupName string `json:"group_name,omitempty"`
}

func toWorkerDTO(w generic.Worker) WorkerDTO {
	return WorkerDTO{ID: string(w.ID), Name: w.Name, GroupName: w.GroupName}
}

// =============================================================================
// JOBS
// =============================================================================

// JobDTO is a job definition on the wire. It is also the create request body.
type JobDTO struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Mode                 string   `json:"mode,omitempty"`
	RatePerHour          *float64 `json:"rate_per_hour"`
	RatePerItem          *float64 `json:"rate_per_item"`
	ExpectedHours        *float64 `json:"expected_hours"`
	ExpectedItemsPerHour *float64 `json:"expected_items_per_hour"`
	IncentiveBonusRate   *float64 `json:"incentive_bonus_rate"`
	IncentiveType        string   `json:"incentive_type,omitempty"`
	PenaltyRate          *float64 `json:"penalty_rate"`
}

func (d JobDTO) toJSON() factory.JobJSON {
	return factory.JobJSON{
		ID:                   d.ID,
		Name:                 d.Name,
		RatePerHour:          generic.FromFloatPtr(d.RatePerHour),
		RatePerItem:          generic.FromFloatPtr(d.RatePerItem),
		ExpectedHours:        generic.FromFloatPtr(d.ExpectedHours),
		ExpectedItemsPerHour: generic.FromFloatPtr(d.ExpectedItemsPerHour),
		IncentiveBonusRate:   generic.FromFloatPtr(d.IncentiveBonusRate),
		IncentiveType:        d.IncentiveType,
		PenaltyRate:          generic.FromFloatPtr(d.PenaltyRate),
	}
}

func toJobDTO(j compensation.JobDefinition) JobDTO {
	mode, _ := j.Mode()
	return JobDTO{
		ID:                   string(j.ID),
		Name:                 j.Name,
		Mode:                 string(mode),
		RatePerHour:          generic.ToFloatPtr(j.RatePerHour),
		RatePerItem:          generic.ToFloatPtr(j.RatePerItem),
		ExpectedHours:        generic.ToFloatPtr(j.ExpectedHours),
		ExpectedItemsPerHour: generic.ToFloatPtr(j.ExpectedItemsPerHour),
		IncentiveBonusRate:   generic.ToFloatPtr(j.IncentiveBonusRate),
		IncentiveType:        string(j.IncentiveType),
		PenaltyRate:          generic.ToFloatPtr(j.PenaltyRate),
	}
}

// PreviewRequest is an observation priced without being saved.
type PreviewRequest struct {
	HoursTaken     *float64 `json:"hours_taken"`
	ItemsCompleted *float64 `json:"items_completed"`
}

// ResultDTO is a computed compensation result.
type ResultDTO struct {
	Mode                  string  `json:"mode"`
	HasTarget             bool    `json:"has_target"`
	ProductiveHours       float64 `json:"productive_hours"`
	ExtraHours            float64 `json:"extra_hours"`
	UnderperformanceHours float64 `json:"underperformance_hours"`
	ProductiveItems       float64 `json:"productive_items"`
	ExtraItems            float64 `json:"extra_items"`
	BaseAmount            float64 `json:"base_amount"`
	IncentiveAmount       float64 `json:"incentive_amount"`
	PenaltyAmount         float64 `json:"penalty_amount"`
	TotalAmount           float64 `json:"total_amount"`
}

func toResultDTO(r compensation.Result) ResultDTO {
	return ResultDTO{
		Mode:                  string(r.Mode),
		HasTarget:             r.HasTarget,
		ProductiveHours:       r.ProductiveHours.InexactFloat64(),
		ExtraHours:            r.ExtraHours.InexactFloat64(),
		UnderperformanceHours: r.UnderperformanceHours.InexactFloat64(),
		ProductiveItems:       r.ProductiveItems.InexactFloat64(),
		ExtraItems:            r.ExtraItems.InexactFloat64(),
		BaseAmount:            r.BaseAmount.InexactFloat64(),
		IncentiveAmount:       r.IncentiveAmount.InexactFloat64(),
		PenaltyAmount:         r.PenaltyAmount.InexactFloat64(),
		TotalAmount:           r.TotalAmount.InexactFloat64(),
	}
}

// =============================================================================
// JOB ENTRIES
// =============================================================================

type CreateJobEntryRequest struct {
	WorkerID       string   `json:"worker_id"`
	GroupName      string   `json:"group_name,omitempty"`
	JobID          string   `json:"job_id"`
	Date           string   `json:"date"`
	HoursTaken     *float64 `json:"hours_taken"`
	ItemsCompleted *float64 `json:"items_completed"`
	IsPostLunch    bool     `json:"is_post_lunch"`
	Remarks        string   `json:"remarks,omitempty"`
}

func (r CreateJobEntryRequest) toJSON() factory.EntryJSON {
	return factory.EntryJSON{
		WorkerID:       r.WorkerID,
		GroupName:      r.GroupName,
		JobID:          r.JobID,
		Date:           r.Date,
		HoursTaken:     generic.FromFloatPtr(r.HoursTaken),
		ItemsCompleted: generic.FromFloatPtr(r.ItemsCompleted),
		IsPostLunch:    r.IsPostLunch,
		Remarks:        r.Remarks,
	}
}

type JobEntryDTO struct {
	ID                    string   `json:"id"`
	WorkerID              string   `json:"worker_id"`
	WorkerName            string   `json:"worker_name"`
	GroupName             string   `json:"group_name"`
	JobID                 string   `json:"job_id"`
	JobName               string   `json:"job_name"`
	Date                  string   `json:"date"`
	HoursTaken            *float64 `json:"hours_taken"`
	ItemsCompleted        *float64 `json:"items_completed"`
	ExpectedHours         *float64 `json:"expected_hours"`
	ExpectedItemsPerHour  *float64 `json:"expected_items_per_hour"`
	ProductiveHours       *float64 `json:"productive_hours"`
	ExtraHours            *float64 `json:"extra_hours"`
	UnderperformanceHours *float64 `json:"underperformance_hours"`
	ProductiveItems       *float64 `json:"productive_items"`
	ExtraItems            *float64 `json:"extra_items"`
	IncentiveAmount       *float64 `json:"incentive_amount"`
	PenaltyAmount         *float64 `json:"penalty_amount"`
	TotalAmount           *float64 `json:"total_amount"`
	IsPostLunch           bool     `json:"is_post_lunch"`
	Remarks               string   `json:"remarks,omitempty"`
	CreatedAt             string   `json:"created_at,omitempty"`
}

func toJobEntryDTO(e generic.JobEntryReport) JobEntryDTO {
	dto := JobEntryDTO{
		ID:                    string(e.ID),
		WorkerID:              string(e.WorkerID),
		WorkerName:            generic.LabelOrUnknown(e.WorkerName),
		GroupName:             generic.LabelOrUnknown(e.GroupName),
		JobID:                 string(e.JobID),
		JobName:               generic.LabelOrUnknown(e.JobName),
		Date:                  e.Date,
		HoursTaken:            generic.ToFloatPtr(e.HoursTaken),
		ItemsCompleted:        generic.ToFloatPtr(e.ItemsCompleted),
		ExpectedHours:         generic.ToFloatPtr(e.ExpectedHours),
		ExpectedItemsPerHour:  generic.ToFloatPtr(e.ExpectedItemsPerHour),
		ProductiveHours:       generic.ToFloatPtr(e.ProductiveHours),
		ExtraHours:            generic.ToFloatPtr(e.ExtraHours),
		UnderperformanceHours: generic.ToFloatPtr(e.UnderperformanceHours),
		ProductiveItems:       generic.ToFloatPtr(e.ProductiveItems),
		ExtraItems:            generic.ToFloatPtr(e.ExtraItems),
		IncentiveAmount:       generic.ToFloatPtr(e.IncentiveAmount),
		PenaltyAmount:         generic.ToFloatPtr(e.PenaltyAmount),
		TotalAmount:           generic.ToFloatPtr(e.TotalAmount),
		IsPostLunch:           e.IsPostLunch,
		Remarks:               e.Remarks,
	}
	if !e.CreatedAt.IsZero() {
		dto.CreatedAt = e.CreatedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

// =============================================================================
// ATTENDANCE & LEAVE
// =============================================================================

type AttendanceRequest struct {
	ID       string `json:"id,omitempty"`
	WorkerID string `json:"worker_id"`
	Date     string `json:"date"`
	Status   string `json:"status"`
	CheckIn  string `json:"check_in,omitempty"`
}

type LeaveRequestRequest struct {
	ID        string   `json:"id,omitempty"`
	WorkerID  string   `json:"worker_id"`
	LeaveType string   `json:"leave_type"`
	Status    string   `json:"status"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	AppliedOn string   `json:"applied_on,omitempty"`
	Days      *float64 `json:"days"`
	Reason    string   `json:"reason,omitempty"`
}

type LeaveBalanceRequest struct {
	WorkerID  string   `json:"worker_id"`
	LeaveType string   `json:"leave_type"`
	Allocated *float64 `json:"allocated"`
	Used      *float64 `json:"used"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the body of every non-2xx response from a data endpoint.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}
