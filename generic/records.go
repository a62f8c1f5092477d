/*
records.go - Flat record shapes supplied by the record source

PURPOSE:
  The record source hands the engine flat rows with nullable numeric, date
  and string fields. These are stored as-is: dates stay strings so that a
  malformed date can be dropped from date-bucketed views instead of failing
  the whole fetch, and numbers stay NullDecimal so absent is never zero.

RECORDS:
  Worker:           Someone who performs jobs and has attendance/leave
  JobEntryReport:   One saved job entry with its computed amounts
  AttendanceRecord: One worker-day with a status
  LeaveRequest:     A leave application with a type, status and day count
  LeaveBalance:     Allocated vs used days per worker and leave type

SEE ALSO:
  - store.go: RecordSource interface
  - analytics/: Consumes these records
*/
package generic

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// UnknownLabel is the label used wherever a name field is missing.
const UnknownLabel = "Unknown"

// LabelOrUnknown trims s and falls back to UnknownLabel when empty.
func LabelOrUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return UnknownLabel
	}
	return s
}

// =============================================================================
// WORKER
// =============================================================================

type Worker struct {
	ID        WorkerID `json:"id"`
	Name      string   `json:"name"`
	GroupName string   `json:"group_name,omitempty"`
}

// =============================================================================
// JOB ENTRY REPORT
// =============================================================================

// JobEntryReport is a persisted job entry joined with its worker and job.
// The amount fields are what the calculator produced when the entry was saved.
type JobEntryReport struct {
	ID         EntryID  `json:"id"`
	WorkerID   WorkerID `json:"worker_id"`
	WorkerName string   `json:"worker_name"`
	GroupName  string   `json:"group_name,omitempty"`
	JobID      JobID    `json:"job_id"`
	JobName    string   `json:"job_name"`
	Date       string   `json:"date"`

	HoursTaken           decimal.NullDecimal `json:"hours_taken"`
	ItemsCompleted       decimal.NullDecimal `json:"items_completed"`
	ExpectedHours        decimal.NullDecimal `json:"expected_hours"`
	ExpectedItemsPerHour decimal.NullDecimal `json:"expected_items_per_hour"`

	ProductiveHours       decimal.NullDecimal `json:"productive_hours"`
	ExtraHours            decimal.NullDecimal `json:"extra_hours"`
	UnderperformanceHours decimal.NullDecimal `json:"underperformance_hours"`
	ProductiveItems       decimal.NullDecimal `json:"productive_items"`
	ExtraItems            decimal.NullDecimal `json:"extra_items"`
	IncentiveAmount       decimal.NullDecimal `json:"incentive_amount"`
	PenaltyAmount         decimal.NullDecimal `json:"penalty_amount"`
	TotalAmount           decimal.NullDecimal `json:"total_amount"`

	IsPostLunch bool      `json:"is_post_lunch"`
	Remarks     string    `json:"remarks,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// HasTarget reports whether the entry was saved against a target.
func (r JobEntryReport) HasTarget() bool {
	if r.HoursTaken.Valid {
		return r.ExpectedHours.Valid
	}
	return r.ExpectedItemsPerHour.Valid
}

// MetTarget is true when the entry reached its target without underperformance.
// Entries without a target never meet it.
func (r JobEntryReport) MetTarget() bool {
	if !r.HasTarget() {
		return false
	}
	if r.HoursTaken.Valid {
		return !OrZero(r.UnderperformanceHours).IsPositive()
	}
	return OrZero(r.ItemsCompleted).GreaterThanOrEqual(OrZero(r.ExpectedItemsPerHour))
}

// =============================================================================
// ATTENDANCE
// =============================================================================

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "Present"
	AttendanceAbsent  AttendanceStatus = "Absent"
	AttendanceLate    AttendanceStatus = "Late"
	AttendanceOnLeave AttendanceStatus = "OnLeave"
)

// AttendanceStatuses is the declared category order for attendance charts.
var AttendanceStatuses = []AttendanceStatus{
	AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceOnLeave,
}

// Attended is true for statuses that count as showing up for work.
func (s AttendanceStatus) Attended() bool {
	return s == AttendancePresent || s == AttendanceLate
}

type AttendanceRecord struct {
	ID         string           `json:"id"`
	WorkerID   WorkerID         `json:"worker_id"`
	WorkerName string           `json:"worker_name"`
	Date       string           `json:"date"`
	Status     AttendanceStatus `json:"status"`
	CheckIn    string           `json:"check_in,omitempty"`
}

// =============================================================================
// LEAVE
// =============================================================================

type LeaveStatus string

const (
	LeaveApproved LeaveStatus = "Approved"
	LeavePending  LeaveStatus = "Pending"
	LeaveRejected LeaveStatus = "Rejected"
)

// LeaveStatuses is the declared category order for leave charts.
var LeaveStatuses = []LeaveStatus{LeaveApproved, LeavePending, LeaveRejected}

type LeaveRequest struct {
	ID         string              `json:"id"`
	WorkerID   WorkerID            `json:"worker_id"`
	WorkerName string              `json:"worker_name"`
	LeaveType  string              `json:"leave_type"`
	Status     LeaveStatus         `json:"status"`
	StartDate  string              `json:"start_date"`
	EndDate    string              `json:"end_date"`
	AppliedOn  string              `json:"applied_on"`
	Days       decimal.NullDecimal `json:"days"`
	Reason     string              `json:"reason,omitempty"`
}

// TrendDate is the date a request is bucketed under: the application date,
// or the start date when the application date is missing.
func (r LeaveRequest) TrendDate() string {
	if strings.TrimSpace(r.AppliedOn) != "" {
		return r.AppliedOn
	}
	return r.StartDate
}

type LeaveBalance struct {
	WorkerID   WorkerID            `json:"worker_id"`
	WorkerName string              `json:"worker_name"`
	LeaveType  string              `json:"leave_type"`
	Allocated  decimal.NullDecimal `json:"allocated"`
	Used       decimal.NullDecimal `json:"used"`
}

// Remaining is allocated minus used, never negative.
func (b LeaveBalance) Remaining() decimal.Decimal {
	r := OrZero(b.Allocated).Sub(OrZero(b.Used))
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}
