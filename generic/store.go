/*
store.go - Record source interfaces

PURPOSE:
  Defines the interface between the engine and wherever records live.
  The aggregator only ever reads; data entry writes through RecordStore.
  Different implementations can use SQLite or in-memory storage.

KEY INTERFACES:
  RecordSource: Read-only listing of workers, entries, attendance and leave
  RecordStore:  RecordSource plus create/delete for data entry

CREATE/DELETE ONLY:
  Job entries are immutable once saved. RecordStore has SaveJobEntry and
  DeleteJobEntry but no update; a wrong entry is deleted and re-entered.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - generic/store/memory.go: In-memory for testing

SEE ALSO:
  - compensation/store.go: Job definition persistence
  - api/dashboards.go: Concurrent fetches from a RecordSource
*/
package generic

import "context"

// =============================================================================
// FILTER
// =============================================================================

// RecordFilter narrows a listing. Zero values mean "no constraint".
// Records whose date cannot be parsed are excluded whenever From or To is set.
type RecordFilter struct {
	WorkerID WorkerID
	JobID    JobID
	From     *TimePoint
	To       *TimePoint
}

// Unbounded reports whether the filter has no date range.
func (f RecordFilter) Unbounded() bool {
	return f.From == nil && f.To == nil
}

// MatchesDate applies the date range to a raw record date.
func (f RecordFilter) MatchesDate(raw string) bool {
	if f.Unbounded() {
		return true
	}
	d, ok := ParseDate(raw)
	if !ok {
		return false
	}
	if f.From != nil && d.Before(*f.From) {
		return false
	}
	if f.To != nil && d.After(*f.To) {
		return false
	}
	return true
}

// Between is a filter over an inclusive period.
func Between(p Period) RecordFilter {
	from, to := p.Start, p.End
	return RecordFilter{From: &from, To: &to}
}

// =============================================================================
// RECORD SOURCE
// =============================================================================

// RecordSource supplies flat records to the aggregator.
type RecordSource interface {
	ListWorkers(ctx context.Context) ([]Worker, error)
	ListJobEntries(ctx context.Context, filter RecordFilter) ([]JobEntryReport, error)
	ListAttendance(ctx context.Context, filter RecordFilter) ([]AttendanceRecord, error)
	ListLeaveRequests(ctx context.Context, filter RecordFilter) ([]LeaveRequest, error)
	ListLeaveBalances(ctx context.Context) ([]LeaveBalance, error)
}

// RecordStore adds data-entry writes to a RecordSource.
type RecordStore interface {
	RecordSource

	SaveWorker(ctx context.Context, w Worker) error
	GetWorker(ctx context.Context, id WorkerID) (*Worker, error)

	// SaveJobEntry persists a computed entry. Returns ErrDuplicateEntry if the ID exists.
	SaveJobEntry(ctx context.Context, e JobEntryReport) error
	GetJobEntry(ctx context.Context, id EntryID) (*JobEntryReport, error)
	DeleteJobEntry(ctx context.Context, id EntryID) error

	SaveAttendance(ctx context.Context, a AttendanceRecord) error
	SaveLeaveRequest(ctx context.Context, r LeaveRequest) error
	SaveLeaveBalance(ctx context.Context, b LeaveBalance) error
}
