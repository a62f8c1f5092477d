// Package store provides RecordStore implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/workforce-engine/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu         sync.RWMutex
	workers    map[generic.WorkerID]generic.Worker
	entries    []generic.JobEntryReport
	entryIndex map[generic.EntryID]bool
	attendance []generic.AttendanceRecord
	leave      []generic.LeaveRequest
	balances   map[balanceKey]generic.LeaveBalance
}

type balanceKey struct {
	WorkerID  generic.WorkerID
	LeaveType string
}

var _ generic.RecordStore = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		workers:    make(map[generic.WorkerID]generic.Worker),
		entryIndex: make(map[generic.EntryID]bool),
		balances:   make(map[balanceKey]generic.LeaveBalance),
	}
}

// =============================================================================
// WORKERS
// =============================================================================

func (m *Memory) SaveWorker(_ context.Context, w generic.Worker) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workers[w.ID] = w
	return nil
}

func (m *Memory) GetWorker(_ context.Context, id generic.WorkerID) (*generic.Worker, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.workers[id]
	if !ok {
		return nil, generic.ErrNotFound
	}
	return &w, nil
}

func (m *Memory) ListWorkers(_ context.Context) ([]generic.Worker, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]generic.Worker, 0, len(m.workers))
	for _, w := range m.workers {
		result = append(result, w)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// =============================================================================
// JOB ENTRIES - Create/delete only
// =============================================================================

func (m *Memory) SaveJobEntry(_ context.Context, e generic.JobEntryReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entryIndex[e.ID] {
		return generic.ErrDuplicateEntry
	}
	m.entries = append(m.entries, m.withWorker(e))
	m.entryIndex[e.ID] = true
	return nil
}

// withWorker fills in the worker's name and group when the caller left them out.
func (m *Memory) withWorker(e generic.JobEntryReport) generic.JobEntryReport {
	w, ok := m.workers[e.WorkerID]
	if !ok {
		return e
	}
	if e.WorkerName == "" {
		e.WorkerName = w.Name
	}
	if e.GroupName == "" {
		e.GroupName = w.GroupName
	}
	return e
}

func (m *Memory) GetJobEntry(_ context.Context, id generic.EntryID) (*generic.JobEntryReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.ID == id {
			found := e
			return &found, nil
		}
	}
	return nil, generic.ErrNotFound
}

func (m *Memory) DeleteJobEntry(_ context.Context, id generic.EntryID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.entries {
		if e.ID == id {
			m.entries = append(m.entries[:i:i], m.entries[i+1:]...)
			delete(m.entryIndex, id)
			return nil
		}
	}
	return generic.ErrNotFound
}

func (m *Memory) ListJobEntries(_ context.Context, filter generic.RecordFilter) ([]generic.JobEntryReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []generic.JobEntryReport
	for _, e := range m.entries {
		if filter.WorkerID != "" && e.WorkerID != filter.WorkerID {
			continue
		}
		if filter.JobID != "" && e.JobID != filter.JobID {
			continue
		}
		if !filter.MatchesDate(e.Date) {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}

// =============================================================================
// ATTENDANCE & LEAVE
// =============================================================================

func (m *Memory) SaveAttendance(_ context.Context, a generic.AttendanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.WorkerName == "" {
		a.WorkerName = m.workers[a.WorkerID].Name
	}
	m.attendance = append(m.attendance, a)
	return nil
}

func (m *Memory) ListAttendance(_ context.Context, filter generic.RecordFilter) ([]generic.AttendanceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []generic.AttendanceRecord
	for _, a := range m.attendance {
		if filter.WorkerID != "" && a.WorkerID != filter.WorkerID {
			continue
		}
		if !filter.MatchesDate(a.Date) {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func (m *Memory) SaveLeaveRequest(_ context.Context, r generic.LeaveRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.WorkerName == "" {
		r.WorkerName = m.workers[r.WorkerID].Name
	}
	m.leave = append(m.leave, r)
	return nil
}

func (m *Memory) ListLeaveRequests(_ context.Context, filter generic.RecordFilter) ([]generic.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []generic.LeaveRequest
	for _, r := range m.leave {
		if filter.WorkerID != "" && r.WorkerID != filter.WorkerID {
			continue
		}
		if !filter.MatchesDate(r.TrendDate()) {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

// SaveLeaveBalance upserts the balance for (worker, leave type).
func (m *Memory) SaveLeaveBalance(_ context.Context, b generic.LeaveBalance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.WorkerName == "" {
		b.WorkerName = m.workers[b.WorkerID].Name
	}
	m.balances[balanceKey{WorkerID: b.WorkerID, LeaveType: b.LeaveType}] = b
	return nil
}

func (m *Memory) ListLeaveBalances(_ context.Context) ([]generic.LeaveBalance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]generic.LeaveBalance, 0, len(m.balances))
	for _, b := range m.balances {
		result = append(result, b)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].WorkerID != result[j].WorkerID {
			return result[i].WorkerID < result[j].WorkerID
		}
		return result[i].LeaveType < result[j].LeaveType
	})
	return result, nil
}

// Reset deletes all data.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workers = make(map[generic.WorkerID]generic.Worker)
	m.entries = nil
	m.entryIndex = make(map[generic.EntryID]bool)
	m.attendance = nil
	m.leave = nil
	m.balances = make(map[balanceKey]generic.LeaveBalance)
	return nil
}
