package compensation

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/workforce-engine/generic"
)

// JobStore persists job definitions.
type JobStore interface {
	SaveJob(ctx context.Context, job JobDefinition) error
	GetJob(ctx context.Context, id generic.JobID) (*JobDefinition, error)
	ListJobs(ctx context.Context) ([]JobDefinition, error)
	DeleteJob(ctx context.Context, id generic.JobID) error
}

// JobIndex loads all jobs keyed by ID.
func JobIndex(ctx context.Context, store JobStore) (map[generic.JobID]JobDefinition, error) {
	jobs, err := store.ListJobs(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[generic.JobID]JobDefinition, len(jobs))
	for _, j := range jobs {
		index[j.ID] = j
	}
	return index, nil
}

// =============================================================================
// MEMORY JOB STORE
// =============================================================================

// MemoryJobs is an in-memory JobStore for tests and dev.
type MemoryJobs struct {
	mu   sync.RWMutex
	jobs map[generic.JobID]JobDefinition
}

var _ JobStore = (*MemoryJobs)(nil)

func NewMemoryJobs() *MemoryJobs {
	return &MemoryJobs{jobs: make(map[generic.JobID]JobDefinition)}
}

func (m *MemoryJobs) SaveJob(_ context.Context, job JobDefinition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = job
	return nil
}

func (m *MemoryJobs) GetJob(_ context.Context, id generic.JobID) (*JobDefinition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, generic.ErrNotFound
	}
	return &j, nil
}

func (m *MemoryJobs) ListJobs(_ context.Context) ([]JobDefinition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]JobDefinition, 0, len(m.jobs))
	for _, j := range m.jobs {
		result = append(result, j)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MemoryJobs) DeleteJob(_ context.Context, id generic.JobID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[id]; !ok {
		return generic.ErrNotFound
	}
	delete(m.jobs, id)
	return nil
}

// Reset deletes all jobs.
func (m *MemoryJobs) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = make(map[generic.JobID]JobDefinition)
	return nil
}
