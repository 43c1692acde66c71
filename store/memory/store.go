package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	qonos "github.com/frielp/qonos"
	"github.com/frielp/qonos/fault"
	"github.com/frielp/qonos/id"
	"github.com/frielp/qonos/job"
	"github.com/frielp/qonos/page"
	"github.com/frielp/qonos/schedule"
)

// Ensure Store implements store.Store at compile time.
// We can't import store here (import cycle), so we verify each subsystem.
var (
	_ schedule.Store = (*Store)(nil)
	_ job.Store      = (*Store)(nil)
	_ fault.Store    = (*Store)(nil)
)

// Store is a fully in-memory implementation of store.Store.
// Safe for concurrent access. Intended for unit testing and development.
type Store struct {
	mu sync.RWMutex

	schedules map[string]*schedule.Schedule
	jobs      map[string]*job.Job
	faults    map[string]*fault.Fault
}

// New returns a new empty Store.
func New() *Store {
	return &Store{
		schedules: make(map[string]*schedule.Schedule),
		jobs:      make(map[string]*job.Job),
		faults:    make(map[string]*fault.Fault),
	}
}

// Migrate is a no-op for the memory store.
func (m *Store) Migrate(_ context.Context) error { return nil }

// Ping always succeeds for the memory store.
func (m *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op for the memory store.
func (m *Store) Close() error { return nil }

// ──────────────────────────────────────────────────
// Schedule Store
// ──────────────────────────────────────────────────

// CreateSchedule persists a new schedule.
func (m *Store) CreateSchedule(_ context.Context, s *schedule.Schedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := s.ID.String()
	if _, exists := m.schedules[key]; exists {
		return qonos.ErrScheduleAlreadyExists
	}
	cp := *s
	cp.Metadata = s.Metadata.Clone()
	m.schedules[key] = &cp
	return nil
}

// GetSchedule retrieves a schedule by ID.
func (m *Store) GetSchedule(_ context.Context, scheduleID id.ScheduleID) (*schedule.Schedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.schedules[scheduleID.String()]
	if !ok {
		return nil, qonos.ErrScheduleNotFound
	}
	cp := *s
	cp.Metadata = s.Metadata.Clone()
	return &cp, nil
}

// ListSchedules returns schedules after the marker in ID order.
func (m *Store) ListSchedules(_ context.Context, p page.Params) ([]*schedule.Schedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*schedule.Schedule, 0, len(m.schedules))
	for key, s := range m.schedules {
		if p.Marker != "" && key <= p.Marker {
			continue
		}
		cp := *s
		cp.Metadata = s.Metadata.Clone()
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, k int) bool {
		return result[i].ID.String() < result[k].ID.String()
	})
	if p.Limit > 0 && len(result) > p.Limit {
		result = result[:p.Limit]
	}
	return result, nil
}

// DeleteSchedule removes a schedule by ID.
func (m *Store) DeleteSchedule(_ context.Context, scheduleID id.ScheduleID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := scheduleID.String()
	if _, ok := m.schedules[key]; !ok {
		return qonos.ErrScheduleNotFound
	}
	delete(m.schedules, key)
	return nil
}

// ──────────────────────────────────────────────────
// Job Store
// ──────────────────────────────────────────────────

// CreateJob persists a newly materialized job.
func (m *Store) CreateJob(_ context.Context, j *job.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := j.ID.String()
	if _, exists := m.jobs[key]; exists {
		return qonos.ErrJobAlreadyExists
	}
	cp := *j
	cp.Metadata = j.Metadata.Clone()
	m.jobs[key] = &cp
	return nil
}

// GetJob retrieves a job by ID.
func (m *Store) GetJob(_ context.Context, jobID id.JobID) (*job.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	j, ok := m.jobs[jobID.String()]
	if !ok {
		return nil, qonos.ErrJobNotFound
	}
	cp := *j
	cp.Metadata = j.Metadata.Clone()
	return &cp, nil
}

// ListJobs returns jobs after the marker in ID order.
func (m *Store) ListJobs(_ context.Context, p page.Params) ([]*job.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*job.Job, 0, len(m.jobs))
	for key, j := range m.jobs {
		if p.Marker != "" && key <= p.Marker {
			continue
		}
		cp := *j
		cp.Metadata = j.Metadata.Clone()
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, k int) bool {
		return result[i].ID.String() < result[k].ID.String()
	})
	if p.Limit > 0 && len(result) > p.Limit {
		result = result[:p.Limit]
	}
	return result, nil
}

// DeleteJob removes a job by ID. Fault records are left untouched.
func (m *Store) DeleteJob(_ context.Context, jobID id.JobID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := jobID.String()
	if _, ok := m.jobs[key]; !ok {
		return qonos.ErrJobNotFound
	}
	delete(m.jobs, key)
	return nil
}

// CompareAndSwapStatus atomically writes status and timeout if the job's
// version still matches, then returns a copy of the updated record.
func (m *Store) CompareAndSwapStatus(_ context.Context, jobID id.JobID, expectedVersion int64, status job.Status, timeout *time.Time) (*job.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[jobID.String()]
	if !ok {
		return nil, qonos.ErrJobNotFound
	}
	if j.Version != expectedVersion {
		return nil, qonos.ErrVersionConflict
	}

	j.Status = status
	if timeout != nil {
		t := timeout.UTC()
		j.Timeout = &t
	}
	j.Version++
	j.UpdatedAt = time.Now().UTC()

	cp := *j
	cp.Metadata = j.Metadata.Clone()
	return &cp, nil
}

// ──────────────────────────────────────────────────
// Fault Store
// ──────────────────────────────────────────────────

// CreateFault persists a new fault record.
func (m *Store) CreateFault(_ context.Context, f *fault.Fault) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *f
	m.faults[f.ID.String()] = &cp
	return nil
}

// GetFault retrieves a fault by ID.
func (m *Store) GetFault(_ context.Context, faultID id.FaultID) (*fault.Fault, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.faults[faultID.String()]
	if !ok {
		return nil, qonos.ErrFaultNotFound
	}
	cp := *f
	return &cp, nil
}

// ListFaultsByJob returns faults for a job after the marker in ID order.
// The job itself may already be deleted.
func (m *Store) ListFaultsByJob(_ context.Context, jobID id.JobID, p page.Params) ([]*fault.Fault, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*fault.Fault, 0)
	for key, f := range m.faults {
		if f.JobID != jobID {
			continue
		}
		if p.Marker != "" && key <= p.Marker {
			continue
		}
		cp := *f
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, k int) bool {
		return result[i].ID.String() < result[k].ID.String()
	})
	if p.Limit > 0 && len(result) > p.Limit {
		result = result[:p.Limit]
	}
	return result, nil
}
