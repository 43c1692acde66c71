package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	qonos "github.com/frielp/qonos"
	"github.com/frielp/qonos/id"
	"github.com/frielp/qonos/page"
	"github.com/frielp/qonos/schedule"
)

// casAttempts bounds the compare-and-set retry loop for a status update.
// After this many version conflicts the update fails with
// qonos.ErrVersionConflict.
const casAttempts = 3

// Recorder captures job context into a durable fault record after an ERROR
// transition. Implemented by fault.Recorder.
type Recorder interface {
	Record(ctx context.Context, message *string, j *Job) error
}

// CreateRequest carries the caller-supplied fields for materializing a job.
// Only the schedule reference is honored; every other job field derives
// from the schedule or the store.
type CreateRequest struct {
	ScheduleID string `json:"schedule_id"`
}

// StatusUpdate is the payload of a worker status report.
type StatusUpdate struct {
	Status string `json:"status"`
	// Timeout, when present, is an ISO-8601 lease deadline.
	Timeout string `json:"timeout,omitempty"`
	// ErrorMessage is attached to the fault record on an ERROR transition.
	ErrorMessage *string `json:"error_message,omitempty"`
}

// StatusResult is the minimal response of a status update. Workers report
// at heartbeat frequency, so this endpoint never returns the full record.
type StatusResult struct {
	Status  Status     `json:"status"`
	Timeout *time.Time `json:"timeout"`
}

// Service implements the job lifecycle: materialization from schedules,
// status transitions, and query/delete.
type Service struct {
	jobs      Store
	schedules schedule.Store
	recorder  Recorder
	logger    *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService creates a job service.
func NewService(jobs Store, schedules schedule.Store, recorder Recorder, opts ...Option) *Service {
	s := &Service{
		jobs:      jobs,
		schedules: schedules,
		recorder:  recorder,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create materializes a new job from the referenced schedule. The job
// starts QUEUED with the schedule's tenant, action, and a point-in-time
// copy of its metadata pairs. The schedule itself is never mutated.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Job, error) {
	if req.ScheduleID == "" {
		return nil, qonos.ErrMissingScheduleID
	}

	scheduleID, err := id.ParseScheduleID(req.ScheduleID)
	if err != nil {
		// An unparseable reference names no schedule.
		return nil, fmt.Errorf("%w: %q", qonos.ErrScheduleNotFound, req.ScheduleID)
	}

	sched, err := s.schedules.GetSchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	j := &Job{
		ID:         id.NewJobID(),
		ScheduleID: sched.ID,
		TenantID:   sched.TenantID,
		Action:     sched.Action,
		Status:     StatusQueued,
		Metadata:   sched.Metadata.Clone(),
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.jobs.CreateJob(ctx, j); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	s.logger.Info("job materialized",
		slog.String("job_id", j.ID.String()),
		slog.String("schedule_id", sched.ID.String()),
		slog.String("tenant_id", j.TenantID),
		slog.String("action", j.Action),
	)
	return j, nil
}

// UpdateStatus validates and applies a status transition. The status is
// uppercased; a supplied timeout is parsed from ISO-8601 and normalized to
// UTC, then written atomically with the status via compare-and-set. On an
// ERROR transition the recorder snapshots the post-write job. A repeated
// ERROR report creates another fault; the history is append-only.
func (s *Service) UpdateStatus(ctx context.Context, jobID id.JobID, upd StatusUpdate) (StatusResult, error) {
	if upd.Status == "" {
		return StatusResult{}, qonos.ErrMissingStatus
	}

	status := Normalize(upd.Status)
	if !status.Known() {
		s.logger.Warn("unrecognized status accepted",
			slog.String("job_id", jobID.String()),
			slog.String("status", string(status)),
		)
	}

	var timeout *time.Time
	if upd.Timeout != "" {
		t, err := ParseTimeout(upd.Timeout)
		if err != nil {
			return StatusResult{}, err
		}
		timeout = &t
	}

	var updated *Job
	for attempt := 0; attempt < casAttempts; attempt++ {
		current, err := s.jobs.GetJob(ctx, jobID)
		if err != nil {
			return StatusResult{}, err
		}

		updated, err = s.jobs.CompareAndSwapStatus(ctx, jobID, current.Version, status, timeout)
		if errors.Is(err, qonos.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return StatusResult{}, err
		}
		break
	}
	if updated == nil {
		return StatusResult{}, fmt.Errorf("%w: job %s after %d attempts",
			qonos.ErrVersionConflict, jobID.String(), casAttempts)
	}

	if updated.Status == StatusError {
		if err := s.recorder.Record(ctx, upd.ErrorMessage, updated); err != nil {
			return StatusResult{}, fmt.Errorf("record fault: %w", err)
		}
	}

	return StatusResult{Status: updated.Status, Timeout: updated.Timeout}, nil
}

// Get retrieves a job by ID.
func (s *Service) Get(ctx context.Context, jobID id.JobID) (*Job, error) {
	return s.jobs.GetJob(ctx, jobID)
}

// List returns jobs bounded by the page parameters.
func (s *Service) List(ctx context.Context, p page.Params) ([]*Job, error) {
	return s.jobs.ListJobs(ctx, p)
}

// Delete removes a job irrevocably. Fault history referencing the job
// outlives it.
func (s *Service) Delete(ctx context.Context, jobID id.JobID) error {
	return s.jobs.DeleteJob(ctx, jobID)
}
