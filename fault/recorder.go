package fault

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frielp/qonos/id"
	"github.com/frielp/qonos/job"
)

// Recorder derives fault records from failed jobs. It is invoked by the
// status engine after a successful ERROR transition, with the job as it
// was read back post-write.
type Recorder struct {
	store  Store
	logger *slog.Logger
}

// Option configures the Recorder.
type Option func(*Recorder)

// WithLogger sets the logger for the recorder.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) { r.logger = logger }
}

// NewRecorder creates a fault recorder.
func NewRecorder(store Store, opts ...Option) *Recorder {
	r := &Recorder{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record snapshots the job's context into a new fault record. The metadata
// snapshot is taken from the job value passed in, never re-fetched. Exactly
// one fault is persisted per call; duplicate ERROR reports append duplicate
// records.
func (r *Recorder) Record(ctx context.Context, message *string, j *job.Job) error {
	worker := UnassignedWorker
	if !j.WorkerID.IsNil() {
		worker = j.WorkerID.String()
	}

	snapshot, err := j.Metadata.Snapshot()
	if err != nil {
		return fmt.Errorf("snapshot job metadata: %w", err)
	}

	f := &Fault{
		ID:         id.NewFaultID(),
		JobID:      j.ID,
		ScheduleID: j.ScheduleID,
		TenantID:   j.TenantID,
		Action:     j.Action,
		WorkerID:   worker,
		Metadata:   snapshot,
		Message:    message,
		CreatedAt:  time.Now().UTC(),
	}
	if err := r.store.CreateFault(ctx, f); err != nil {
		return fmt.Errorf("create fault: %w", err)
	}

	r.logger.Info("fault recorded",
		slog.String("fault_id", f.ID.String()),
		slog.String("job_id", j.ID.String()),
		slog.String("worker_id", worker),
	)
	return nil
}
