package job

import (
	"context"
	"time"

	"github.com/frielp/qonos/id"
	"github.com/frielp/qonos/page"
)

// Store defines the persistence contract for jobs.
type Store interface {
	// CreateJob persists a newly materialized job.
	CreateJob(ctx context.Context, j *Job) error

	// GetJob retrieves a job by ID.
	GetJob(ctx context.Context, jobID id.JobID) (*Job, error)

	// ListJobs returns jobs in ID order, bounded by the page parameters.
	// The marker is exclusive: results start after it.
	ListJobs(ctx context.Context, p page.Params) ([]*Job, error)

	// DeleteJob removes a job by ID. Fault records referencing the job
	// are left untouched.
	DeleteJob(ctx context.Context, jobID id.JobID) error

	// CompareAndSwapStatus atomically writes status (and timeout, when
	// non-nil) to the job, provided its version still equals
	// expectedVersion. A nil timeout preserves the stored value. On
	// success the version increments and the updated job is returned,
	// read back in the same logical operation. Fails with
	// qonos.ErrVersionConflict when the version moved, or
	// qonos.ErrJobNotFound when the job is absent.
	CompareAndSwapStatus(ctx context.Context, jobID id.JobID, expectedVersion int64, status Status, timeout *time.Time) (*Job, error)
}
