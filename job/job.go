package job

import (
	"time"

	qonos "github.com/frielp/qonos"
	"github.com/frielp/qonos/id"
)

// Job represents one executable instance of a schedule's action, tracked
// through a status lifecycle and reported on by external workers.
type Job struct {
	ID         id.JobID      `json:"id"`
	ScheduleID id.ScheduleID `json:"schedule_id"`

	// TenantID and Action are copied from the schedule at materialization
	// and immutable thereafter.
	TenantID string `json:"tenant_id"`
	Action   string `json:"action"`

	Status Status `json:"status"`

	// WorkerID is set when an external worker claims the job. Nil while
	// unclaimed; fault snapshots substitute the UNASSIGNED sentinel.
	WorkerID id.WorkerID `json:"worker_id,omitempty"`

	// Timeout is the lease deadline reported by the worker, normalized
	// to UTC. Nil until a worker supplies one.
	Timeout *time.Time `json:"timeout,omitempty"`

	// Metadata is a point-in-time copy of the schedule's pairs. Later
	// schedule edits never reach it.
	Metadata qonos.Metadata `json:"metadata,omitempty"`

	// Version increments on every status write; compare-and-set updates
	// key on it.
	Version int64 `json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
