package fault

import (
	"time"

	"github.com/frielp/qonos/id"
)

// UnassignedWorker is the worker_id sentinel recorded when a job failed
// before any worker claimed it.
const UnassignedWorker = "UNASSIGNED"

// Fault is an immutable record of a job's context at the moment of an
// ERROR transition. The back-reference to the job is non-owning: the job
// may be deleted later while the fault remains.
type Fault struct {
	ID         id.FaultID    `json:"id"`
	JobID      id.JobID      `json:"job_id"`
	ScheduleID id.ScheduleID `json:"schedule_id"`
	TenantID   string        `json:"tenant_id"`
	Action     string        `json:"action"`
	WorkerID   string        `json:"worker_id"`

	// Metadata is the stable textual snapshot of the job's flattened
	// metadata pairs at transition time.
	Metadata string `json:"metadata"`

	// Message is the worker-supplied error_message, nil when absent.
	Message *string `json:"message"`

	CreatedAt time.Time `json:"created_at"`
}
