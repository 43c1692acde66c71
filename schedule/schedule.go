package schedule

import (
	"time"

	qonos "github.com/frielp/qonos"
	"github.com/frielp/qonos/id"
)

// Schedule is a tenant-defined recurring task template. Jobs are
// materialized from it; the job core treats it as read-only and copies
// tenant, action, and metadata at materialization time.
type Schedule struct {
	ID        id.ScheduleID  `json:"id"`
	TenantID  string         `json:"tenant_id"`
	Action    string         `json:"action"`
	Metadata  qonos.Metadata `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
