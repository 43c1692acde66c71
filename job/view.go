package job

import "time"

// View is the external representation of a job: timestamps in one
// canonical serializable format, metadata flattened to a plain map.
type View struct {
	ID         string            `json:"id"`
	ScheduleID string            `json:"schedule_id"`
	TenantID   string            `json:"tenant_id"`
	Action     string            `json:"action"`
	Status     Status            `json:"status"`
	WorkerID   *string           `json:"worker_id"`
	Timeout    *string           `json:"timeout"`
	CreatedAt  string            `json:"created_at"`
	UpdatedAt  string            `json:"updated_at"`
	Metadata   map[string]string `json:"metadata"`
}

// NewView shapes a stored job for external consumption. Flattening the
// metadata collapses duplicate keys (last pair wins); see
// qonos.Metadata.Flatten.
func NewView(j *Job) *View {
	v := &View{
		ID:         j.ID.String(),
		ScheduleID: j.ScheduleID.String(),
		TenantID:   j.TenantID,
		Action:     j.Action,
		Status:     j.Status,
		CreatedAt:  FormatTime(j.CreatedAt),
		UpdatedAt:  FormatTime(j.UpdatedAt),
		Metadata:   j.Metadata.Flatten(),
	}
	if !j.WorkerID.IsNil() {
		w := j.WorkerID.String()
		v.WorkerID = &w
	}
	if j.Timeout != nil {
		t := FormatTime(*j.Timeout)
		v.Timeout = &t
	}
	return v
}

// NewViews shapes a list of stored jobs.
func NewViews(jobs []*Job) []*View {
	views := make([]*View, len(jobs))
	for i, j := range jobs {
		views[i] = NewView(j)
	}
	return views
}

// FormatTime renders a timestamp in the canonical wire format: RFC 3339
// in UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
