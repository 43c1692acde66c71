package job

import (
	"testing"
	"time"

	qonos "github.com/frielp/qonos"
	"github.com/frielp/qonos/id"
)

func TestNewView(t *testing.T) {
	t.Parallel()

	deadline := time.Date(2026, 9, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	j := &Job{
		ID:         id.NewJobID(),
		ScheduleID: id.NewScheduleID(),
		TenantID:   "t1",
		Action:     "snapshot",
		Status:     StatusRunning,
		Timeout:    &deadline,
		Metadata: qonos.Metadata{
			{Key: "k", Value: "first"},
			{Key: "k", Value: "second"},
		},
		Version:   2,
		CreatedAt: time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}

	v := NewView(j)

	if v.ID != j.ID.String() {
		t.Errorf("ID = %q, want %q", v.ID, j.ID.String())
	}
	if v.WorkerID != nil {
		t.Errorf("WorkerID = %v, want nil for unclaimed job", v.WorkerID)
	}
	if v.Timeout == nil || *v.Timeout != "2026-09-01T10:00:00Z" {
		t.Errorf("Timeout = %v, want 2026-09-01T10:00:00Z", v.Timeout)
	}
	if v.CreatedAt != "2026-09-01T09:30:00Z" {
		t.Errorf("CreatedAt = %q, want RFC 3339 UTC", v.CreatedAt)
	}
	// Duplicate keys collapse; the last pair wins.
	if v.Metadata["k"] != "second" {
		t.Errorf(`Metadata["k"] = %q, want "second"`, v.Metadata["k"])
	}
}

func TestNewViewNilTimeout(t *testing.T) {
	t.Parallel()

	j := &Job{
		ID:         id.NewJobID(),
		ScheduleID: id.NewScheduleID(),
		Status:     StatusQueued,
	}
	v := NewView(j)
	if v.Timeout != nil {
		t.Errorf("Timeout = %v, want nil", v.Timeout)
	}
	if v.Metadata == nil {
		t.Error("Metadata = nil, want empty map")
	}
}
