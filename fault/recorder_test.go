package fault_test

import (
	"context"
	"testing"
	"time"

	qonos "github.com/frielp/qonos"
	"github.com/frielp/qonos/fault"
	"github.com/frielp/qonos/id"
	"github.com/frielp/qonos/job"
	"github.com/frielp/qonos/page"
	"github.com/frielp/qonos/store/memory"
)

func failedJob(meta qonos.Metadata) *job.Job {
	now := time.Now().UTC()
	return &job.Job{
		ID:         id.NewJobID(),
		ScheduleID: id.NewScheduleID(),
		TenantID:   "t1",
		Action:     "snapshot",
		Status:     job.StatusError,
		Metadata:   meta,
		Version:    2,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestRecordSnapshotsJobContext(t *testing.T) {
	t.Parallel()
	st := memory.New()
	r := fault.NewRecorder(st)
	ctx := context.Background()

	j := failedJob(qonos.Metadata{{Key: "b", Value: "2"}, {Key: "a", Value: "1"}})
	msg := "worker lost lease"
	if err := r.Record(ctx, &msg, j); err != nil {
		t.Fatalf("Record: %v", err)
	}

	faults, err := st.ListFaultsByJob(ctx, j.ID, page.Params{Limit: 10})
	if err != nil {
		t.Fatalf("ListFaultsByJob: %v", err)
	}
	if len(faults) != 1 {
		t.Fatalf("len(faults) = %d, want 1", len(faults))
	}

	f := faults[0]
	if f.JobID != j.ID || f.ScheduleID != j.ScheduleID {
		t.Errorf("references = %v/%v, want %v/%v", f.JobID, f.ScheduleID, j.ID, j.ScheduleID)
	}
	if f.TenantID != "t1" || f.Action != "snapshot" {
		t.Errorf("context = %q/%q, want t1/snapshot", f.TenantID, f.Action)
	}
	// Snapshot keys are sorted by the JSON encoder.
	if f.Metadata != `{"a":"1","b":"2"}` {
		t.Errorf("Metadata = %q, want canonical snapshot", f.Metadata)
	}
	if f.Message == nil || *f.Message != msg {
		t.Errorf("Message = %v, want %q", f.Message, msg)
	}
}

func TestRecordUnclaimedJobUsesSentinel(t *testing.T) {
	t.Parallel()
	st := memory.New()
	r := fault.NewRecorder(st)
	ctx := context.Background()

	j := failedJob(nil)
	if err := r.Record(ctx, nil, j); err != nil {
		t.Fatalf("Record: %v", err)
	}

	faults, err := st.ListFaultsByJob(ctx, j.ID, page.Params{Limit: 10})
	if err != nil {
		t.Fatalf("ListFaultsByJob: %v", err)
	}
	if faults[0].WorkerID != fault.UnassignedWorker {
		t.Errorf("WorkerID = %q, want %q", faults[0].WorkerID, fault.UnassignedWorker)
	}
	if faults[0].Message != nil {
		t.Errorf("Message = %v, want nil", faults[0].Message)
	}
}

func TestRecordClaimedJobKeepsWorker(t *testing.T) {
	t.Parallel()
	st := memory.New()
	r := fault.NewRecorder(st)
	ctx := context.Background()

	j := failedJob(nil)
	j.WorkerID = id.NewWorkerID()
	if err := r.Record(ctx, nil, j); err != nil {
		t.Fatalf("Record: %v", err)
	}

	faults, err := st.ListFaultsByJob(ctx, j.ID, page.Params{Limit: 10})
	if err != nil {
		t.Fatalf("ListFaultsByJob: %v", err)
	}
	if faults[0].WorkerID != j.WorkerID.String() {
		t.Errorf("WorkerID = %q, want %q", faults[0].WorkerID, j.WorkerID.String())
	}
}
