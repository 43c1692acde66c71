package schedule_test

import (
	"context"
	"errors"
	"testing"

	qonos "github.com/frielp/qonos"
	"github.com/frielp/qonos/page"
	"github.com/frielp/qonos/schedule"
	"github.com/frielp/qonos/store/memory"
)

func TestCreateAssignsIdentity(t *testing.T) {
	t.Parallel()
	svc := schedule.NewService(memory.New())
	ctx := context.Background()

	sched, err := svc.Create(ctx, schedule.CreateRequest{
		TenantID: "t1",
		Action:   "snapshot",
		Metadata: qonos.Metadata{{Key: "k", Value: "v"}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if sched.ID.IsNil() {
		t.Error("ID is nil, want assigned")
	}
	if sched.CreatedAt.IsZero() || sched.UpdatedAt.IsZero() {
		t.Error("timestamps are zero, want assigned")
	}

	got, err := svc.Get(ctx, sched.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.TenantID != "t1" || got.Action != "snapshot" {
		t.Errorf("got %q/%q, want t1/snapshot", got.TenantID, got.Action)
	}
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()
	svc := schedule.NewService(memory.New())
	ctx := context.Background()

	if _, err := svc.Create(ctx, schedule.CreateRequest{Action: "snapshot"}); !errors.Is(err, schedule.ErrMissingTenant) {
		t.Errorf("err = %v, want ErrMissingTenant", err)
	}
	if _, err := svc.Create(ctx, schedule.CreateRequest{TenantID: "t1"}); !errors.Is(err, schedule.ErrMissingAction) {
		t.Errorf("err = %v, want ErrMissingAction", err)
	}
}

func TestCreateClonesMetadata(t *testing.T) {
	t.Parallel()
	svc := schedule.NewService(memory.New())
	ctx := context.Background()

	meta := qonos.Metadata{{Key: "k", Value: "v"}}
	sched, err := svc.Create(ctx, schedule.CreateRequest{TenantID: "t1", Action: "snapshot", Metadata: meta})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	meta[0].Value = "mutated"

	got, err := svc.Get(ctx, sched.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Metadata[0].Value != "v" {
		t.Errorf("stored metadata = %q, want %q", got.Metadata[0].Value, "v")
	}
}

func TestListAndDelete(t *testing.T) {
	t.Parallel()
	svc := schedule.NewService(memory.New())
	ctx := context.Background()

	for range 3 {
		if _, err := svc.Create(ctx, schedule.CreateRequest{TenantID: "t1", Action: "snapshot"}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	scheds, err := svc.List(ctx, page.Params{Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(scheds) != 3 {
		t.Fatalf("len = %d, want 3", len(scheds))
	}

	if err := svc.Delete(ctx, scheds[0].ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, scheds[0].ID); !errors.Is(err, qonos.ErrScheduleNotFound) {
		t.Errorf("get after delete = %v, want ErrScheduleNotFound", err)
	}
}
