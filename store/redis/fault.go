package redis

import (
	"context"
	"fmt"
	"time"

	qonos "github.com/frielp/qonos"
	"github.com/frielp/qonos/fault"
	"github.com/frielp/qonos/id"
	"github.com/frielp/qonos/page"
)

// CreateFault stores the fault as a Hash and indexes it under its job.
// Nothing removes the index when the job goes away; faults outlive jobs.
func (s *Store) CreateFault(ctx context.Context, f *fault.Fault) error {
	fID := f.ID.String()

	fields := map[string]interface{}{
		"id":          fID,
		"job_id":      f.JobID.String(),
		"schedule_id": f.ScheduleID.String(),
		"tenant_id":   f.TenantID,
		"action":      f.Action,
		"worker_id":   f.WorkerID,
		"metadata":    f.Metadata,
		"created_at":  f.CreatedAt.Format(time.RFC3339Nano),
	}
	if f.Message != nil {
		fields["message"] = *f.Message
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, faultKey(fID), fields)
	pipe.SAdd(ctx, faultIdxKey(f.JobID.String()), fID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("qonos/redis: create fault: %w", err)
	}
	return nil
}

// GetFault retrieves a fault by ID.
func (s *Store) GetFault(ctx context.Context, faultID id.FaultID) (*fault.Fault, error) {
	vals, err := s.client.HGetAll(ctx, faultKey(faultID.String())).Result()
	if err != nil {
		return nil, fmt.Errorf("qonos/redis: get fault: %w", err)
	}
	if len(vals) == 0 {
		return nil, qonos.ErrFaultNotFound
	}
	return mapToFault(vals)
}

// ListFaultsByJob returns faults for a job after the marker in ID order.
func (s *Store) ListFaultsByJob(ctx context.Context, jobID id.JobID, p page.Params) ([]*fault.Fault, error) {
	ids, err := s.client.SMembers(ctx, faultIdxKey(jobID.String())).Result()
	if err != nil {
		return nil, fmt.Errorf("qonos/redis: list faults smembers: %w", err)
	}

	ids = pageIDs(ids, p)

	faults := make([]*fault.Fault, 0, len(ids))
	for _, fID := range ids {
		vals, getErr := s.client.HGetAll(ctx, faultKey(fID)).Result()
		if getErr != nil || len(vals) == 0 {
			continue
		}
		f, mapErr := mapToFault(vals)
		if mapErr != nil {
			return nil, mapErr
		}
		faults = append(faults, f)
	}
	return faults, nil
}

func mapToFault(m map[string]string) (*fault.Fault, error) {
	fID, err := id.ParseFaultID(m["id"])
	if err != nil {
		return nil, fmt.Errorf("qonos/redis: parse fault id: %w", err)
	}
	jID, err := id.ParseJobID(m["job_id"])
	if err != nil {
		return nil, fmt.Errorf("qonos/redis: parse job id: %w", err)
	}
	schedID, err := id.ParseScheduleID(m["schedule_id"])
	if err != nil {
		return nil, fmt.Errorf("qonos/redis: parse schedule id: %w", err)
	}

	createdAt, _ := time.Parse(time.RFC3339Nano, m["created_at"]) //nolint:errcheck // best-effort parse from trusted Redis data

	f := &fault.Fault{
		ID:         fID,
		JobID:      jID,
		ScheduleID: schedID,
		TenantID:   m["tenant_id"],
		Action:     m["action"],
		WorkerID:   m["worker_id"],
		Metadata:   m["metadata"],
		CreatedAt:  createdAt,
	}
	if msg, ok := m["message"]; ok {
		f.Message = &msg
	}
	return f, nil
}
