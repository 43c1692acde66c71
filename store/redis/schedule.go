package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	qonos "github.com/frielp/qonos"
	"github.com/frielp/qonos/id"
	"github.com/frielp/qonos/page"
	"github.com/frielp/qonos/schedule"
)

// CreateSchedule stores the schedule as a Hash and tracks its ID.
func (s *Store) CreateSchedule(ctx context.Context, sched *schedule.Schedule) error {
	sID := sched.ID.String()
	key := scheduleKey(sID)

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("qonos/redis: create schedule check exists: %w", err)
	}
	if exists > 0 {
		return qonos.ErrScheduleAlreadyExists
	}

	meta, err := msgpack.Marshal(sched.Metadata)
	if err != nil {
		return fmt.Errorf("qonos/redis: encode schedule metadata: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"id":         sID,
		"tenant_id":  sched.TenantID,
		"action":     sched.Action,
		"metadata":   string(meta),
		"created_at": sched.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": sched.UpdatedAt.Format(time.RFC3339Nano),
	})
	pipe.SAdd(ctx, scheduleIDsKey, sID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("qonos/redis: create schedule: %w", err)
	}
	return nil
}

// GetSchedule retrieves a schedule by ID.
func (s *Store) GetSchedule(ctx context.Context, scheduleID id.ScheduleID) (*schedule.Schedule, error) {
	return s.getScheduleByKey(ctx, scheduleKey(scheduleID.String()))
}

// ListSchedules returns schedules after the marker in ID order.
func (s *Store) ListSchedules(ctx context.Context, p page.Params) ([]*schedule.Schedule, error) {
	ids, err := s.client.SMembers(ctx, scheduleIDsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("qonos/redis: list schedules smembers: %w", err)
	}

	ids = pageIDs(ids, p)

	scheds := make([]*schedule.Schedule, 0, len(ids))
	for _, sID := range ids {
		sched, getErr := s.getScheduleByKey(ctx, scheduleKey(sID))
		if getErr != nil {
			continue // entry removed between SMEMBERS and HGETALL
		}
		scheds = append(scheds, sched)
	}
	return scheds, nil
}

// DeleteSchedule removes a schedule by ID.
func (s *Store) DeleteSchedule(ctx context.Context, scheduleID id.ScheduleID) error {
	sID := scheduleID.String()
	key := scheduleKey(sID)

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("qonos/redis: delete schedule check exists: %w", err)
	}
	if exists == 0 {
		return qonos.ErrScheduleNotFound
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.SRem(ctx, scheduleIDsKey, sID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("qonos/redis: delete schedule: %w", err)
	}
	return nil
}

func (s *Store) getScheduleByKey(ctx context.Context, key string) (*schedule.Schedule, error) {
	vals, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("qonos/redis: get schedule: %w", err)
	}
	if len(vals) == 0 {
		return nil, qonos.ErrScheduleNotFound
	}

	sID, err := id.ParseScheduleID(vals["id"])
	if err != nil {
		return nil, fmt.Errorf("qonos/redis: parse schedule id: %w", err)
	}

	var meta qonos.Metadata
	if raw := vals["metadata"]; raw != "" {
		if err := msgpack.Unmarshal([]byte(raw), &meta); err != nil {
			return nil, fmt.Errorf("qonos/redis: decode schedule metadata: %w", err)
		}
	}

	createdAt, _ := time.Parse(time.RFC3339Nano, vals["created_at"]) //nolint:errcheck // best-effort parse from trusted Redis data
	updatedAt, _ := time.Parse(time.RFC3339Nano, vals["updated_at"]) //nolint:errcheck // best-effort parse from trusted Redis data

	return &schedule.Schedule{
		ID:        sID,
		TenantID:  vals["tenant_id"],
		Action:    vals["action"],
		Metadata:  meta,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}
