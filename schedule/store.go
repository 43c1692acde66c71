package schedule

import (
	"context"

	"github.com/frielp/qonos/id"
	"github.com/frielp/qonos/page"
)

// Store defines the persistence contract for schedules.
type Store interface {
	// CreateSchedule persists a new schedule.
	CreateSchedule(ctx context.Context, s *Schedule) error

	// GetSchedule retrieves a schedule by ID.
	GetSchedule(ctx context.Context, scheduleID id.ScheduleID) (*Schedule, error)

	// ListSchedules returns schedules in ID order, bounded by the page
	// parameters. The marker is exclusive: results start after it.
	ListSchedules(ctx context.Context, p page.Params) ([]*Schedule, error)

	// DeleteSchedule removes a schedule by ID. Jobs already materialized
	// from it are unaffected.
	DeleteSchedule(ctx context.Context, scheduleID id.ScheduleID) error
}
