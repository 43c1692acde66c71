package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	qonos "github.com/frielp/qonos"
	"github.com/frielp/qonos/id"
	"github.com/frielp/qonos/page"
)

var (
	// ErrMissingTenant is returned when a create request omits the tenant.
	ErrMissingTenant = errors.New("qonos: tenant_id is required")
	// ErrMissingAction is returned when a create request omits the action.
	ErrMissingAction = errors.New("qonos: action is required")
)

// CreateRequest carries the caller-supplied fields for a new schedule.
type CreateRequest struct {
	TenantID string         `json:"tenant_id"`
	Action   string         `json:"action"`
	Metadata qonos.Metadata `json:"metadata,omitempty"`
}

// Service provides schedule CRUD over a Store.
type Service struct {
	store Store
}

// NewService creates a schedule service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create validates the request and persists a new schedule.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Schedule, error) {
	if req.TenantID == "" {
		return nil, ErrMissingTenant
	}
	if req.Action == "" {
		return nil, ErrMissingAction
	}

	now := time.Now().UTC()
	sched := &Schedule{
		ID:        id.NewScheduleID(),
		TenantID:  req.TenantID,
		Action:    req.Action,
		Metadata:  req.Metadata.Clone(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateSchedule(ctx, sched); err != nil {
		return nil, fmt.Errorf("create schedule: %w", err)
	}
	return sched, nil
}

// Get retrieves a schedule by ID.
func (s *Service) Get(ctx context.Context, scheduleID id.ScheduleID) (*Schedule, error) {
	return s.store.GetSchedule(ctx, scheduleID)
}

// List returns schedules bounded by the page parameters.
func (s *Service) List(ctx context.Context, p page.Params) ([]*Schedule, error) {
	return s.store.ListSchedules(ctx, p)
}

// Delete removes a schedule. Existing jobs keep their copied metadata.
func (s *Service) Delete(ctx context.Context, scheduleID id.ScheduleID) error {
	return s.store.DeleteSchedule(ctx, scheduleID)
}
