package fault

import (
	"context"

	"github.com/frielp/qonos/id"
	"github.com/frielp/qonos/page"
)

// Store defines the persistence contract for fault records. There is no
// update or bulk delete: the history is append-only.
type Store interface {
	// CreateFault persists a new fault record.
	CreateFault(ctx context.Context, f *Fault) error

	// GetFault retrieves a fault by ID.
	GetFault(ctx context.Context, faultID id.FaultID) (*Fault, error)

	// ListFaultsByJob returns faults for the given job in ID order,
	// bounded by the page parameters. The job itself may no longer exist.
	ListFaultsByJob(ctx context.Context, jobID id.JobID, p page.Params) ([]*Fault, error)
}
