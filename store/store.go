package store

import (
	"context"

	"github.com/frielp/qonos/fault"
	"github.com/frielp/qonos/job"
	"github.com/frielp/qonos/schedule"
)

// Store is the aggregate persistence interface. Each subsystem store is a
// composable interface; a single backend (postgres, sqlite, redis, memory)
// implements all of them.
type Store interface {
	schedule.Store
	job.Store
	fault.Store

	// Migrate runs all schema migrations.
	Migrate(ctx context.Context) error

	// Ping checks backend connectivity.
	Ping(ctx context.Context) error

	// Close closes the store connection.
	Close() error
}
