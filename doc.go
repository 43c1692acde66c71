// Package qonos is the control-plane API for a multi-tenant task scheduling
// service. Tenants define schedules, the service materializes them into
// discrete jobs, external workers claim those jobs and report terminal
// outcomes, and error outcomes are captured as immutable fault records.
//
// qonos is designed as a library with a thin daemon on top. Import it,
// configure a store, and mount the API:
//
//	st := memory.New()
//	svc := job.NewService(st, st, fault.NewRecorder(st))
//	handler := api.New(svc, schedule.NewService(st), st).Handler()
//
// # Architecture
//
// Each subsystem (schedule, job, fault) defines its own store interface and
// a single backend implements all of them; store.Store is the composite.
// Backends: Postgres, SQLite, Redis, and Memory.
//
// All entity IDs use TypeID — type-prefixed, K-sortable, UUIDv7-based
// identifiers. List ordering and pagination markers rely on that sort order.
package qonos
