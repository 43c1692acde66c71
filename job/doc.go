// Package job is the core of the control plane: materialization of jobs
// from schedules, the status-transition protocol, and the external job
// representation.
//
// # Job Entity
//
// A [Job] is one concrete, executable instance of a schedule's action. Its
// tenant, action, and metadata are copied from the schedule at
// materialization and never re-derived. Status progresses through
//
//	QUEUED → RUNNING → DONE | ERROR | CANCELLED
//
// Values outside that vocabulary are accepted (uppercased) for forward
// compatibility; only ERROR carries extra behavior — it triggers fault
// recording against the post-transition job.
//
// # Concurrency
//
// Workers report status concurrently. Every status write goes through the
// store's compare-and-set primitive keyed on job ID plus version; the
// [Service] retries a bounded number of times on version conflict and then
// fails explicitly. The core never serializes callers itself.
package job
