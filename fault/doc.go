// Package fault provides the append-only audit trail for failed jobs.
//
// When a job transitions to ERROR, the status engine calls
// [Recorder.Record] with the post-transition job. The recorder snapshots
// the job's identity and metadata as they existed at that moment — the
// metadata is not re-fetched, and the record is never mutated or deleted
// afterwards. Deleting the job leaves its faults retrievable.
//
// # Fault
//
// A [Fault] captures:
//   - JobID / ScheduleID / TenantID / Action: job identity at failure time
//   - WorkerID: the reporting worker, or "UNASSIGNED" if none had claimed it
//   - Metadata: canonical JSON snapshot of the job's flattened metadata
//   - Message: the worker's error_message, nil when absent
//
// Fault history is not deduplicated: a repeated ERROR transition appends
// another record.
package fault
