package redis

// Redis key naming conventions for qonos data.
// All keys are prefixed with "qonos:" to avoid collisions.

const keyPrefix = "qonos:"

// ── Schedule keys ──

// scheduleKey returns the key for a schedule entity: qonos:schedule:{id}
func scheduleKey(id string) string { return keyPrefix + "schedule:" + id }

// scheduleIDsKey is the Set tracking all schedule IDs for enumeration.
const scheduleIDsKey = keyPrefix + "schedule_ids"

// ── Job keys ──

// jobKey returns the key for a job entity: qonos:job:{id}
func jobKey(id string) string { return keyPrefix + "job:" + id }

// jobIDsKey is the Set tracking all job IDs for enumeration.
const jobIDsKey = keyPrefix + "job_ids"

// ── Fault keys ──

// faultKey returns the key for a fault entity: qonos:fault:{id}
func faultKey(id string) string { return keyPrefix + "fault:" + id }

// faultIdxKey returns the Set tracking fault IDs recorded for a job.
// It is never cleaned up when the job is deleted; faults outlive jobs.
func faultIdxKey(jobID string) string { return keyPrefix + "fault_idx:" + jobID }
