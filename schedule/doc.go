// Package schedule defines the recurring task templates that jobs are
// materialized from.
//
// A [Schedule] carries the tenant, the opaque action identifier, and an
// ordered list of metadata pairs. The job subsystem copies all three at
// materialization time; editing a schedule afterwards never touches jobs
// that already exist. Trigger evaluation (deciding when a schedule fires)
// is out of scope here — an external scheduler process drives job creation
// through the jobs API.
package schedule
