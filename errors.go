package qonos

import "errors"

var (
	// Not found errors.
	ErrScheduleNotFound = errors.New("qonos: schedule not found")
	ErrJobNotFound      = errors.New("qonos: job not found")
	ErrFaultNotFound    = errors.New("qonos: fault not found")

	// Conflict errors.
	ErrJobAlreadyExists      = errors.New("qonos: job already exists")
	ErrScheduleAlreadyExists = errors.New("qonos: schedule already exists")

	// ErrVersionConflict is returned by compare-and-set status updates when
	// the job's version no longer matches the expected value. The status
	// transition engine retries a bounded number of times before surfacing it.
	ErrVersionConflict = errors.New("qonos: job version conflict")

	// Validation errors. These map to client errors and are never retried.
	ErrInvalidLimit      = errors.New("qonos: limit must be a positive integer")
	ErrMissingScheduleID = errors.New("qonos: schedule_id is required")
	ErrMissingStatus     = errors.New("qonos: status is required")
	ErrInvalidTimeout    = errors.New("qonos: timeout must be an ISO-8601 timestamp")
)
