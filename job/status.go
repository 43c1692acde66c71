package job

import (
	"fmt"
	"strings"
	"time"

	qonos "github.com/frielp/qonos"
)

// Status is the lifecycle state of a job. The vocabulary is open: values
// outside the known constants are stored verbatim after uppercasing, so
// operators can extend the terminal set without a control-plane release.
type Status string

const (
	// StatusQueued is the initial status, assigned at materialization.
	StatusQueued Status = "QUEUED"
	// StatusRunning means a worker has claimed the job.
	StatusRunning Status = "RUNNING"
	// StatusDone means the job finished successfully.
	StatusDone Status = "DONE"
	// StatusError means the job failed; the transition records a fault.
	StatusError Status = "ERROR"
	// StatusCancelled means the job was cancelled by an operator.
	StatusCancelled Status = "CANCELLED"
)

// Normalize uppercases a caller-supplied status value. Uppercasing is the
// only aliasing performed.
func Normalize(s string) Status {
	return Status(strings.ToUpper(s))
}

// Known reports whether the status is part of the known vocabulary.
func (s Status) Known() bool {
	switch s {
	case StatusQueued, StatusRunning, StatusDone, StatusError, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether the status ends the lifecycle. Anything other
// than QUEUED and RUNNING is treated as terminal, including unrecognized
// vocabulary.
func (s Status) Terminal() bool {
	return s != StatusQueued && s != StatusRunning
}

// ParseTimeout parses an ISO-8601 lease deadline and normalizes it to UTC.
func ParseTimeout(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", qonos.ErrInvalidTimeout, s)
	}
	return t.UTC(), nil
}
