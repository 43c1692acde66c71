// Package api exposes the control-plane HTTP surface: schedule CRUD, job
// materialization and lifecycle, the worker status protocol, and fault
// history. Handlers are thin; validation and semantics live in the
// services.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frielp/qonos/fault"
	"github.com/frielp/qonos/job"
	"github.com/frielp/qonos/schedule"
)

// Pinger reports backend connectivity for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// API wires all HTTP handlers together.
type API struct {
	jobs      *job.Service
	schedules *schedule.Service
	faults    fault.Store
	health    Pinger
	logger    *slog.Logger
}

// Option configures the API.
type Option func(*API)

// WithLogger sets the logger for the API.
func WithLogger(logger *slog.Logger) Option {
	return func(a *API) { a.logger = logger }
}

// WithHealth sets the backend checked by GET /healthz.
func WithHealth(p Pinger) Option {
	return func(a *API) { a.health = p }
}

// New creates an API over the job and schedule services and the fault
// store.
func New(jobs *job.Service, schedules *schedule.Service, faults fault.Store, opts ...Option) *API {
	a := &API{
		jobs:      jobs,
		schedules: schedules,
		faults:    faults,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Handler returns the fully assembled http.Handler with all routes.
func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/jobs", a.listJobs)
	mux.HandleFunc("POST /v1/jobs", a.createJob)
	mux.HandleFunc("GET /v1/jobs/{jobID}", a.getJob)
	mux.HandleFunc("DELETE /v1/jobs/{jobID}", a.deleteJob)
	mux.HandleFunc("PUT /v1/jobs/{jobID}/status", a.updateJobStatus)
	mux.HandleFunc("GET /v1/jobs/{jobID}/faults", a.listJobFaults)

	mux.HandleFunc("GET /v1/schedules", a.listSchedules)
	mux.HandleFunc("POST /v1/schedules", a.createSchedule)
	mux.HandleFunc("GET /v1/schedules/{scheduleID}", a.getSchedule)
	mux.HandleFunc("DELETE /v1/schedules/{scheduleID}", a.deleteSchedule)

	mux.HandleFunc("GET /v1/faults/{faultID}", a.getFault)

	mux.HandleFunc("GET /healthz", a.healthz)

	return mux
}

func (a *API) healthz(w http.ResponseWriter, r *http.Request) {
	if a.health != nil {
		if err := a.health.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
