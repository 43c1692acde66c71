package api

import (
	"encoding/json"
	"net/http"

	qonos "github.com/frielp/qonos"
	"github.com/frielp/qonos/id"
	"github.com/frielp/qonos/job"
	"github.com/frielp/qonos/page"
)

func (a *API) listJobs(w http.ResponseWriter, r *http.Request) {
	p, err := page.Resolve(r.URL.Query().Get("limit"), r.URL.Query().Get("marker"))
	if err != nil {
		writeError(w, err)
		return
	}

	jobs, err := a.jobs.List(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"jobs": job.NewViews(jobs)})
}

func (a *API) createJob(w http.ResponseWriter, r *http.Request) {
	// The body wraps the fields in a "job" envelope. A missing envelope
	// leaves the request empty and fails validation in the service.
	var req struct {
		Job job.CreateRequest `json:"job"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	j, err := a.jobs.Create(r.Context(), req.Job)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"job": job.NewView(j)})
}

func (a *API) getJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := id.ParseJobID(r.PathValue("jobID"))
	if err != nil {
		// An unparseable reference names no job.
		writeError(w, qonos.ErrJobNotFound)
		return
	}

	j, err := a.jobs.Get(r.Context(), jobID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"job": job.NewView(j)})
}

func (a *API) deleteJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := id.ParseJobID(r.PathValue("jobID"))
	if err != nil {
		writeError(w, qonos.ErrJobNotFound)
		return
	}

	if err := a.jobs.Delete(r.Context(), jobID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) updateJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID, err := id.ParseJobID(r.PathValue("jobID"))
	if err != nil {
		writeError(w, qonos.ErrJobNotFound)
		return
	}

	// The report wraps the fields in a "status" envelope.
	var upd struct {
		Status job.StatusUpdate `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	res, err := a.jobs.UpdateStatus(r.Context(), jobID, upd.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	// Workers poll this at heartbeat frequency; keep the response minimal.
	writeJSON(w, http.StatusOK, res)
}
