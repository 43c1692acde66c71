package api

import (
	"net/http"

	qonos "github.com/frielp/qonos"
	"github.com/frielp/qonos/fault"
	"github.com/frielp/qonos/id"
	"github.com/frielp/qonos/page"
)

// listJobFaults lists fault history for a job. The job itself may already
// be deleted; the history answers regardless.
func (a *API) listJobFaults(w http.ResponseWriter, r *http.Request) {
	jobID, err := id.ParseJobID(r.PathValue("jobID"))
	if err != nil {
		writeError(w, qonos.ErrJobNotFound)
		return
	}

	p, err := page.Resolve(r.URL.Query().Get("limit"), r.URL.Query().Get("marker"))
	if err != nil {
		writeError(w, err)
		return
	}

	faults, err := a.faults.ListFaultsByJob(r.Context(), jobID, p)
	if err != nil {
		writeError(w, err)
		return
	}
	if faults == nil {
		faults = []*fault.Fault{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"faults": faults})
}

func (a *API) getFault(w http.ResponseWriter, r *http.Request) {
	faultID, err := id.ParseFaultID(r.PathValue("faultID"))
	if err != nil {
		writeError(w, qonos.ErrFaultNotFound)
		return
	}

	f, err := a.faults.GetFault(r.Context(), faultID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"fault": f})
}
