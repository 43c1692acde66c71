package api

import (
	"encoding/json"
	"net/http"

	qonos "github.com/frielp/qonos"
	"github.com/frielp/qonos/id"
	"github.com/frielp/qonos/page"
	"github.com/frielp/qonos/schedule"
)

func (a *API) listSchedules(w http.ResponseWriter, r *http.Request) {
	p, err := page.Resolve(r.URL.Query().Get("limit"), r.URL.Query().Get("marker"))
	if err != nil {
		writeError(w, err)
		return
	}

	scheds, err := a.schedules.List(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}
	if scheds == nil {
		scheds = []*schedule.Schedule{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"schedules": scheds})
}

func (a *API) createSchedule(w http.ResponseWriter, r *http.Request) {
	var req schedule.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	sched, err := a.schedules.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"schedule": sched})
}

func (a *API) getSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := id.ParseScheduleID(r.PathValue("scheduleID"))
	if err != nil {
		// An unparseable reference names no schedule.
		writeError(w, qonos.ErrScheduleNotFound)
		return
	}

	sched, err := a.schedules.Get(r.Context(), scheduleID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"schedule": sched})
}

func (a *API) deleteSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := id.ParseScheduleID(r.PathValue("scheduleID"))
	if err != nil {
		writeError(w, qonos.ErrScheduleNotFound)
		return
	}

	if err := a.schedules.Delete(r.Context(), scheduleID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
