package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/frielp/qonos/api"
	"github.com/frielp/qonos/fault"
	"github.com/frielp/qonos/job"
	"github.com/frielp/qonos/schedule"
	"github.com/frielp/qonos/store/memory"
)

func newTestHandler(t *testing.T) (http.Handler, *memory.Store) {
	t.Helper()
	st := memory.New()
	recorder := fault.NewRecorder(st)
	jobs := job.NewService(st, st, recorder)
	schedules := schedule.NewService(st)
	a := api.New(jobs, schedules, st, api.WithHealth(st))
	return a.Handler(), st
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

// createTestSchedule creates a schedule over the API and returns its ID.
func createTestSchedule(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := doRequest(t, h, http.MethodPost, "/v1/schedules",
		`{"tenant_id":"t1","action":"snapshot","metadata":[{"key":"instance","value":"inst-7"}]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create schedule status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	sched := body["schedule"].(map[string]interface{})
	return sched["id"].(string)
}

// createTestJob materializes a job from the schedule and returns its ID.
func createTestJob(t *testing.T, h http.Handler, scheduleID string) string {
	t.Helper()
	rec := doRequest(t, h, http.MethodPost, "/v1/jobs",
		fmt.Sprintf(`{"job":{"schedule_id":%q}}`, scheduleID))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create job status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	j := body["job"].(map[string]interface{})
	return j["id"].(string)
}

func TestCreateJobFromSchedule(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	schedID := createTestSchedule(t, h)
	rec := doRequest(t, h, http.MethodPost, "/v1/jobs",
		fmt.Sprintf(`{"job":{"schedule_id":%q}}`, schedID))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body.String())
	}

	j := decodeBody(t, rec)["job"].(map[string]interface{})
	if j["status"] != "QUEUED" {
		t.Errorf("status = %v, want QUEUED", j["status"])
	}
	if j["schedule_id"] != schedID {
		t.Errorf("schedule_id = %v, want %v", j["schedule_id"], schedID)
	}
	if j["worker_id"] != nil {
		t.Errorf("worker_id = %v, want null", j["worker_id"])
	}
	meta := j["metadata"].(map[string]interface{})
	if meta["instance"] != "inst-7" {
		t.Errorf("metadata = %v, want copied schedule metadata", meta)
	}
}

func TestCreateJobValidation(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"missing envelope", `{}`, http.StatusBadRequest},
		{"missing schedule_id", `{"job":{}}`, http.StatusBadRequest},
		{"unparseable schedule_id", `{"job":{"schedule_id":"not-an-id"}}`, http.StatusNotFound},
		{"unknown schedule", `{"job":{"schedule_id":"sched_00000000000000000000000000"}}`, http.StatusNotFound},
		{"malformed body", `{`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodPost, "/v1/jobs", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d; body %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestCreateJobIgnoresExtraFields(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	schedID := createTestSchedule(t, h)
	rec := doRequest(t, h, http.MethodPost, "/v1/jobs",
		fmt.Sprintf(`{"job":{"schedule_id":%q,"tenant_id":"intruder","status":"DONE"}}`, schedID))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body.String())
	}

	j := decodeBody(t, rec)["job"].(map[string]interface{})
	if j["tenant_id"] != "t1" {
		t.Errorf("tenant_id = %v, want the schedule's tenant", j["tenant_id"])
	}
	if j["status"] != "QUEUED" {
		t.Errorf("status = %v, want QUEUED", j["status"])
	}
}

func TestJobMetadataIsPointInTime(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	schedID := createTestSchedule(t, h)
	jobID := createTestJob(t, h, schedID)

	// Deleting the schedule must not disturb the materialized job.
	rec := doRequest(t, h, http.MethodDelete, "/v1/schedules/"+schedID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete schedule status = %d", rec.Code)
	}

	rec = doRequest(t, h, http.MethodGet, "/v1/jobs/"+jobID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get job status = %d", rec.Code)
	}
	j := decodeBody(t, rec)["job"].(map[string]interface{})
	meta := j["metadata"].(map[string]interface{})
	if meta["instance"] != "inst-7" {
		t.Errorf("metadata = %v, want snapshot taken at materialization", meta)
	}
}

func TestUpdateStatus(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	schedID := createTestSchedule(t, h)
	jobID := createTestJob(t, h, schedID)

	rec := doRequest(t, h, http.MethodPut, "/v1/jobs/"+jobID+"/status",
		`{"status":{"status":"running","timeout":"2026-09-01T12:00:00Z"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["status"] != "RUNNING" {
		t.Errorf("status = %v, want RUNNING (normalized)", body["status"])
	}
	if body["timeout"] == nil {
		t.Error("timeout = null, want the accepted deadline")
	}
}

func TestUpdateStatusValidation(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	schedID := createTestSchedule(t, h)
	jobID := createTestJob(t, h, schedID)

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"missing envelope", "/v1/jobs/" + jobID + "/status", `{}`, http.StatusBadRequest},
		{"empty status", "/v1/jobs/" + jobID + "/status", `{"status":{}}`, http.StatusBadRequest},
		{"bad timeout", "/v1/jobs/" + jobID + "/status", `{"status":{"status":"RUNNING","timeout":"tomorrow"}}`, http.StatusBadRequest},
		{"unknown job", "/v1/jobs/job_00000000000000000000000000/status", `{"status":{"status":"DONE"}}`, http.StatusNotFound},
		{"unparseable job id", "/v1/jobs/bogus/status", `{"status":{"status":"DONE"}}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodPut, tt.path, tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d; body %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestRequestBodiesRequireEnvelopes(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	schedID := createTestSchedule(t, h)
	jobID := createTestJob(t, h, schedID)

	// Bare fields outside the "job" envelope name no schedule.
	rec := doRequest(t, h, http.MethodPost, "/v1/jobs",
		fmt.Sprintf(`{"schedule_id":%q}`, schedID))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unenveloped create status = %d, want 400; body %s", rec.Code, rec.Body.String())
	}

	// A bare string where the "status" envelope belongs is malformed.
	rec = doRequest(t, h, http.MethodPut, "/v1/jobs/"+jobID+"/status",
		`{"status":"running"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unenveloped status update = %d, want 400; body %s", rec.Code, rec.Body.String())
	}

	// The enveloped shapes succeed end to end.
	rec = doRequest(t, h, http.MethodPut, "/v1/jobs/"+jobID+"/status",
		`{"status":{"status":"running"}}`)
	if rec.Code != http.StatusOK {
		t.Errorf("enveloped status update = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateStatusAcceptsUnknownVocabulary(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	schedID := createTestSchedule(t, h)
	jobID := createTestJob(t, h, schedID)

	rec := doRequest(t, h, http.MethodPut, "/v1/jobs/"+jobID+"/status",
		`{"status":{"status":"paused"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if body := decodeBody(t, rec); body["status"] != "PAUSED" {
		t.Errorf("status = %v, want PAUSED", body["status"])
	}
}

func TestErrorTransitionRecordsFault(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	schedID := createTestSchedule(t, h)
	jobID := createTestJob(t, h, schedID)

	rec := doRequest(t, h, http.MethodPut, "/v1/jobs/"+jobID+"/status",
		`{"status":{"status":"ERROR","error_message":"disk full"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, h, http.MethodGet, "/v1/jobs/"+jobID+"/faults", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list faults status = %d", rec.Code)
	}
	faults := decodeBody(t, rec)["faults"].([]interface{})
	if len(faults) != 1 {
		t.Fatalf("len(faults) = %d, want 1", len(faults))
	}
	f := faults[0].(map[string]interface{})
	if f["worker_id"] != "UNASSIGNED" {
		t.Errorf("worker_id = %v, want UNASSIGNED", f["worker_id"])
	}
	if f["message"] != "disk full" {
		t.Errorf("message = %v, want %q", f["message"], "disk full")
	}
}

func TestFaultsOutliveJob(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	schedID := createTestSchedule(t, h)
	jobID := createTestJob(t, h, schedID)

	doRequest(t, h, http.MethodPut, "/v1/jobs/"+jobID+"/status", `{"status":{"status":"ERROR"}}`)

	rec := doRequest(t, h, http.MethodDelete, "/v1/jobs/"+jobID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete job status = %d", rec.Code)
	}

	rec = doRequest(t, h, http.MethodGet, "/v1/jobs/"+jobID+"/faults", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list faults status = %d", rec.Code)
	}
	faults := decodeBody(t, rec)["faults"].([]interface{})
	if len(faults) != 1 {
		t.Fatalf("len(faults) = %d, want 1 after job deletion", len(faults))
	}
}

func TestListJobsPagination(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	schedID := createTestSchedule(t, h)
	for range 5 {
		createTestJob(t, h, schedID)
	}

	rec := doRequest(t, h, http.MethodGet, "/v1/jobs?limit=3", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	first := decodeBody(t, rec)["jobs"].([]interface{})
	if len(first) != 3 {
		t.Fatalf("len(first) = %d, want 3", len(first))
	}

	marker := first[2].(map[string]interface{})["id"].(string)
	rec = doRequest(t, h, http.MethodGet, "/v1/jobs?marker="+marker, "")
	rest := decodeBody(t, rec)["jobs"].([]interface{})
	if len(rest) != 2 {
		t.Fatalf("len(rest) = %d, want 2", len(rest))
	}
}

func TestListJobsInvalidLimit(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	for _, limit := range []string{"abc", "0", "-5"} {
		rec := doRequest(t, h, http.MethodGet, "/v1/jobs?limit="+limit, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("limit=%s status = %d, want 400", limit, rec.Code)
		}
	}
}

func TestScheduleValidation(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"missing tenant", `{"action":"snapshot"}`, http.StatusBadRequest},
		{"missing action", `{"tenant_id":"t1"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodPost, "/v1/schedules", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHealthz(t *testing.T) {
	t.Parallel()
	h, _ := newTestHandler(t)

	rec := doRequest(t, h, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
