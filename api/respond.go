package api

import (
	"encoding/json"
	"errors"
	"net/http"

	qonos "github.com/frielp/qonos"
	"github.com/frielp/qonos/schedule"
)

// errorResponse is the uniform error body.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON serializes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // headers already sent
}

// writeError maps sentinel errors onto HTTP status codes and writes the
// error body. Unrecognized errors become 500 with a generic message so
// internals never leak.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case isInvalid(err):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case isNotFound(err):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case isConflict(err):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func isInvalid(err error) bool {
	return errors.Is(err, qonos.ErrInvalidLimit) ||
		errors.Is(err, qonos.ErrMissingScheduleID) ||
		errors.Is(err, qonos.ErrMissingStatus) ||
		errors.Is(err, qonos.ErrInvalidTimeout) ||
		errors.Is(err, schedule.ErrMissingTenant) ||
		errors.Is(err, schedule.ErrMissingAction)
}

func isNotFound(err error) bool {
	return errors.Is(err, qonos.ErrScheduleNotFound) ||
		errors.Is(err, qonos.ErrJobNotFound) ||
		errors.Is(err, qonos.ErrFaultNotFound)
}

func isConflict(err error) bool {
	return errors.Is(err, qonos.ErrVersionConflict) ||
		errors.Is(err, qonos.ErrJobAlreadyExists) ||
		errors.Is(err, qonos.ErrScheduleAlreadyExists)
}
