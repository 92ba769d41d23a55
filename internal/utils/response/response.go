// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Success responses may return any JSON shape (a student, a list, ...).
// Error responses always look like:
//
//	{ "status": "error", "error": "field name is required" }
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aanand-mishra/student-records/internal/records"
)

// Response is the standard envelope returned for error cases.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// WriteJSON writes data JSON-encoded with the given HTTP status code.
// Headers must be set before WriteHeader; the body follows.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// GeneralError wraps any Go error into the standard Response shape.
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// StatusFor maps a records error to the HTTP status a client should see.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, records.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, records.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, records.ErrDuplicateKey):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// StoreError writes err with the status StatusFor picks. Server-side
// failures get a generic message; the detail stays in the logs.
func StoreError(w http.ResponseWriter, err error) int {
	status := StatusFor(err)

	var verr *records.ValidationError
	switch {
	case errors.As(err, &verr):
		WriteJSON(w, status, GeneralError(verr))
	case status == http.StatusNotFound:
		WriteJSON(w, status, GeneralError(records.ErrNotFound))
	case status == http.StatusConflict:
		WriteJSON(w, status, GeneralError(records.ErrDuplicateKey))
	default:
		WriteJSON(w, status, GeneralError(errors.New("internal error")))
	}
	return status
}
