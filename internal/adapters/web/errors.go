package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/thejaskrizzz/business-managerpro/internal/core"
)

type errorResponse struct {
	Error     string            `json:"error"`
	Code      string            `json:"code"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeServiceError maps the service error taxonomy onto HTTP statuses:
// validation 400, missing records 404, lifecycle violations and number
// collisions 409. Anything unrecognized is a 500 whose detail stays out of
// the response.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve  *core.ValidationError
		nfe *core.NotFoundError
		ite *core.IllegalTransitionError
		dup *core.DuplicateNumberError
	)
	switch {
	case errors.As(err, &ve):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(errorResponse{
			Error:     ve.Error(),
			Code:      "VALIDATION",
			Fields:    ve.Fields,
			RequestID: requestIDFromContext(r.Context()),
		})
	case errors.As(err, &nfe):
		writeError(w, r, nfe.Error(), "NOT_FOUND", http.StatusNotFound)
	case errors.As(err, &ite):
		writeError(w, r, ite.Error(), "ILLEGAL_TRANSITION", http.StatusConflict)
	case errors.As(err, &dup):
		writeError(w, r, dup.Error(), "DUPLICATE_NUMBER", http.StatusConflict)
	default:
		writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONStatus writes a JSON response with an explicit status code.
func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
