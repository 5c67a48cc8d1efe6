package httputil

import (
	"encoding/json"
	"net/http"
)

// RespondJSON writes a JSON response with the given status code.
// It marshals before writing any headers so an encoding failure cannot
// produce a partial response.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		RespondError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

type errorBody struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// RespondError writes a JSON error response of the form {"error": "..."}.
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondErrorWithDetails(w, status, message, nil)
}

// RespondErrorWithDetails writes an error response with an optional
// machine-readable details payload, for example per-field validation errors.
func RespondErrorWithDetails(w http.ResponseWriter, status int, message string, details interface{}) {
	payload, err := json.Marshal(errorBody{Error: message, Details: details})
	if err != nil {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal server error"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}
