package common

import (
	"encoding/json"
	"net/http"

	apperrors "ideavine-backend/pkg/errors"
)

// RespondJSON sends a JSON response
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError sends an error response in the flat {"error": "..."} shape
// the frontend consumes.
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, map[string]string{"error": message})
}

// RespondAppError maps an error from the service layer onto an HTTP response.
// AppError carries its own status; anything else is a 500 with a generic
// message so internal state never leaks.
func RespondAppError(w http.ResponseWriter, err error) {
	if appErr := apperrors.GetAppError(err); appErr != nil {
		RespondError(w, appErr.HTTPStatus, appErr.Message)
		return
	}
	RespondError(w, http.StatusInternalServerError, "An error occurred: "+err.Error())
}

// ParseJSONBody parses JSON request body with size limit
func ParseJSONBody(r *http.Request, v interface{}, maxBytes int64) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBytes)
	return json.NewDecoder(r.Body).Decode(v)
}
