package util

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the fixed-shape error response returned by every handler.
type ErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func ParseJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	return decoder.Decode(dest)
}

func JSONResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func ErrorResponse(w http.ResponseWriter, status int, message string) {
	JSONResponse(w, status, ErrorBody{Error: message})
}

func ErrorResponseWithDetails(w http.ResponseWriter, status int, message, details string) {
	JSONResponse(w, status, ErrorBody{Error: message, Details: details})
}
