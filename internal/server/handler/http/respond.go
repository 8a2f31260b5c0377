// Package http provides the HTTP handlers and router for the game backend:
// user registration, login and per-user progress.
package http

import (
	"encoding/json"
	"net/http"
)

// internalErrorMessage is the only text a client sees for unexpected faults.
// The underlying error is logged server-side, never returned.
const internalErrorMessage = "An unexpected error occurred. Please try again later."

// response is the stable JSON envelope for API responses.
type response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	UserID  int64  `json:"userID,omitempty"`
	// Username is set on successful login.
	Username string `json:"username,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, response{Success: false, Message: message})
}
