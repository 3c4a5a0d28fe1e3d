package middleware

import (
	"encoding/json"
	"net/http"
)

// errorBody matches the {error} envelope the handlers write.
type errorBody struct {
	Error string `json:"error"`
}

// reject ends the request with status and a JSON error body.
func reject(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: msg})
}
