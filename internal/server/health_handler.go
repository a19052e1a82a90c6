package server

import (
	"net/http"

	"urlsentinel/internal/json"
)

// ServeHealth handles the "/health" route
func (h *Handler) ServeHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	response := map[string]string{
		"status": "ok",
	}
	json.GetJsonEncoder(w).Encode(response)
}
