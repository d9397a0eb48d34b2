package httpapi

import (
	"encoding/json"
	"net/http"

	"todocore/pkg/domain"
)

// Error kinds minted at the HTTP boundary. Domain kinds pass through
// unchanged.
const (
	kindMethodNotAllowed = domain.Kind("method_not_allowed")
	kindInternal         = domain.Kind("internal_error")
)

// errorEnvelope is the wire shape of every non-2xx response.
type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, kind domain.Kind, message string) {
	writeJSON(w, status, errorEnvelope{Error: string(kind), Message: message})
}
