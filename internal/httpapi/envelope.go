package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// envelope is the response shape of the cart subsystem:
// {statusCode, message, data}.
type envelope struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
}

func writeEnvelope(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{StatusCode: status, Message: message, Data: data})
}

func writeOK(w http.ResponseWriter, data any) {
	writeEnvelope(w, http.StatusOK, "OK", data)
}

// writeJSON is used by the catalog and import endpoints, which predate the
// envelope and answer with bare JSON bodies.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// internalError hides the cause from the caller and logs it.
func internalError(w http.ResponseWriter, log *slog.Logger, r *http.Request, err error) {
	log.Error("internal error",
		"method", r.Method,
		"path", r.URL.Path,
		"err", err,
	)
	writeEnvelope(w, http.StatusInternalServerError, "Internal server error", nil)
}
