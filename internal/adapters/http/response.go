package http

import (
	"encoding/json"
	"net/http"
)

// Every endpoint answers with the same envelope: successes wrap their
// payload under "data" (or carry a bare "message" for bodiless
// operations), failures carry a machine-readable code next to the
// human-readable message.
type successEnvelope struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type errorEnvelope struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, statusCode int, data any) {
	writeJSON(w, statusCode, successEnvelope{Status: "success", Data: data})
}

func writeMessage(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, successEnvelope{Status: "success", Message: message})
}

func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, errorEnvelope{Status: "error", Code: code, Message: message})
}
