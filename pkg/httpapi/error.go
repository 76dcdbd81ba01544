package httpapi

import (
	"encoding/json"
	"net/http"
)

// ErrorEnvelope is the uniform error body of the console API. Code is
// a stable machine-readable identifier the UI switches on; Message is
// safe to show to an operator verbatim.
type ErrorEnvelope struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Meta    map[string]string `json:"meta,omitempty"`
}

// WriteJSON writes payload with the given status. A nil payload sends
// headers only. The status is committed before encoding, so an encoder
// failure cannot change it.
func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

// WriteError writes an ErrorEnvelope with the given status.
func WriteError(w http.ResponseWriter, status int, code, message string, meta map[string]string) error {
	return WriteJSON(w, status, &ErrorEnvelope{
		Code:    code,
		Message: message,
		Meta:    meta,
	})
}
