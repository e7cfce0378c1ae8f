package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// ErrorResponse is the body of every JSON error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status. A value that
// cannot be encoded is logged and answered with a 500 instead.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		zap.L().Error("failed to encode JSON response",
			zap.Int("status", status),
			zap.Error(err),
		)
		buf.Reset()
		json.NewEncoder(&buf).Encode(ErrorResponse{Error: "internal server error"})
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		zap.L().Debug("failed to write JSON response", zap.Error(err))
	}
}

// WriteError writes a standardised JSON error response.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorResponse{Error: msg})
}

// WriteErrorDetails writes a standardised JSON error response carrying
// structured details, typically a list of field validation errors.
func WriteErrorDetails(w http.ResponseWriter, status int, msg string, details any) {
	WriteJSON(w, status, ErrorResponse{Error: msg, Details: details})
}
