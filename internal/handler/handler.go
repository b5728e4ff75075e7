package handler

import (
	"encoding/json"
	"net/http"

	"bookstore/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError maps a service error onto an HTTP status and a stable error
// code. Unclassified errors surface as 500 without leaking internals.
func writeError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	status := statusFor(model.KindOf(err))

	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Msg("handler error")
		message = "internal server error"
	} else {
		logger.Warn().Err(err).Int("status", status).Msg("request rejected")
	}

	writeJSON(w, status, model.ErrorResponse{Error: model.CodeOf(err), Message: message})
}

// writeBadRequest writes a 400 response for malformed input that never
// reached the service layer.
func writeBadRequest(w http.ResponseWriter, code, message string) {
	writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: code, Message: message})
}

func statusFor(kind model.ErrorKind) int {
	switch kind {
	case model.KindNotFound:
		return http.StatusNotFound
	case model.KindInvalidRequest:
		return http.StatusBadRequest
	case model.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
