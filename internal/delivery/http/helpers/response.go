package helpers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"sheeets/internal/domain"
)

// APIResponse is the envelope for every JSON response. On success Data is
// set, and Count for list responses. On error only Error is set.
// swagger:model APIResponse
type APIResponse struct {
	Data  any    `json:"data,omitempty"`
	Count *int   `json:"count,omitempty"`
	Error string `json:"error,omitempty"`
}

// WriteJSONSuccess writes statusCode and an envelope carrying data.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	writeJSON(w, statusCode, APIResponse{Data: data})
}

// WriteJSONList writes statusCode and an envelope carrying data and count.
func WriteJSONList(w http.ResponseWriter, statusCode int, data any, count int) {
	writeJSON(w, statusCode, APIResponse{Data: data, Count: &count})
}

// WriteJSONError writes statusCode and {"error": message}.
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, APIResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, statusCode int, body APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteServiceError maps a service error onto a status and message.
// notFound is the message used for domain.ErrNotFound so handlers can avoid
// saying whose resource was missing. Unmapped errors are logged and reported
// as a generic 500.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, notFound string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, notFound)
	case errors.Is(err, domain.ErrInvalidInput):
		WriteJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		WriteJSONError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrRateLimited):
		WriteJSONError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, domain.ErrConflict):
		WriteJSONError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrNoCachedEvents):
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, http.StatusServiceUnavailable, "failed to load events")
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, http.StatusInternalServerError, "internal server error")
	}
}
