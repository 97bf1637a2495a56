package controllers

import (
	"net/http"

	"sheeets/internal/delivery/http/helpers"
	"sheeets/internal/delivery/http/middleware"
)

// currentUser returns the caller's user id or writes a 401.
func currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return "", false
	}
	return userID, true
}

// EventIDRequest is the request body for endpoints that take a single event id.
type EventIDRequest struct {
	EventID string `json:"event_id"`
}

// Validate implements Validator.
func (e EventIDRequest) Validate() []string {
	if e.EventID == "" {
		return []string{"event_id is required"}
	}
	return nil
}
