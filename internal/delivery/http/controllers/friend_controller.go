package controllers

import (
	"log/slog"
	"net/http"

	"sheeets/internal/delivery/http/helpers"
	"sheeets/internal/domain"
)

// FriendListResponse is the success envelope for friend lists.
type FriendListResponse struct {
	Data  []domain.Friend `json:"data"`
	Count int             `json:"count"`
}

type FriendController struct {
	Logger  *slog.Logger
	Service domain.FriendService
}

func NewFriendController(logger *slog.Logger, svc domain.FriendService) *FriendController {
	return &FriendController{Logger: logger, Service: svc}
}

// List godoc
// @Summary The caller's friends
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.FriendListResponse
// @Failure 401 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse
// @Router /api/friends [get]
func (c *FriendController) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	friends, err := c.Service.List(r.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "not found")
		return
	}
	helpers.WriteJSONList(w, http.StatusOK, friends, len(friends))
}

// Going godoc
// @Summary Friends who saved an event
// @Tags friends
// @Produce json
// @Security BearerAuth
// @Param event_id query string true "Event ID"
// @Success 200 {object} controllers.FriendListResponse
// @Failure 400 {object} helpers.APIResponse
// @Router /api/friends/going [get]
func (c *FriendController) Going(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	eventID := r.URL.Query().Get("event_id")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "event_id is required")
		return
	}
	friends, err := c.Service.Going(r.Context(), userID, eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "not found")
		return
	}
	helpers.WriteJSONList(w, http.StatusOK, friends, len(friends))
}
