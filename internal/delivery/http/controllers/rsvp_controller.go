package controllers

import (
	"log/slog"
	"net/http"

	"sheeets/internal/delivery/http/helpers"
	"sheeets/internal/domain"
)

// RSVPResponse is the success envelope for POST /api/rsvps.
type RSVPResponse struct {
	Data *domain.RSVP `json:"data"`
}

// RSVPListResponse is the success envelope for GET /api/rsvps.
type RSVPListResponse struct {
	Data  []*domain.RSVP `json:"data"`
	Count int            `json:"count"`
}

type RSVPController struct {
	Logger  *slog.Logger
	Service domain.RSVPService
}

func NewRSVPController(logger *slog.Logger, svc domain.RSVPService) *RSVPController {
	return &RSVPController{Logger: logger, Service: svc}
}

// Create godoc
// @Summary RSVP to an event
// @Description Idempotent per user and event: 201 when created, 200 with the existing RSVP otherwise. A confirmation email is sent on creation.
// @Tags rsvps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.EventIDRequest true "Event to attend"
// @Success 201 {object} controllers.RSVPResponse
// @Success 200 {object} controllers.RSVPResponse
// @Failure 400 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Router /api/rsvps [post]
func (c *RSVPController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req EventIDRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	rsvp, created, err := c.Service.Create(r.Context(), userID, req.EventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	helpers.WriteJSONSuccess(w, status, rsvp)
}

// List godoc
// @Summary The caller's RSVPs, newest first
// @Tags rsvps
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.RSVPListResponse
// @Router /api/rsvps [get]
func (c *RSVPController) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	list, err := c.Service.List(r.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "not found")
		return
	}
	helpers.WriteJSONList(w, http.StatusOK, list, len(list))
}
