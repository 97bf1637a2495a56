package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"sheeets/internal/delivery/http/helpers"
	"sheeets/internal/domain"
	"sheeets/internal/services"
)

// ItineraryResponse is the success envelope for GET /api/itinerary.
type ItineraryResponse struct {
	Data domain.ItineraryView `json:"data"`
}

// CalendarOptions controls the iCalendar export.
type CalendarOptions struct {
	Location *time.Location
	// DefaultDuration is used for events without an end time.
	DefaultDuration time.Duration
	Now             func() time.Time
}

type ItineraryController struct {
	Logger       *slog.Logger
	Service      domain.ItineraryService
	CalendarOpts CalendarOptions
}

func NewItineraryController(logger *slog.Logger, svc domain.ItineraryService, cal CalendarOptions) *ItineraryController {
	if cal.Now == nil {
		cal.Now = time.Now
	}
	return &ItineraryController{Logger: logger, Service: svc, CalendarOpts: cal}
}

// List godoc
// @Summary The caller's itinerary
// @Description Saved events in display order with ids of overlapping events. Saved ids no longer in the feed are listed under missing.
// @Tags itinerary
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ItineraryResponse
// @Failure 401 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse
// @Failure 429 {object} helpers.APIResponse
// @Router /api/itinerary [get]
func (c *ItineraryController) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	view, err := c.Service.List(r.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "itinerary not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// Add godoc
// @Summary Save an event to the itinerary
// @Tags itinerary
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.EventIDRequest true "Event to save"
// @Success 201 {object} helpers.APIResponse "data.event_id"
// @Failure 400 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Router /api/itinerary [post]
func (c *ItineraryController) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req EventIDRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.Add(r.Context(), userID, req.EventID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, req)
}

// Remove godoc
// @Summary Remove an event from the itinerary
// @Tags itinerary
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 204
// @Failure 404 {object} helpers.APIResponse
// @Router /api/itinerary/{eventID} [delete]
func (c *ItineraryController) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "missing eventID")
		return
	}
	if err := c.Service.Remove(r.Context(), userID, eventID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "itinerary item not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Calendar godoc
// @Summary Itinerary as iCalendar
// @Tags itinerary
// @Produce text/calendar
// @Security BearerAuth
// @Success 200 {string} string "text/calendar document"
// @Router /api/itinerary.ics [get]
func (c *ItineraryController) Calendar(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	view, err := c.Service.List(r.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "itinerary not found")
		return
	}
	body, err := services.ItineraryCalendar(view.Events, c.CalendarOpts.Location, c.CalendarOpts.DefaultDuration, c.CalendarOpts.Now())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "itinerary not found")
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="itinerary.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}
