package controllers

import (
	"log/slog"
	"net/http"

	"sheeets/internal/delivery/http/helpers"
	"sheeets/internal/domain"
)

// EventListResponse is the success envelope for event lists. Count is the
// number of matching events before limit and offset.
type EventListResponse struct {
	Data  []domain.Event `json:"data"`
	Count int            `json:"count"`
}

// EventResponse is the success envelope for a single event.
type EventResponse struct {
	Data domain.Event `json:"data"`
}

// NameCountResponse is the success envelope for conference and tag counts.
type NameCountResponse struct {
	Data []domain.NameCount `json:"data"`
}

// DateCountResponse is the success envelope for date counts.
type DateCountResponse struct {
	Data []domain.DateCount `json:"data"`
}

// ImageResponse is the data payload for GET /events/{id}/image?redirect=false.
type ImageResponse struct {
	URL string `json:"url"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{Logger: logger, Service: svc}
}

// List godoc
// @Summary List events
// @Description Filtered events from the cache in display order. Filters combine with AND; tags must all be present.
// @Tags events
// @Produce json
// @Param conference query string false "Conference name"
// @Param date query string false "ISO dates, comma separated"
// @Param tags query string false "Tags, comma separated; all must match"
// @Param search query string false "Case-insensitive text search"
// @Param free query bool false "Free events only"
// @Param now query bool false "Only events happening now or soon"
// @Param time_start query number false "Earliest start hour (0-24)"
// @Param time_end query number false "Latest start hour, exclusive (0-24)"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} controllers.EventListResponse
// @Failure 400 {object} helpers.APIResponse
// @Failure 503 {object} helpers.APIResponse "no event data available"
// @Router /events [get]
func (c *EventController) List(w http.ResponseWriter, r *http.Request) {
	filter, page, ok := parseListQuery(w, r)
	if !ok {
		return
	}
	events, err := c.Service.List(r.Context(), filter)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "not found")
		return
	}
	helpers.WriteJSONList(w, http.StatusOK, helpers.Slice(events, page), len(events))
}

// ListForUser godoc
// @Summary List events for the caller
// @Description Same filters as GET /events plus friends (user ids, comma separated) and itinerary=true.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param friends query string false "Friend user ids, comma separated"
// @Param itinerary query bool false "Only saved events"
// @Success 200 {object} controllers.EventListResponse
// @Failure 400 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse
// @Failure 429 {object} helpers.APIResponse
// @Router /api/events [get]
func (c *EventController) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	filter, page, ok := parseListQuery(w, r)
	if !ok {
		return
	}
	events, err := c.Service.ListForUser(r.Context(), userID, filter)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "not found")
		return
	}
	helpers.WriteJSONList(w, http.StatusOK, helpers.Slice(events, page), len(events))
}

func parseListQuery(w http.ResponseWriter, r *http.Request) (domain.FilterState, helpers.Page, bool) {
	filter, err := helpers.ParseFilterState(r)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return filter, helpers.Page{}, false
	}
	page, err := helpers.ParsePage(r)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return filter, page, false
	}
	return filter, page, true
}

// GetByID godoc
// @Summary Get an event
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} controllers.EventResponse
// @Failure 404 {object} helpers.APIResponse
// @Router /events/{id} [get]
func (c *EventController) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "missing event id")
		return
	}
	event, err := c.Service.GetByID(r.Context(), id)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// Conferences godoc
// @Summary Conferences with event counts
// @Tags events
// @Produce json
// @Success 200 {object} controllers.NameCountResponse
// @Router /events/conferences [get]
func (c *EventController) Conferences(w http.ResponseWriter, r *http.Request) {
	out, err := c.Service.Conferences(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, out)
}

// Tags godoc
// @Summary Tags with event counts, most used first
// @Tags events
// @Produce json
// @Success 200 {object} controllers.NameCountResponse
// @Router /events/tags [get]
func (c *EventController) Tags(w http.ResponseWriter, r *http.Request) {
	out, err := c.Service.Tags(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, out)
}

// Dates godoc
// @Summary Dates with event counts, ascending
// @Tags events
// @Produce json
// @Success 200 {object} controllers.DateCountResponse
// @Router /events/dates [get]
func (c *EventController) Dates(w http.ResponseWriter, r *http.Request) {
	out, err := c.Service.Dates(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, out)
}

// Image godoc
// @Summary Preview image for an event link
// @Description Redirects to the og:image of the event's link. With redirect=false the URL is returned as JSON.
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Param redirect query bool false "Redirect (default true)"
// @Success 200 {object} helpers.APIResponse "data.url"
// @Success 302
// @Failure 404 {object} helpers.APIResponse
// @Router /events/{id}/image [get]
func (c *EventController) Image(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, "missing event id")
		return
	}
	url, err := c.Service.ImageURL(r.Context(), id)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "image not found")
		return
	}
	if r.URL.Query().Get("redirect") == "false" {
		helpers.WriteJSONSuccess(w, http.StatusOK, ImageResponse{URL: url})
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.Redirect(w, r, url, http.StatusFound)
}
