package controllers

import (
	"net/http"

	"sheeets/internal/delivery/http/helpers"
	"sheeets/internal/domain"
)

// CacheStatusProvider reports the state of the event cache.
type CacheStatusProvider interface {
	Status() domain.CacheStatus
}

// HealthResponse is the data payload for GET /health.
type HealthResponse struct {
	Status string             `json:"status"`
	Cache  domain.CacheStatus `json:"cache"`
}

type HealthController struct {
	Cache CacheStatusProvider
}

func NewHealthController(cache CacheStatusProvider) *HealthController {
	return &HealthController{Cache: cache}
}

// Health godoc
// @Summary Service health
// @Description status is "ok", "degraded" when the last refresh failed, or "empty" before any events were loaded.
// @Tags health
// @Produce json
// @Success 200 {object} helpers.APIResponse
// @Router /health [get]
func (c *HealthController) Health(w http.ResponseWriter, _ *http.Request) {
	st := c.Cache.Status()
	status := "ok"
	switch {
	case st.CachedAt.IsZero():
		status = "empty"
	case st.LastError != "":
		status = "degraded"
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, HealthResponse{Status: status, Cache: st})
}
