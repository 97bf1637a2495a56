package controllers

import (
	"log/slog"
	"net/http"

	"sheeets/internal/delivery/http/helpers"
	"sheeets/internal/domain"
)

// RecommendationListResponse is the success envelope for GET /api/recommendations.
type RecommendationListResponse struct {
	Data  []domain.RankedEvent `json:"data"`
	Count int                  `json:"count"`
}

type RecommendationController struct {
	Logger  *slog.Logger
	Service domain.RecommendationService
}

func NewRecommendationController(logger *slog.Logger, svc domain.RecommendationService) *RecommendationController {
	return &RecommendationController{Logger: logger, Service: svc}
}

// List godoc
// @Summary Recommended events
// @Description Ranked by shared tags with the itinerary plus 3 points per friend attending. Reasons are tag:<name> and friend:<name> tokens; "no_itinerary" when there is nothing to personalize on.
// @Tags recommendations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.RecommendationListResponse
// @Router /api/recommendations [get]
func (c *RecommendationController) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	ranked, err := c.Service.ForUser(r.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err, "not found")
		return
	}
	helpers.WriteJSONList(w, http.StatusOK, ranked, len(ranked))
}
