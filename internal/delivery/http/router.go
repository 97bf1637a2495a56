package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"sheeets/internal/delivery/http/controllers"
	"sheeets/internal/delivery/http/middleware"
	"sheeets/internal/domain"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Events          *controllers.EventController
	Health          *controllers.HealthController
	Itinerary       *controllers.ItineraryController
	Friends         *controllers.FriendController
	RSVPs           *controllers.RSVPController
	Recommendations *controllers.RecommendationController
	Keys            *controllers.APIKeyController
}

// NewRouter initializes the HTTP router with all application routes.
// Public event routes are open and served from the cache. Routes under /api
// require a bearer credential and one scope each, then are rate limited per
// credential. Calls refused for a missing scope do not use up the quota.
func NewRouter(c Controllers, verifier domain.TokenVerifier, limiter domain.RateLimiter, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", c.Health.Health)
	mux.HandleFunc("GET /events", c.Events.List)
	mux.HandleFunc("GET /events/conferences", c.Events.Conferences)
	mux.HandleFunc("GET /events/tags", c.Events.Tags)
	mux.HandleFunc("GET /events/dates", c.Events.Dates)
	mux.HandleFunc("GET /events/{id}", c.Events.GetByID)
	mux.HandleFunc("GET /events/{id}/image", c.Events.Image)

	// Authenticated
	authed := func(scope string, h http.HandlerFunc) http.HandlerFunc {
		return middleware.Chain(h,
			middleware.RequireAuth(verifier, logger),
			middleware.RequireScope(scope),
			middleware.RateLimit(limiter, logger),
		)
	}
	mux.HandleFunc("GET /api/events", authed(domain.ScopeEventsRead, c.Events.ListForUser))
	mux.HandleFunc("GET /api/itinerary", authed(domain.ScopeItineraryRead, c.Itinerary.List))
	mux.HandleFunc("GET /api/itinerary.ics", authed(domain.ScopeItineraryRead, c.Itinerary.Calendar))
	mux.HandleFunc("POST /api/itinerary", authed(domain.ScopeItineraryWrite, c.Itinerary.Add))
	mux.HandleFunc("DELETE /api/itinerary/{eventID}", authed(domain.ScopeItineraryWrite, c.Itinerary.Remove))
	mux.HandleFunc("GET /api/friends", authed(domain.ScopeFriendsRead, c.Friends.List))
	mux.HandleFunc("GET /api/friends/going", authed(domain.ScopeFriendsRead, c.Friends.Going))
	mux.HandleFunc("POST /api/rsvps", authed(domain.ScopeRSVPWrite, c.RSVPs.Create))
	mux.HandleFunc("GET /api/rsvps", authed(domain.ScopeRSVPRead, c.RSVPs.List))
	mux.HandleFunc("GET /api/recommendations", authed(domain.ScopeRecommendationsRead, c.Recommendations.List))
	mux.HandleFunc("POST /api/keys", authed(domain.ScopeKeysWrite, c.Keys.Create))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
