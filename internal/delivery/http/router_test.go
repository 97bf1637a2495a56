package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sheeets/internal/delivery/http/controllers"
	"sheeets/internal/domain"
	"sheeets/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type stubProvider struct{ events []domain.Event }

func (s stubProvider) GetEvents(context.Context) ([]domain.Event, error) { return s.events, nil }

func (s stubProvider) GetByID(_ context.Context, id string) (*domain.Event, error) {
	for i := range s.events {
		if s.events[i].ID == id {
			return &s.events[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s stubProvider) Status() domain.CacheStatus {
	return domain.CacheStatus{CachedAt: time.Now(), Count: len(s.events)}
}

type stubFriends struct{}

func (stubFriends) List(context.Context, string) ([]domain.Friend, error) {
	return []domain.Friend{{UserID: "f1", DisplayName: "Bea"}}, nil
}
func (stubFriends) Going(context.Context, string, string) ([]domain.Friend, error) {
	return []domain.Friend{}, nil
}
func (stubFriends) FriendEventIDs(context.Context, string, []string) (map[string]struct{}, error) {
	return map[string]struct{}{}, nil
}
func (stubFriends) Itineraries(context.Context, string) ([]domain.FriendItinerary, error) {
	return nil, nil
}

// stubVerifier accepts "good" with every scope and "narrow" with events:read only.
type stubVerifier struct{}

func (stubVerifier) Verify(_ context.Context, token string) (domain.Principal, error) {
	switch token {
	case "good":
		return domain.Principal{UserID: "u1", CredentialID: "c-good", Scopes: domain.AllScopes}, nil
	case "narrow":
		return domain.Principal{UserID: "u2", CredentialID: "c-narrow", Scopes: []string{domain.ScopeEventsRead}}, nil
	}
	return domain.Principal{}, domain.ErrUnauthorized
}

func newTestRouter(perMinute int) *http.ServeMux {
	provider := stubProvider{events: []domain.Event{
		{ID: "evt-1", Conference: "ETHDenver", DateISO: "2026-02-10", StartTime: "1:00p", Name: "Mixer", Tags: []string{"DeFi"}},
	}}
	eventSvc := services.NewEventService(provider, services.EventServiceConfig{Friends: stubFriends{}}, testLogger, time.Second)
	c := Controllers{
		Events:  controllers.NewEventController(testLogger, eventSvc),
		Health:  controllers.NewHealthController(provider),
		Friends: controllers.NewFriendController(testLogger, stubFriends{}),
	}
	limiter := services.NewRateLimiter(perMinute, 1000, nil)
	return NewRouter(c, stubVerifier{}, limiter, testLogger)
}

func TestRouter(t *testing.T) {
	router := newTestRouter(60)

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
	}{
		{name: "public list", method: http.MethodGet, path: "/events", wantStatus: http.StatusOK},
		{name: "static segment beats id", method: http.MethodGet, path: "/events/tags", wantStatus: http.StatusOK},
		{name: "event by id", method: http.MethodGet, path: "/events/evt-1", wantStatus: http.StatusOK},
		{name: "unknown event", method: http.MethodGet, path: "/events/evt-404", wantStatus: http.StatusNotFound},
		{name: "health", method: http.MethodGet, path: "/health", wantStatus: http.StatusOK},
		{name: "api without credential", method: http.MethodGet, path: "/api/friends", wantStatus: http.StatusUnauthorized},
		{name: "api with bad credential", method: http.MethodGet, path: "/api/friends", token: "bad", wantStatus: http.StatusUnauthorized},
		{name: "api missing scope", method: http.MethodGet, path: "/api/friends", token: "narrow", wantStatus: http.StatusForbidden},
		{name: "api granted", method: http.MethodGet, path: "/api/friends", token: "good", wantStatus: http.StatusOK},
		{name: "api events", method: http.MethodGet, path: "/api/events", token: "narrow", wantStatus: http.StatusOK},
		{name: "calendar needs itinerary scope", method: http.MethodGet, path: "/api/itinerary.ics", token: "narrow", wantStatus: http.StatusForbidden},
		{name: "wrong method", method: http.MethodPost, path: "/events", wantStatus: http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "http://test"+tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
		})
	}
}

func TestRouter_RateLimitPerCredential(t *testing.T) {
	router := newTestRouter(2)

	call := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "http://test/api/events", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	require.Equal(t, http.StatusOK, call("good").Code)
	require.Equal(t, http.StatusOK, call("good").Code)
	rr := call("good")
	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"rate limit exceeded: 2 requests per minute"}`, rr.Body.String())

	// Other credentials have their own budget.
	assert.Equal(t, http.StatusOK, call("narrow").Code)
}

func TestRouter_ScopeRejectionsDoNotUseQuota(t *testing.T) {
	router := newTestRouter(2)

	call := func(path string) int {
		req := httptest.NewRequest(http.MethodGet, "http://test"+path, nil)
		req.Header.Set("Authorization", "Bearer narrow")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr.Code
	}

	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusForbidden, call("/api/friends"))
	}
	assert.Equal(t, http.StatusOK, call("/api/events"))
	assert.Equal(t, http.StatusOK, call("/api/events"))
	assert.Equal(t, http.StatusTooManyRequests, call("/api/events"))
}
