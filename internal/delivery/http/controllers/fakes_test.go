package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sheeets/internal/delivery/http/helpers"
	"sheeets/internal/delivery/http/middleware"
	"sheeets/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

func withUser(r *http.Request, userID string, scopes ...string) *http.Request {
	return r.WithContext(middleware.SetPrincipal(r.Context(), domain.Principal{
		UserID: userID, CredentialID: "cred-" + userID, Scopes: scopes,
	}))
}

// decodeEnvelope decodes a JSON response into the envelope, with Data
// decoded into data when non-nil.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, data any) helpers.APIResponse {
	t.Helper()
	var raw struct {
		Data  json.RawMessage `json:"data"`
		Count *int            `json:"count"`
		Error string          `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&raw), "response must be a JSON envelope")
	if data != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return helpers.APIResponse{Count: raw.Count, Error: raw.Error}
}

type fakeEventService struct {
	events     []domain.Event
	err        error
	image      string
	lastFilter domain.FilterState
	lastUserID string
}

func (f *fakeEventService) List(_ context.Context, fs domain.FilterState) ([]domain.Event, error) {
	f.lastFilter = fs
	return f.events, f.err
}

func (f *fakeEventService) ListForUser(_ context.Context, userID string, fs domain.FilterState) ([]domain.Event, error) {
	f.lastUserID = userID
	f.lastFilter = fs
	return f.events, f.err
}

func (f *fakeEventService) GetByID(_ context.Context, id string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.events {
		if f.events[i].ID == id {
			e := f.events[i]
			return &e, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventService) Conferences(context.Context) ([]domain.NameCount, error) {
	return []domain.NameCount{{Name: "ETHDenver", Count: 2}}, f.err
}

func (f *fakeEventService) Tags(context.Context) ([]domain.NameCount, error) {
	return []domain.NameCount{{Name: "DeFi", Count: 2}, {Name: "AI", Count: 1}}, f.err
}

func (f *fakeEventService) Dates(context.Context) ([]domain.DateCount, error) {
	return []domain.DateCount{{Date: "2026-02-10", Count: 2}}, f.err
}

func (f *fakeEventService) ImageURL(_ context.Context, id string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.image == "" {
		return "", domain.ErrNotFound
	}
	return f.image, nil
}

type fakeItineraryService struct {
	view       *domain.ItineraryView
	err        error
	lastUserID string
	lastEvent  string
}

func (f *fakeItineraryService) List(_ context.Context, userID string) (*domain.ItineraryView, error) {
	f.lastUserID = userID
	return f.view, f.err
}

func (f *fakeItineraryService) IDs(context.Context, string) (map[string]struct{}, error) {
	return nil, f.err
}

func (f *fakeItineraryService) Add(_ context.Context, userID, eventID string) error {
	f.lastUserID, f.lastEvent = userID, eventID
	return f.err
}

func (f *fakeItineraryService) Remove(_ context.Context, userID, eventID string) error {
	f.lastUserID, f.lastEvent = userID, eventID
	return f.err
}

type fakeFriendService struct {
	friends   []domain.Friend
	err       error
	lastEvent string
}

func (f *fakeFriendService) List(context.Context, string) ([]domain.Friend, error) {
	return f.friends, f.err
}

func (f *fakeFriendService) Going(_ context.Context, _, eventID string) ([]domain.Friend, error) {
	f.lastEvent = eventID
	return f.friends, f.err
}

func (f *fakeFriendService) FriendEventIDs(context.Context, string, []string) (map[string]struct{}, error) {
	return map[string]struct{}{}, f.err
}

func (f *fakeFriendService) Itineraries(context.Context, string) ([]domain.FriendItinerary, error) {
	return nil, f.err
}

type fakeRSVPService struct {
	rsvp    *domain.RSVP
	created bool
	list    []*domain.RSVP
	err     error
}

func (f *fakeRSVPService) Create(_ context.Context, userID, eventID string) (*domain.RSVP, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	if f.rsvp == nil {
		f.rsvp = &domain.RSVP{ID: "r1", UserID: userID, EventID: eventID, Status: domain.RSVPStatusGoing, CreatedAt: time.Now()}
	}
	return f.rsvp, f.created, nil
}

func (f *fakeRSVPService) List(context.Context, string) ([]*domain.RSVP, error) {
	return f.list, f.err
}

type fakeRecommendationService struct {
	ranked []domain.RankedEvent
	err    error
}

func (f *fakeRecommendationService) ForUser(context.Context, string) ([]domain.RankedEvent, error) {
	return f.ranked, f.err
}

type fakeAPIKeyService struct {
	err        error
	lastScopes []string
	lastTTL    time.Duration
}

func (f *fakeAPIKeyService) Create(_ context.Context, userID, name string, scopes []string, ttl time.Duration) (*domain.APIKey, string, error) {
	f.lastScopes, f.lastTTL = scopes, ttl
	if f.err != nil {
		return nil, "", f.err
	}
	return &domain.APIKey{ID: "k1", UserID: userID, Name: name, Prefix: "abc", Scopes: scopes}, "sk_abc_secret", nil
}

func (f *fakeAPIKeyService) Authenticate(context.Context, string) (domain.Principal, error) {
	return domain.Principal{}, domain.ErrUnauthorized
}

type fakeCacheStatus struct{ status domain.CacheStatus }

func (f fakeCacheStatus) Status() domain.CacheStatus { return f.status }
