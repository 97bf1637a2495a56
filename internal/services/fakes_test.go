package services

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"sheeets/internal/domain"
)

// testLogger discards output so tests don't assert on logs.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeProvider serves a fixed event set.
type fakeProvider struct {
	events []domain.Event
	err    error
}

func (f *fakeProvider) GetEvents(ctx context.Context) ([]domain.Event, error) {
	return f.events, f.err
}

func (f *fakeProvider) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, e := range f.events {
		if e.ID == id {
			e := e
			return &e, nil
		}
	}
	return nil, domain.ErrNotFound
}

// fakeItineraryRepo is an in-memory ItineraryRepository.
type fakeItineraryRepo struct {
	mu    sync.Mutex
	items map[string][]string
	err   error
}

func newFakeItineraryRepo() *fakeItineraryRepo {
	return &fakeItineraryRepo{items: make(map[string][]string)}
}

func (f *fakeItineraryRepo) ListEventIDs(ctx context.Context, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return slices.Clone(f.items[userID]), nil
}

func (f *fakeItineraryRepo) ListEventIDsForUsers(ctx context.Context, userIDs []string) (map[string][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string][]string)
	for _, id := range userIDs {
		if ids, ok := f.items[id]; ok {
			out[id] = slices.Clone(ids)
		}
	}
	return out, nil
}

func (f *fakeItineraryRepo) Add(ctx context.Context, item *domain.ItineraryItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if !slices.Contains(f.items[item.UserID], item.EventID) {
		f.items[item.UserID] = append(f.items[item.UserID], item.EventID)
	}
	return nil
}

func (f *fakeItineraryRepo) Remove(ctx context.Context, userID, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	i := slices.Index(f.items[userID], eventID)
	if i < 0 {
		return domain.ErrNotFound
	}
	f.items[userID] = slices.Delete(f.items[userID], i, i+1)
	return nil
}

// fakeFriendRepo maps a user to their accepted friends.
type fakeFriendRepo struct {
	friends map[string][]domain.Friend
	err     error
}

func (f *fakeFriendRepo) ListFriends(ctx context.Context, userID string) ([]domain.Friend, error) {
	if f.err != nil {
		return nil, f.err
	}
	return slices.Clone(f.friends[userID]), nil
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	users map[string]*domain.User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

// fakeRSVPRepo is an in-memory RSVPRepository.
type fakeRSVPRepo struct {
	rsvps     []*domain.RSVP
	createErr error
}

func (f *fakeRSVPRepo) Create(ctx context.Context, r *domain.RSVP) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.rsvps = append(f.rsvps, r)
	return nil
}

func (f *fakeRSVPRepo) GetByUserAndEvent(ctx context.Context, userID, eventID string) (*domain.RSVP, error) {
	for _, r := range f.rsvps {
		if r.UserID == userID && r.EventID == eventID {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRSVPRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.RSVP, error) {
	var out []*domain.RSVP
	for _, r := range f.rsvps {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

// fakeEmailService records RSVP confirmations.
type fakeEmailService struct {
	sent []*domain.RSVPConfirmationEmailData
	err  error
}

func (f *fakeEmailService) SendRSVPConfirmation(ctx context.Context, data *domain.RSVPConfirmationEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}

// fakeAPIKeyRepo stores keys by prefix.
type fakeAPIKeyRepo struct {
	byPrefix map[string]*domain.APIKey
}

func newFakeAPIKeyRepo() *fakeAPIKeyRepo {
	return &fakeAPIKeyRepo{byPrefix: make(map[string]*domain.APIKey)}
}

func (f *fakeAPIKeyRepo) Create(ctx context.Context, k *domain.APIKey) error {
	f.byPrefix[k.Prefix] = k
	return nil
}

func (f *fakeAPIKeyRepo) GetByPrefix(ctx context.Context, prefix string) (*domain.APIKey, error) {
	if k, ok := f.byPrefix[prefix]; ok {
		return k, nil
	}
	return nil, domain.ErrNotFound
}

// plainHasher "hashes" by prefixing, so tests need no bcrypt.
type plainHasher struct{}

func (plainHasher) Hash(secret string) (string, error) { return "h:" + secret, nil }

func (plainHasher) Compare(hash, secret string) error {
	if hash != "h:"+secret {
		return domain.ErrUnauthorized
	}
	return nil
}

// fakeClock is a settable clock.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func ev(id, date, start, end string, tags ...string) domain.Event {
	if tags == nil {
		tags = []string{}
	}
	return domain.Event{
		ID:        id,
		Name:      "Event " + id,
		DateISO:   date,
		StartTime: start,
		EndTime:   end,
		IsAllDay:  start == domain.AllDay,
		Tags:      tags,
	}
}

func ids(events []domain.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}
