package services

import (
	"context"
	"log/slog"
	"time"

	"sheeets/internal/domain"
)

type eventService struct {
	events         domain.EventProvider
	itineraryRepo  domain.ItineraryRepository
	friends        domain.FriendService
	images         domain.ImageLookup
	imageCache     *TTLCache[string, string]
	policy         domain.NowPolicy
	loc            *time.Location
	now            func() time.Time
	logger         *slog.Logger
	contextTimeout time.Duration
}

// EventServiceConfig holds the optional collaborators of the event service.
type EventServiceConfig struct {
	Itinerary domain.ItineraryRepository
	Friends   domain.FriendService
	Images    domain.ImageLookup
	ImageTTL  time.Duration
	NowPolicy domain.NowPolicy
	// Location is the conference time zone used by now mode.
	Location *time.Location
	Now      func() time.Time
}

// NewEventService serves event queries from the materialized cache.
func NewEventService(events domain.EventProvider, cfg EventServiceConfig, logger *slog.Logger, timeout time.Duration) domain.EventService {
	s := &eventService{
		events:         events,
		itineraryRepo:  cfg.Itinerary,
		friends:        cfg.Friends,
		images:         cfg.Images,
		policy:         cfg.NowPolicy,
		loc:            cfg.Location,
		now:            cfg.Now,
		logger:         logger,
		contextTimeout: timeout,
	}
	if s.policy == (domain.NowPolicy{}) {
		s.policy = domain.DefaultNowPolicy()
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	ttl := cfg.ImageTTL
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	s.imageCache = NewTTLCache[string, string](ttl, 5000, s.now)
	return s
}

func (s *eventService) List(ctx context.Context, f domain.FilterState) ([]domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	all, err := s.events.GetEvents(ctx)
	if err != nil {
		return nil, err
	}
	// Anonymous callers have no itinerary or friends.
	f.ItineraryOnly = false
	f.SelectedFriends = nil
	return ApplyFilters(all, f, FilterInputs{Now: s.now().In(s.loc), Policy: s.policy}), nil
}

func (s *eventService) ListForUser(ctx context.Context, userID string, f domain.FilterState) ([]domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	all, err := s.events.GetEvents(ctx)
	if err != nil {
		return nil, err
	}
	in := FilterInputs{Now: s.now().In(s.loc), Policy: s.policy}
	if f.ItineraryOnly && s.itineraryRepo != nil {
		ids, err := s.itineraryRepo.ListEventIDs(ctx, userID)
		if err != nil {
			return nil, err
		}
		in.Itinerary = toSet(ids)
	}
	if len(f.SelectedFriends) > 0 && s.friends != nil {
		in.FriendEvents, err = s.friends.FriendEventIDs(ctx, userID, f.SelectedFriends)
		if err != nil {
			return nil, err
		}
	}
	return ApplyFilters(all, f, in), nil
}

func (s *eventService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.events.GetByID(ctx, id)
}

func (s *eventService) Conferences(ctx context.Context) ([]domain.NameCount, error) {
	all, err := s.events.GetEvents(ctx)
	if err != nil {
		return nil, err
	}
	return ConferenceCounts(all), nil
}

func (s *eventService) Tags(ctx context.Context) ([]domain.NameCount, error) {
	all, err := s.events.GetEvents(ctx)
	if err != nil {
		return nil, err
	}
	return TagCounts(all), nil
}

func (s *eventService) Dates(ctx context.Context) ([]domain.DateCount, error) {
	all, err := s.events.GetEvents(ctx)
	if err != nil {
		return nil, err
	}
	return DateCounts(all), nil
}

// ImageURL returns a preview image for the event's link. Lookups, misses
// included, are memoized per link.
func (s *eventService) ImageURL(ctx context.Context, id string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	e, err := s.events.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if s.images == nil || e.Link == "" {
		return "", domain.ErrNotFound
	}
	if img, ok := s.imageCache.Get(e.Link); ok {
		if img == "" {
			return "", domain.ErrNotFound
		}
		return img, nil
	}
	img, ok, err := s.images.Lookup(ctx, e.Link)
	if err != nil {
		s.logger.WarnContext(ctx, "image lookup failed", "event_id", id, "link", e.Link, "err", err)
		return "", domain.ErrNotFound
	}
	if !ok {
		img = ""
	}
	s.imageCache.Set(e.Link, img)
	if img == "" {
		return "", domain.ErrNotFound
	}
	return img, nil
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
