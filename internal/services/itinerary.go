package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"sheeets/internal/domain"
)

type itineraryService struct {
	repo           domain.ItineraryRepository
	events         domain.EventProvider
	now            func() time.Time
	contextTimeout time.Duration
}

// NewItineraryService manages saved events, checking ids against the cache.
func NewItineraryService(repo domain.ItineraryRepository, events domain.EventProvider, timeout time.Duration) domain.ItineraryService {
	return &itineraryService{repo: repo, events: events, now: time.Now, contextTimeout: timeout}
}

// List resolves saved ids against the cache in display order and flags
// overlapping events. Ids missing from the cache are reported separately.
func (s *itineraryService) List(ctx context.Context, userID string) (*domain.ItineraryView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	ids, err := s.repo.ListEventIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	all, err := s.events.GetEvents(ctx)
	if err != nil {
		return nil, err
	}
	saved := toSet(ids)
	view := &domain.ItineraryView{Events: []domain.Event{}, Conflicts: []string{}, Missing: []string{}}
	found := make(map[string]struct{}, len(ids))
	for _, e := range all {
		if _, ok := saved[e.ID]; ok {
			view.Events = append(view.Events, e)
			found[e.ID] = struct{}{}
		}
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			view.Missing = append(view.Missing, id)
		}
	}
	view.Events = SortByDateTime(view.Events)
	for id := range DetectConflicts(view.Events) {
		view.Conflicts = append(view.Conflicts, id)
	}
	sort.Strings(view.Conflicts)
	return view, nil
}

func (s *itineraryService) IDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	ids, err := s.repo.ListEventIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toSet(ids), nil
}

// Add saves eventID for the user. Saving twice is a no-op.
func (s *itineraryService) Add(ctx context.Context, userID, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if eventID == "" {
		return fmt.Errorf("%w: event_id is required", domain.ErrInvalidInput)
	}
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return err
	}
	return s.repo.Add(ctx, &domain.ItineraryItem{UserID: userID, EventID: eventID, CreatedAt: s.now()})
}

func (s *itineraryService) Remove(ctx context.Context, userID, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.repo.Remove(ctx, userID, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}
