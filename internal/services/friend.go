package services

import (
	"context"
	"slices"
	"time"

	"sheeets/internal/domain"
)

type friendService struct {
	friendRepo     domain.FriendRepository
	itineraryRepo  domain.ItineraryRepository
	contextTimeout time.Duration
}

// NewFriendService reads friendships and the itineraries of friends.
func NewFriendService(friendRepo domain.FriendRepository, itineraryRepo domain.ItineraryRepository, timeout time.Duration) domain.FriendService {
	return &friendService{friendRepo: friendRepo, itineraryRepo: itineraryRepo, contextTimeout: timeout}
}

func (s *friendService) List(ctx context.Context, userID string) ([]domain.Friend, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	friends, err := s.friendRepo.ListFriends(ctx, userID)
	if err != nil {
		return nil, err
	}
	if friends == nil {
		friends = []domain.Friend{}
	}
	return friends, nil
}

// Going returns the friends of userID whose itinerary holds eventID.
func (s *friendService) Going(ctx context.Context, userID, eventID string) ([]domain.Friend, error) {
	itineraries, err := s.itineraries(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	out := []domain.Friend{}
	for _, fi := range itineraries {
		if slices.Contains(fi.EventIDs, eventID) {
			out = append(out, fi.Friend)
		}
	}
	return out, nil
}

// FriendEventIDs returns the union of saved event ids across the selected
// friends. Ids that are not friends of userID are ignored.
func (s *friendService) FriendEventIDs(ctx context.Context, userID string, friendIDs []string) (map[string]struct{}, error) {
	itineraries, err := s.itineraries(ctx, userID, friendIDs)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{})
	for _, fi := range itineraries {
		for _, id := range fi.EventIDs {
			set[id] = struct{}{}
		}
	}
	return set, nil
}

func (s *friendService) Itineraries(ctx context.Context, userID string) ([]domain.FriendItinerary, error) {
	return s.itineraries(ctx, userID, nil)
}

// itineraries loads friends of userID, narrowed to only when non-empty,
// together with their saved event ids.
func (s *friendService) itineraries(ctx context.Context, userID string, only []string) ([]domain.FriendItinerary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	friends, err := s.friendRepo.ListFriends(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(only) > 0 {
		friends = slices.DeleteFunc(friends, func(f domain.Friend) bool { return !slices.Contains(only, f.UserID) })
	}
	if len(friends) == 0 {
		return nil, nil
	}
	ids := make([]string, len(friends))
	for i, f := range friends {
		ids[i] = f.UserID
	}
	saved, err := s.itineraryRepo.ListEventIDsForUsers(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]domain.FriendItinerary, len(friends))
	for i, f := range friends {
		out[i] = domain.FriendItinerary{Friend: f, EventIDs: saved[f.UserID]}
	}
	return out, nil
}
