package services

import (
	"context"
	"time"

	"sheeets/internal/domain"
)

type recommendationService struct {
	events         domain.EventProvider
	itineraryRepo  domain.ItineraryRepository
	friends        domain.FriendService
	limit          int
	contextTimeout time.Duration
}

// NewRecommendationService ranks cached events for a user. friends may be nil.
func NewRecommendationService(events domain.EventProvider, itineraryRepo domain.ItineraryRepository, friends domain.FriendService, limit int, timeout time.Duration) domain.RecommendationService {
	return &recommendationService{
		events:         events,
		itineraryRepo:  itineraryRepo,
		friends:        friends,
		limit:          limit,
		contextTimeout: timeout,
	}
}

func (s *recommendationService) ForUser(ctx context.Context, userID string) ([]domain.RankedEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	all, err := s.events.GetEvents(ctx)
	if err != nil {
		return nil, err
	}
	ids, err := s.itineraryRepo.ListEventIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	var friends []domain.FriendItinerary
	if s.friends != nil {
		friends, err = s.friends.Itineraries(ctx, userID)
		if err != nil {
			return nil, err
		}
	}
	return Recommend(all, toSet(ids), friends, s.limit), nil
}
