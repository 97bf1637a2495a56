package domain

import (
	"context"
	"time"
)

// ItineraryItem is one saved event of a user.
type ItineraryItem struct {
	UserID    string    `json:"user_id"`
	EventID   string    `json:"event_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ItineraryRepository stores saved event ids per user.
type ItineraryRepository interface {
	ListEventIDs(ctx context.Context, userID string) ([]string, error)
	// ListEventIDsForUsers returns saved event ids keyed by user id.
	ListEventIDsForUsers(ctx context.Context, userIDs []string) (map[string][]string, error)
	Add(ctx context.Context, item *ItineraryItem) error
	// Remove returns ErrNotFound if the user never saved the event.
	Remove(ctx context.Context, userID, eventID string) error
}

// ItineraryView is an itinerary resolved against the event cache.
// swagger:model ItineraryView
type ItineraryView struct {
	Events    []Event  `json:"events"`
	Conflicts []string `json:"conflicts"`
	// Missing lists saved ids no longer present in the cache.
	Missing []string `json:"missing"`
}

// ItineraryService manages a user's saved events.
type ItineraryService interface {
	List(ctx context.Context, userID string) (*ItineraryView, error)
	IDs(ctx context.Context, userID string) (map[string]struct{}, error)
	Add(ctx context.Context, userID, eventID string) error
	Remove(ctx context.Context, userID, eventID string) error
}

// RankedEvent is a recommendation with its score and reason tokens.
// swagger:model RankedEvent
type RankedEvent struct {
	Event   Event    `json:"event"`
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

// RecommendationService ranks events for a user.
type RecommendationService interface {
	ForUser(ctx context.Context, userID string) ([]RankedEvent, error)
}
