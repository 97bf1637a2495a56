package domain

import (
	"context"
	"time"
)

// User is an identity provided by the external auth collaborator.
// swagger:model User
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserRepository reads user profiles.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
}

// Friend is an accepted friend of a user.
// swagger:model Friend
type Friend struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

// FriendItinerary is a friend together with the event ids they saved.
type FriendItinerary struct {
	Friend   Friend
	EventIDs []string
}

// FriendRepository reads accepted friendships.
type FriendRepository interface {
	ListFriends(ctx context.Context, userID string) ([]Friend, error)
}

// FriendService exposes friend views for a user.
type FriendService interface {
	List(ctx context.Context, userID string) ([]Friend, error)
	Going(ctx context.Context, userID, eventID string) ([]Friend, error)
	FriendEventIDs(ctx context.Context, userID string, friendIDs []string) (map[string]struct{}, error)
	// Itineraries returns every friend with the event ids they saved.
	Itineraries(ctx context.Context, userID string) ([]FriendItinerary, error)
}
